// Copyright 2024-2026 Aiku AI

// Package routing provides the stateless helpers a chat bot needs to route
// messages between conversations: building conversation references from
// inbound activities, constructing and dispatching replies, stripping user
// mentions from message text, and comparing conversation participants for
// identity equality.
//
// # Core Types
//
// [Activity] is the inbound/outbound message payload. [ConversationReference]
// is a durable pointer to a conversation and one of its participants.
// [ChannelAccount] identifies a single participant; equality is ID equality,
// never pointer equality.
//
// # Dispatch
//
// [Dispatcher] is the only part of the package that crosses a network
// boundary. It resolves a [Connector] for an activity's service URL through a
// [ConnectorProvider] and sends exactly one outbound payload per call. A
// skipped reply (nil activity or empty text) is reported as [ErrSkippedReply]
// rather than silently dropped, and transport failures surface as a
// [*DeliveryError] so callers can tell the two apart.
//
// Everything else in the package is a pure function over the value types and
// is safe to call from any goroutine.
//
// # Channel Bindings
//
//   - mattermostconn binds the connector capability to a Mattermost server.
//   - matrixconn binds it to a Matrix homeserver.
package routing
