// Copyright 2024-2026 Aiku AI

package routing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mau.fi/util/ptr"
)

// Connector dispatches outbound activities to a channel's service endpoint.
// Implementations are thin bindings over an external messaging SDK; the
// transport, auth and serialization all belong to that SDK.
type Connector interface {
	// SendToConversation posts a new activity into the conversation named
	// by activity.Conversation.
	SendToConversation(ctx context.Context, activity *Activity) error
	// ReplyToActivity posts an activity as a reply to activity.ReplyToID.
	ReplyToActivity(ctx context.Context, activity *Activity) error
}

// ConnectorProvider yields a Connector bound to a service URL.
type ConnectorProvider interface {
	ConnectorFor(serviceURL string) (Connector, error)
}

// OutboundBundle pairs a connector bound to a service URL with an activity
// ready to send. Building a bundle never dispatches; the caller does.
type OutboundBundle struct {
	Connector Connector
	Activity  *Activity
}

// Dispatcher builds and sends outbound activities. It holds no per-message
// state and is safe for concurrent use; each call performs at most one
// outbound network operation.
type Dispatcher struct {
	provider ConnectorProvider
	log      zerolog.Logger
}

// NewDispatcher creates a dispatcher that resolves connectors through
// provider and reports skipped replies and failures to log.
func NewDispatcher(provider ConnectorProvider, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		log:      log,
	}
}

// ReplyTo builds a reply to the given activity carrying text, addressed back
// along the same conversation and service URL, and dispatches it through the
// connector. A nil activity or empty text makes no network call and returns
// an error wrapping [ErrSkippedReply]; a transport failure returns a
// [*DeliveryError]. The call honors ctx, so callers that want fire-and-forget
// semantics run it in a goroutine with their own cancellation.
func (d *Dispatcher) ReplyTo(ctx context.Context, activity *Activity, text string) error {
	if activity == nil {
		d.log.Debug().Msg("Skipping reply to nil activity")
		return fmt.Errorf("%w: no activity to reply to", ErrSkippedReply)
	}
	if text == "" {
		d.log.Debug().
			Str("activity_id", activity.ID).
			Msg("Skipping reply with empty text")
		return fmt.Errorf("%w: empty message", ErrSkippedReply)
	}

	conn, err := d.provider.ConnectorFor(activity.ServiceURL)
	if err != nil {
		return fmt.Errorf("failed to get connector for %s: %w", activity.ServiceURL, err)
	}

	reply := &Activity{
		Type:         ActivityMessage,
		ChannelID:    activity.ChannelID,
		ServiceURL:   activity.ServiceURL,
		From:         ptr.Clone(activity.Recipient),
		Recipient:    ptr.Clone(activity.From),
		Conversation: ptr.Clone(activity.Conversation),
		Text:         text,
		ReplyToID:    activity.ID,
	}

	if err := conn.ReplyToActivity(ctx, reply); err != nil {
		d.log.Error().Err(err).
			Str("activity_id", activity.ID).
			Str("service_url", activity.ServiceURL).
			Msg("Reply delivery failed")
		return &DeliveryError{
			ServiceURL:     activity.ServiceURL,
			ConversationID: conversationID(activity),
			Err:            err,
		}
	}
	return nil
}

// BuildOutboundBundle pairs message with a connector bound to serviceURL.
// The message is sent as-is; nothing is filled in and nothing is dispatched.
func (d *Dispatcher) BuildOutboundBundle(serviceURL string, message *Activity) (*OutboundBundle, error) {
	conn, err := d.provider.ConnectorFor(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get connector for %s: %w", serviceURL, err)
	}
	return &OutboundBundle{
		Connector: conn,
		Activity:  message,
	}, nil
}

// BuildReplyBundle builds an outbound bundle for a new message into the
// conversation ref points at. The sender account becomes From and the
// reference's subject account (if any) becomes Recipient; when the reference
// has no subject both stay unset.
func (d *Dispatcher) BuildReplyBundle(ref *ConversationReference, text string, sender *ChannelAccount) (*OutboundBundle, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: no conversation reference", ErrSkippedReply)
	}
	conn, err := d.provider.ConnectorFor(ref.ServiceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get connector for %s: %w", ref.ServiceURL, err)
	}
	return &OutboundBundle{
		Connector: conn,
		Activity: &Activity{
			Type:         ActivityMessage,
			ChannelID:    ref.ChannelID,
			ServiceURL:   ref.ServiceURL,
			From:         ptr.Clone(sender),
			Recipient:    ptr.Clone(ResolveAccount(ref)),
			Conversation: ptr.Clone(ref.Conversation),
			Text:         text,
		},
	}, nil
}

func conversationID(activity *Activity) string {
	if activity.Conversation == nil {
		return ""
	}
	return activity.Conversation.ID
}
