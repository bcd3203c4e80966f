// Copyright 2024-2026 Aiku AI

// Package matrixconn binds the routing connector capability to a Matrix
// homeserver. Activities map onto m.room.message events; the conversation ID
// is the Matrix room ID and the reply target is the event ID being answered.
package matrixconn

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/aiku/botroute/pkg/routing"
)

// Connector dispatches routing activities into Matrix rooms through a
// mautrix client. Transport, auth and event serialization belong to mautrix.
type Connector struct {
	client *mautrix.Client
	log    zerolog.Logger
}

var _ routing.Connector = (*Connector)(nil)

// New creates a connector for the given homeserver, authenticated as userID
// with accessToken.
func New(homeserverURL string, userID id.UserID, accessToken string, log zerolog.Logger) (*Connector, error) {
	client, err := mautrix.NewClient(homeserverURL, userID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create matrix client: %w", err)
	}
	return &Connector{
		client: client,
		log:    log.With().Str("component", "matrix_connector").Logger(),
	}, nil
}

// SendToConversation sends the activity's text as a new message into the
// room named by the activity's conversation.
func (c *Connector) SendToConversation(ctx context.Context, activity *routing.Activity) error {
	return c.sendMessage(ctx, activity, "")
}

// ReplyToActivity sends the activity's text as a rich reply to the event in
// activity.ReplyToID. Without a reply target it degrades to a plain message.
func (c *Connector) ReplyToActivity(ctx context.Context, activity *routing.Activity) error {
	return c.sendMessage(ctx, activity, id.EventID(activity.ReplyToID))
}

func (c *Connector) sendMessage(ctx context.Context, activity *routing.Activity, inReplyTo id.EventID) error {
	if activity == nil || activity.Conversation == nil || activity.Conversation.ID == "" {
		return fmt.Errorf("activity has no conversation")
	}
	roomID := id.RoomID(activity.Conversation.ID)

	content := &event.MessageEventContent{
		MsgType: event.MsgText,
		Body:    activity.Text,
	}
	if inReplyTo != "" {
		content.RelatesTo = &event.RelatesTo{
			InReplyTo: &event.InReplyTo{EventID: inReplyTo},
		}
	}

	resp, err := c.client.SendMessageEvent(ctx, roomID, event.EventMessage, content)
	if err != nil {
		return fmt.Errorf("failed to send message event: %w", err)
	}

	c.log.Debug().
		Str("room_id", roomID.String()).
		Str("event_id", resp.EventID.String()).
		Str("in_reply_to", inReplyTo.String()).
		Msg("Dispatched message event")
	return nil
}

// Provider implements routing.ConnectorProvider over Matrix homeservers.
// Connectors are cached per homeserver URL.
type Provider struct {
	userID      id.UserID
	accessToken string
	log         zerolog.Logger

	mu         sync.Mutex
	connectors map[string]*Connector
}

var _ routing.ConnectorProvider = (*Provider)(nil)

// NewProvider creates a provider that authenticates every connector as
// userID with accessToken.
func NewProvider(userID id.UserID, accessToken string, log zerolog.Logger) *Provider {
	return &Provider{
		userID:      userID,
		accessToken: accessToken,
		log:         log,
		connectors:  make(map[string]*Connector),
	}
}

// ConnectorFor returns the connector bound to the given homeserver URL,
// creating it on first use.
func (p *Provider) ConnectorFor(serviceURL string) (routing.Connector, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("empty service URL")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.connectors[serviceURL]; ok {
		return conn, nil
	}
	conn, err := New(serviceURL, p.userID, p.accessToken, p.log)
	if err != nil {
		return nil, err
	}
	p.connectors[serviceURL] = conn
	return conn, nil
}
