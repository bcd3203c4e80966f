// Copyright 2024-2026 Aiku AI

package mattermostconn

import (
	"context"
	"fmt"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"

	"github.com/aiku/botroute/pkg/routing"
)

// Connector dispatches routing activities to a Mattermost server. It is a
// thin mapping from Activity to model.Post; the HTTP transport, auth and
// serialization all belong to the Mattermost SDK client.
type Connector struct {
	client        *model.Client4
	replyInThread bool
	log           zerolog.Logger
}

var _ routing.Connector = (*Connector)(nil)

// New creates a connector bound to a Mattermost server URL, authenticated
// with the given token.
func New(serverURL, token string, replyInThread bool, log zerolog.Logger) *Connector {
	client := model.NewAPIv4Client(serverURL)
	client.SetToken(token)
	return &Connector{
		client:        client,
		replyInThread: replyInThread,
		log:           log.With().Str("component", "mm_connector").Logger(),
	}
}

// SendToConversation posts a new top-level message into the activity's
// conversation channel.
func (c *Connector) SendToConversation(ctx context.Context, activity *routing.Activity) error {
	return c.createPost(ctx, activity, "")
}

// ReplyToActivity posts the activity as an answer to activity.ReplyToID.
// When thread replies are disabled the answer lands as a top-level post in
// the same channel.
func (c *Connector) ReplyToActivity(ctx context.Context, activity *routing.Activity) error {
	rootID := ""
	if c.replyInThread {
		rootID = activity.ReplyToID
	}
	return c.createPost(ctx, activity, rootID)
}

func (c *Connector) createPost(ctx context.Context, activity *routing.Activity, rootID string) error {
	channelID := ParseConversationID(activity)
	if channelID == "" {
		return fmt.Errorf("activity has no conversation")
	}

	post := &model.Post{
		ChannelId: channelID,
		Message:   activity.Text,
		RootId:    rootID,
	}
	created, _, err := c.client.CreatePost(ctx, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	c.log.Debug().
		Str("post_id", created.Id).
		Str("channel_id", channelID).
		Str("root_id", rootID).
		Msg("Dispatched post")
	return nil
}

// Provider implements routing.ConnectorProvider over Mattermost. Connectors
// are cached per service URL so repeated dispatches to the same server reuse
// one SDK client.
type Provider struct {
	token         string
	replyInThread bool
	log           zerolog.Logger

	mu         sync.Mutex
	connectors map[string]*Connector
}

var _ routing.ConnectorProvider = (*Provider)(nil)

// NewProvider creates a provider that authenticates every connector with the
// given token.
func NewProvider(token string, replyInThread bool, log zerolog.Logger) *Provider {
	return &Provider{
		token:         token,
		replyInThread: replyInThread,
		log:           log,
		connectors:    make(map[string]*Connector),
	}
}

// ConnectorFor returns the connector bound to serviceURL, creating it on
// first use.
func (p *Provider) ConnectorFor(serviceURL string) (routing.Connector, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("empty service URL")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.connectors[serviceURL]; ok {
		return conn, nil
	}
	conn := New(serviceURL, p.token, p.replyInThread, p.log)
	p.connectors[serviceURL] = conn
	return conn, nil
}
