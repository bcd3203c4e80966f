// Copyright 2024-2026 Aiku AI

package mattermostconn

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"
	"go.mau.fi/util/jsontime"

	"github.com/aiku/botroute/pkg/routing"
)

// ActivityHandler receives each inbound activity the listener accepts.
// Handlers run on the listener's event loop, so slow work should be handed
// off to a goroutine.
type ActivityHandler func(activity *routing.Activity)

// Listener maintains a WebSocket connection to a Mattermost server and
// converts posted events into routing activities addressed to the bot.
type Listener struct {
	client   *model.Client4
	wsClient *model.WebSocketClient
	handler  ActivityHandler

	serverURL   string
	botUserID   string
	botUsername string
	mentionOnly bool

	stopOnce sync.Once
	stopChan chan struct{}
	log      zerolog.Logger
}

// NewListener creates a listener for the configured server that delivers
// inbound activities to handler.
func NewListener(cfg *Config, handler ActivityHandler, log zerolog.Logger) *Listener {
	client := model.NewAPIv4Client(cfg.ServerURL)
	client.SetToken(cfg.BotToken)
	return &Listener{
		client:      client,
		handler:     handler,
		serverURL:   cfg.ServerURL,
		botUserID:   cfg.BotUserID,
		botUsername: cfg.BotUsername,
		mentionOnly: cfg.MentionOnly,
		stopChan:    make(chan struct{}),
		log:         log.With().Str("component", "mm_listener").Logger(),
	}
}

// Connect verifies the bot session, resolves the bot identity if the config
// left it blank, and starts the WebSocket event loop.
func (l *Listener) Connect(ctx context.Context) error {
	if err := l.resolveIdentity(ctx); err != nil {
		return err
	}
	return l.connectWebSocket()
}

func (l *Listener) resolveIdentity(ctx context.Context) error {
	me, _, err := l.client.GetMe(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to verify Mattermost session: %w", err)
	}
	if l.botUserID == "" {
		l.botUserID = me.Id
	}
	if l.botUsername == "" {
		l.botUsername = me.Username
	}
	l.log.Info().
		Str("user_id", l.botUserID).
		Str("username", l.botUsername).
		Msg("Authenticated")
	return nil
}

func (l *Listener) connectWebSocket() error {
	wsURL := httpToWS(l.serverURL)
	var err error
	l.wsClient, err = model.NewWebSocketClient4(wsURL, l.client.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to create websocket client: %w", err)
	}
	l.wsClient.Listen()

	go l.listenWebSocket()

	l.log.Info().Str("ws_url", wsURL).Msg("WebSocket connected")
	return nil
}

// httpToWS converts an HTTP(S) URL to a WS(S) URL.
func httpToWS(url string) string {
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	if strings.HasPrefix(url, "http://") {
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}

func (l *Listener) listenWebSocket() {
	for {
		select {
		case <-l.stopChan:
			return
		case evt, ok := <-l.wsClient.EventChannel:
			if !ok {
				l.log.Warn().Msg("WebSocket event channel closed, reconnecting")
				l.handleWebSocketDisconnect()
				return
			}
			if evt == nil {
				continue
			}
			l.handleEvent(evt)
		}
	}
}

func (l *Listener) handleWebSocketDisconnect() {
	select {
	case <-l.stopChan:
		return
	default:
	}
	if err := l.connectWebSocket(); err != nil {
		l.log.Error().Err(err).Msg("Failed to reconnect WebSocket")
	}
}

// handleEvent dispatches a Mattermost WebSocket event. Only posted events
// become activities; everything else is ignored.
func (l *Listener) handleEvent(evt *model.WebSocketEvent) {
	switch evt.EventType() {
	case model.WebsocketEventPosted:
		l.handlePosted(evt)
	default:
		l.log.Trace().Str("event_type", string(evt.EventType())).Msg("Unhandled event type")
	}
}

func (l *Listener) handlePosted(evt *model.WebSocketEvent) {
	activity, err := l.parsePostedEvent(evt)
	if err != nil {
		l.log.Warn().Err(err).Msg("Failed to parse posted event")
		return
	}
	if activity == nil {
		return
	}

	l.log.Debug().
		Str("post_id", activity.ID).
		Str("channel_id", activity.Conversation.ID).
		Str("user_id", activity.From.ID).
		Msg("Received message")

	l.handler(activity)
}

// parsePostedEvent extracts a post from a WebSocket event and converts it to
// an activity. Returns (nil, nil) to skip silently: the bot's own posts,
// system posts, and non-mentions in mention-only mode.
func (l *Listener) parsePostedEvent(evt *model.WebSocketEvent) (*routing.Activity, error) {
	postJSON, ok := evt.GetData()["post"].(string)
	if !ok {
		return nil, fmt.Errorf("posted event missing post data")
	}

	var post model.Post
	if err := json.Unmarshal([]byte(postJSON), &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	// Echo prevention: skip own posts.
	if post.UserId == l.botUserID {
		return nil, nil
	}

	// Skip non-default post types (system messages).
	if post.Type != "" && post.Type != model.PostTypeDefault {
		return nil, nil
	}

	senderName, _ := evt.GetData()["sender_name"].(string)
	senderName = strings.TrimPrefix(senderName, "@")

	activity := l.postToActivity(&post, senderName)
	if l.mentionOnly && len(activity.Mentions) == 0 {
		return nil, nil
	}
	return activity, nil
}

// postToActivity converts a Mattermost post into an inbound activity
// addressed to the bot. A literal @botUsername in the post text becomes a
// mention annotation, so StripMentions can clean the body.
func (l *Listener) postToActivity(post *model.Post, senderName string) *routing.Activity {
	activity := &routing.Activity{
		Type:       routing.ActivityMessage,
		ID:         post.Id,
		Timestamp:  jsontime.UM(time.UnixMilli(post.CreateAt)),
		ChannelID:  ChannelID,
		ServiceURL: l.serverURL,
		From: &routing.ChannelAccount{
			ID:   post.UserId,
			Name: senderName,
		},
		Recipient: &routing.ChannelAccount{
			ID:   l.botUserID,
			Name: l.botUsername,
		},
		Conversation: &routing.ConversationAccount{
			ID: post.ChannelId,
		},
		Text:      post.Message,
		ReplyToID: post.RootId,
	}

	if l.botUsername != "" {
		mentionText := "@" + l.botUsername
		if strings.Contains(post.Message, mentionText) {
			activity.Mentions = append(activity.Mentions, routing.Mention{
				Mentioned: &routing.ChannelAccount{
					ID:   l.botUserID,
					Name: l.botUsername,
				},
				Text: mentionText,
			})
		}
	}
	return activity
}

// Disconnect closes the WebSocket connection and stops the event loop.
func (l *Listener) Disconnect() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	if l.wsClient != nil {
		l.wsClient.Close()
		l.wsClient = nil
	}
}
