// Copyright 2024-2026 Aiku AI

package routing

import (
	"context"
	"sync"
)

// mockConnector captures dispatched activities for test assertions.
type mockConnector struct {
	mu      sync.Mutex
	sent    []*Activity
	replies []*Activity
	fail    error
}

func (m *mockConnector) SendToConversation(_ context.Context, activity *Activity) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, activity)
	return nil
}

func (m *mockConnector) ReplyToActivity(_ context.Context, activity *Activity) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, activity)
	return nil
}

func (m *mockConnector) Replies() []*Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]*Activity, len(m.replies))
	copy(cp, m.replies)
	return cp
}

// mockProvider hands out a single mockConnector and records which service
// URLs were requested.
type mockProvider struct {
	conn *mockConnector
	fail error

	mu   sync.Mutex
	urls []string
}

func (p *mockProvider) ConnectorFor(serviceURL string) (Connector, error) {
	p.mu.Lock()
	p.urls = append(p.urls, serviceURL)
	p.mu.Unlock()
	if p.fail != nil {
		return nil, p.fail
	}
	return p.conn, nil
}

// newTestActivity builds an inbound message activity with distinct sender
// and recipient accounts.
func newTestActivity() *Activity {
	return &Activity{
		Type:       ActivityMessage,
		ID:         "act-1",
		ChannelID:  "mattermost",
		ServiceURL: "https://chat.example.com",
		From: &ChannelAccount{
			ID:   "user-1",
			Name: "Alice",
		},
		Recipient: &ChannelAccount{
			ID:   "bot-1",
			Name: "RouteBot",
		},
		Conversation: &ConversationAccount{
			ID:   "conv-1",
			Name: "town-square",
		},
		Text: "hello there",
	}
}

func userRef(id string) *ConversationReference {
	return &ConversationReference{
		User: &ChannelAccount{ID: id},
	}
}

func botRef(id string) *ConversationReference {
	return &ConversationReference{
		Bot: &ChannelAccount{ID: id},
	}
}
