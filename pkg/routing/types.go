// Copyright 2024-2026 Aiku AI

package routing

import (
	"go.mau.fi/util/jsontime"
)

// Activity types understood by the routing helpers. Channel bindings may
// deliver other types; the helpers only construct ActivityMessage.
const (
	ActivityMessage = "message"
)

// ChannelAccount identifies a single conversation participant (user or bot)
// on a channel. The ID is opaque to this package; two accounts are the same
// participant iff their IDs are equal.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	IsGroup bool   `json:"isGroup,omitempty"`
}

// Mention annotates a literal substring of an activity's text as referring
// to a participant.
type Mention struct {
	Mentioned *ChannelAccount `json:"mentioned,omitempty"`
	Text      string          `json:"text,omitempty"`
}

// Activity is a single inbound or outbound message payload. Activities are
// ephemeral: they are created per message and never persisted by this
// package.
type Activity struct {
	Type       string             `json:"type"`
	ID         string             `json:"id,omitempty"`
	Timestamp  jsontime.UnixMilli `json:"timestamp,omitempty"`
	ChannelID  string             `json:"channelId,omitempty"`
	ServiceURL string             `json:"serviceUrl,omitempty"`

	From         *ChannelAccount      `json:"from,omitempty"`
	Recipient    *ChannelAccount      `json:"recipient,omitempty"`
	Conversation *ConversationAccount `json:"conversation,omitempty"`

	Text      string    `json:"text,omitempty"`
	ReplyToID string    `json:"replyToId,omitempty"`
	Mentions  []Mention `json:"mentions,omitempty"`
}

// ConversationReference is a durable pointer to a conversation and one of
// its participants. The subject of the reference is whichever of User and
// Bot is populated; the helpers assume at most one of them is meaningfully
// set for identity comparison.
type ConversationReference struct {
	User         *ChannelAccount      `json:"user,omitempty"`
	Bot          *ChannelAccount      `json:"bot,omitempty"`
	Conversation *ConversationAccount `json:"conversation,omitempty"`
	ChannelID    string               `json:"channelId,omitempty"`
	ServiceURL   string               `json:"serviceUrl,omitempty"`
	ActivityID   string               `json:"activityId,omitempty"`
	Timestamp    jsontime.UnixMilli   `json:"timestamp,omitempty"`
}
