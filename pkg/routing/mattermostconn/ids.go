// Copyright 2024-2026 Aiku AI

package mattermostconn

import (
	"github.com/mattermost/mattermost/server/public/model"

	"github.com/aiku/botroute/pkg/routing"
)

// ChannelID is the routing channel identifier for activities that enter or
// leave through this binding.
const ChannelID = "mattermost"

// MakeAccount creates a routing.ChannelAccount from a Mattermost user.
func MakeAccount(user *model.User) *routing.ChannelAccount {
	if user == nil {
		return nil
	}
	return &routing.ChannelAccount{
		ID:   user.Id,
		Name: user.Username,
	}
}

// MakeConversation creates a routing.ConversationAccount from a Mattermost
// channel.
func MakeConversation(channel *model.Channel) *routing.ConversationAccount {
	if channel == nil {
		return nil
	}
	return &routing.ConversationAccount{
		ID:      channel.Id,
		Name:    channel.Name,
		IsGroup: channel.Type != model.ChannelTypeDirect,
	}
}

// ParseConversationID extracts the Mattermost channel ID an activity is
// addressed to. Empty when the activity has no conversation.
func ParseConversationID(activity *routing.Activity) string {
	if activity == nil || activity.Conversation == nil {
		return ""
	}
	return activity.Conversation.ID
}
