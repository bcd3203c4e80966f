// Copyright 2024-2026 Aiku AI

package routing

import (
	"go.mau.fi/util/ptr"
)

// CreateSenderReference builds a conversation reference whose subject is the
// activity's sender. The accounts are copied, so mutating the returned
// reference never touches the source activity. Returns nil for a nil
// activity.
func CreateSenderReference(activity *Activity) *ConversationReference {
	if activity == nil {
		return nil
	}
	return &ConversationReference{
		User:         ptr.Clone(activity.From),
		Conversation: ptr.Clone(activity.Conversation),
		ChannelID:    activity.ChannelID,
		ServiceURL:   activity.ServiceURL,
		ActivityID:   activity.ID,
		Timestamp:    activity.Timestamp,
	}
}

// CreateRecipientReference builds a conversation reference whose subject is
// the activity's recipient. Returns nil for a nil activity.
func CreateRecipientReference(activity *Activity) *ConversationReference {
	if activity == nil {
		return nil
	}
	return &ConversationReference{
		User:         ptr.Clone(activity.Recipient),
		Conversation: ptr.Clone(activity.Conversation),
		ChannelID:    activity.ChannelID,
		ServiceURL:   activity.ServiceURL,
		ActivityID:   activity.ID,
		Timestamp:    activity.Timestamp,
	}
}

// IsBot reports whether the reference's subject is a bot account.
func IsBot(ref *ConversationReference) bool {
	return ref != nil && ref.Bot != nil
}

// ResolveAccount returns the reference's subject account: the user account
// when set, otherwise the bot account, otherwise nil.
func ResolveAccount(ref *ConversationReference) *ChannelAccount {
	if ref == nil {
		return nil
	}
	if ref.User != nil {
		return ref.User
	}
	return ref.Bot
}

// AccountsMatch reports whether two references point at the same participant:
// both bot accounts with equal IDs, or both user accounts with equal IDs. A
// bot never matches a user even if the IDs coincide, and missing accounts
// simply fail the match.
func AccountsMatch(a, b *ConversationReference) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Bot != nil && b.Bot != nil && a.Bot.ID == b.Bot.ID {
		return true
	}
	return a.User != nil && b.User != nil && a.User.ID == b.User.ID
}

// FindMatching returns the candidates whose subject account matches target,
// in their original order. An empty or nil candidate list yields an empty
// result, never an error. The comparison is nil-safe throughout, so unlike
// its ancestors this filter has no fault class to swallow.
func FindMatching(target *ConversationReference, candidates []*ConversationReference) []*ConversationReference {
	matched := make([]*ConversationReference, 0, len(candidates))
	for _, candidate := range candidates {
		if AccountsMatch(target, candidate) {
			matched = append(matched, candidate)
		}
	}
	return matched
}
