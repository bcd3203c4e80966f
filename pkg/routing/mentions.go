// Copyright 2024-2026 Aiku AI

package routing

import (
	"strings"
)

// StripMentions removes every literal occurrence of each mention's text from
// the activity's message body and trims the surrounding whitespace. Removal
// repeats per mention until no occurrence remains, so text reassembled by an
// earlier removal (e.g. "@B@Bobob") is removed too. Mentions with empty text
// are skipped. An activity with no body returns it unchanged.
func StripMentions(activity *Activity) string {
	if activity == nil || activity.Text == "" {
		return ""
	}
	text := activity.Text
	for _, mention := range activity.Mentions {
		if mention.Text == "" {
			continue
		}
		for strings.Contains(text, mention.Text) {
			text = strings.ReplaceAll(text, mention.Text, "")
		}
	}
	return strings.TrimSpace(text)
}
