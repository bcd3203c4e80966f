// Copyright 2024-2026 Aiku AI

package routing

import (
	"errors"
	"fmt"
)

// ErrSkippedReply is returned by [Dispatcher.ReplyTo] when there is nothing
// to send (nil activity or empty text). It is a distinct, observable outcome
// rather than a silent no-op: no network call was made and none will be.
var ErrSkippedReply = errors.New("reply skipped")

// DeliveryError wraps a transport failure from a connector. The conversation
// and service URL identify which dispatch failed.
type DeliveryError struct {
	ServiceURL     string
	ConversationID string
	Err            error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver to conversation %q via %s: %v", e.ConversationID, e.ServiceURL, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
