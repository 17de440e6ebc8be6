// Package mail holds the outbound email queue. Callers enqueue messages and
// a single background worker owns delivery.
package mail

import (
	"context"
	"errors"
)

var ErrQueueClosed = errors.New("mail queue closed")

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Queue accepts messages for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
