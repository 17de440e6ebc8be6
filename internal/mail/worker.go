package mail

import (
	"context"
	"sync"

	"carnet/internal/logging"
)

// WorkerQueue buffers messages in a channel drained by one goroutine.
// Delivery failures are logged and dropped; there is no retry.
type WorkerQueue struct {
	sender Sender
	log    logging.Logger

	mu     sync.RWMutex
	closed bool
	ch     chan Message
	done   chan struct{}
}

func NewWorkerQueue(sender Sender, log logging.Logger, size int) *WorkerQueue {
	if size <= 0 {
		size = 1
	}
	q := &WorkerQueue{
		sender: sender,
		log:    log.With("component", "mail"),
		ch:     make(chan Message, size),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *WorkerQueue) Enqueue(ctx context.Context, msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages and waits until the buffered ones have
// been handed to the sender or ctx is done.
func (q *WorkerQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *WorkerQueue) run() {
	defer close(q.done)
	ctx := context.Background()
	for msg := range q.ch {
		if err := q.sender.Send(ctx, msg); err != nil {
			q.log.Error(ctx, "email delivery failed", "to", msg.To, "subject", msg.Subject, "err", err)
			continue
		}
		q.log.Info(ctx, "email sent", "to", msg.To, "subject", msg.Subject)
	}
}
