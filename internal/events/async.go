package events

import (
	"context"
	"errors"
	"sync"

	"bloodlink-backend/internal/logger"
)

// ErrQueueFull is returned by AsyncPublisher.Publish when the event was dropped.
var ErrQueueFull = errors.New("event queue full")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("event publisher closed")

// AsyncPublisher hands events to a single background goroutine so callers
// never wait on the downstream publisher.
type AsyncPublisher struct {
	next    Publisher
	queue   chan RequestEvent
	onError func(RequestEvent, error)
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncPublisher starts the delivery goroutine. At most size events wait in
// memory; onError, when set, is called from that goroutine for every failed delivery.
func NewAsyncPublisher(next Publisher, size int, onError func(RequestEvent, error)) *AsyncPublisher {
	if size <= 0 {
		size = 1
	}
	p := &AsyncPublisher{
		next:    next,
		queue:   make(chan RequestEvent, size),
		onError: onError,
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues ev without blocking.
func (p *AsyncPublisher) Publish(_ context.Context, ev RequestEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for ev := range p.queue {
		// The caller's context is usually finished by now.
		if err := p.next.Publish(context.Background(), ev); err != nil && p.onError != nil {
			p.onError(ev, err)
		}
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		logger.Warn("Event queue not drained before shutdown", "pending", len(p.queue))
		return ctx.Err()
	}
}
