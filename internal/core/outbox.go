package core

import (
	"sync"

	"github.com/gammazero/deque"
)

// Delivery is a single item queued for a client's connection worker.
type Delivery struct {
	Text string
	Kick bool
}

// Outbox is the unbounded delivery channel between the Hub and one connection
// worker. Push never blocks; once the worker closes the outbox every further
// Push fails with ErrOutboxClosed.
type Outbox struct {
	mu     sync.Mutex
	queue  deque.Deque[Delivery]
	ready  chan struct{}
	closed bool
}

// NewOutbox returns an empty, open outbox.
func NewOutbox() *Outbox {
	return &Outbox{ready: make(chan struct{}, 1)}
}

// Push appends a delivery and wakes the consumer.
func (o *Outbox) Push(d Delivery) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrOutboxClosed
	}
	o.queue.PushBack(d)
	o.mu.Unlock()

	select {
	case o.ready <- struct{}{}:
	default:
	}
	return nil
}

// Ready fires at least once after one or more pushes.
func (o *Outbox) Ready() <-chan struct{} {
	return o.ready
}

// TryPop removes the oldest queued delivery without blocking.
func (o *Outbox) TryPop() (Delivery, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.queue.Len() == 0 {
		return Delivery{}, false
	}
	return o.queue.PopFront(), true
}

// Drain removes and returns everything queued, oldest first.
func (o *Outbox) Drain() []Delivery {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Delivery, 0, o.queue.Len())
	for o.queue.Len() > 0 {
		out = append(out, o.queue.PopFront())
	}
	return out
}

// Len reports the number of queued deliveries.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queue.Len()
}

// Close marks the outbox dead and discards anything still queued.
func (o *Outbox) Close() {
	o.mu.Lock()
	o.closed = true
	o.queue.Clear()
	o.mu.Unlock()
}

// Closed reports whether Close has been called.
func (o *Outbox) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
