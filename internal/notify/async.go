package notify

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the queue depth used by NewAsync when size <= 0.
const DefaultBuffer = 256

// Async forwards messages to an inner Notifier on a background goroutine.
// When the queue is full the message is dropped rather than blocking.
type Async struct {
	inner   Notifier
	ch      chan string
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewAsync starts the forwarding goroutine. Call Close to flush and stop it.
func NewAsync(inner Notifier, size int) *Async {
	if size <= 0 {
		size = DefaultBuffer
	}
	a := &Async{
		inner: inner,
		ch:    make(chan string, size),
		done:  make(chan struct{}),
	}
	go a.loop()
	return a
}

func (a *Async) loop() {
	defer close(a.done)
	for msg := range a.ch {
		safe(a.inner.Notify, msg)
	}
}

// Notify implements Notifier. It never blocks.
func (a *Async) Notify(msg string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.ch <- msg:
	default:
		a.dropped.Add(1)
	}
}

// Dropped returns how many messages were discarded.
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Close stops accepting messages and waits until queued ones are delivered.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()
	<-a.done
}
