package maikotest

import (
	"sync"

	"github.com/ddrcode/maiko"
)

// collector is the Monitor the harness attaches to record every
// dispatch. It buffers behind a mutex and signals a buffered wake
// channel, mirroring the pattern maiko's own MonitorRegistry dispatcher
// uses internally.
type collector[E maiko.Event, T comparable] struct {
	mu     sync.Mutex
	buf    []Entry[E, T]
	wake   chan struct{}
}

func newCollector[E maiko.Event, T comparable]() *collector[E, T] {
	return &collector[E, T]{wake: make(chan struct{}, 1)}
}

func (c *collector[E, T]) Name() string { return "maikotest.collector" }

func (c *collector[E, T]) OnEventDispatched(envelope *maiko.Envelope[E], topic T, receiver maiko.ActorID) {
	c.mu.Lock()
	c.buf = append(c.buf, Entry[E, T]{Envelope: envelope, Topic: topic, Receiver: receiver})
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *collector[E, T]) drain() []Entry[E, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) == 0 {
		return nil
	}
	out := c.buf
	c.buf = nil
	return out
}
