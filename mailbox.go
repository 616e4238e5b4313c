package maiko

import (
	"sync"
	"sync/atomic"
)

// mailbox is a bounded FIFO of shared envelope pointers, owned for writing
// by the broker and for reading by exactly one actor loop. Each side being
// single-owner means neither side needs to lock the channel itself; the
// only shared state is the closed flag, which can be observed from either
// side without racing the channel.
type mailbox[E Event] struct {
	ch     chan *Envelope[E]
	closed atomic.Bool
	once   sync.Once
}

func newMailbox[E Event](capacity int) *mailbox[E] {
	return &mailbox[E]{ch: make(chan *Envelope[E], capacity)}
}

// tryEnqueue attempts a non-blocking send. It returns (true, false) on
// success, (false, false) if the mailbox is full, and (false, true) if the
// mailbox was already closed — callers should treat a closed mailbox as
// "this subscriber no longer exists".
func (m *mailbox[E]) tryEnqueue(e *Envelope[E]) (ok bool, closed bool) {
	if m.closed.Load() {
		return false, true
	}
	select {
	case m.ch <- e:
		return true, false
	default:
		return false, false
	}
}

// enqueueBlocking sends e, blocking until there is capacity or cancel
// fires. A mailbox already closed on entry returns false at once; a close
// during the wait is not observed. It reports whether the send succeeded.
func (m *mailbox[E]) enqueueBlocking(e *Envelope[E], cancel <-chan struct{}) bool {
	if m.closed.Load() {
		return false
	}
	select {
	case m.ch <- e:
		return true
	case <-cancel:
		return false
	}
}

// close closes the mailbox's channel exactly once and marks it closed so
// concurrent senders stop trying to write to it.
func (m *mailbox[E]) close() {
	m.once.Do(func() {
		m.closed.Store(true)
		close(m.ch)
	})
}

func (m *mailbox[E]) isClosed() bool { return m.closed.Load() }

// pending returns the current queue depth.
func (m *mailbox[E]) pending() int { return len(m.ch) }

// capacity returns the mailbox's configured size.
func (m *mailbox[E]) capacity() int { return cap(m.ch) }
