package maikotest

import (
	"fmt"
	"time"

	"github.com/ddrcode/maiko"
)

// DefaultSettleWindow is how long Settle waits for quiet before deciding
// the system has settled.
const DefaultSettleWindow = 1 * time.Millisecond

// DefaultMaxSettle is the longest Settle will wait overall, regardless of
// activity, to bound chatty actors that never go quiet.
const DefaultMaxSettle = 10 * time.Millisecond

// Harness observes and asserts on event flow in a running maiko system.
// Attach it before Supervisor.Start so it doesn't miss early traffic, use
// StartRecording/StopRecording to bracket the window you care about, then
// query with Events, Event, Actor, Topic, or Chain.
type Harness[E maiko.Event, T comparable] struct {
	supervisor *maiko.Supervisor[E, T]
	collector  *collector[E, T]
	handle     maiko.MonitorHandle
	snapshot   []Entry[E, T]
}

// New attaches a recording monitor to supervisor. Call before
// supervisor.Start.
func New[E maiko.Event, T comparable](supervisor *maiko.Supervisor[E, T]) *Harness[E, T] {
	c := newCollector[E, T]()
	handle := supervisor.Monitors().Add(c)
	supervisor.Monitors().Pause()
	return &Harness[E, T]{supervisor: supervisor, collector: c, handle: handle}
}

// StartRecording resumes delivery to the harness's monitor. Call before
// sending the events under test.
func (h *Harness[E, T]) StartRecording() {
	h.supervisor.Monitors().Resume()
}

// StopRecording settles, then pauses delivery and freezes a snapshot for
// querying.
func (h *Harness[E, T]) StopRecording() {
	h.Settle()
	h.supervisor.Monitors().Pause()
}

// Reset discards every recorded entry, for reuse across test phases.
func (h *Harness[E, T]) Reset() {
	h.snapshot = nil
	h.collector.drain()
}

// Settle waits for event propagation to quiet down, using
// DefaultSettleWindow and DefaultMaxSettle.
func (h *Harness[E, T]) Settle() {
	h.SettleWithTimeout(DefaultSettleWindow, DefaultMaxSettle)
}

// SettleWithTimeout waits for new deliveries to stop arriving for
// settleWindow, giving up after maxSettle regardless of activity.
func (h *Harness[E, T]) SettleWithTimeout(settleWindow, maxSettle time.Duration) {
	deadline := time.Now().Add(maxSettle)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			h.snapshot = append(h.snapshot, h.collector.drain()...)
			return
		}
		wait := settleWindow
		if remaining < wait {
			wait = remaining
		}
		select {
		case <-h.collector.wake:
			h.snapshot = append(h.snapshot, h.collector.drain()...)
		case <-time.After(wait):
			h.snapshot = append(h.snapshot, h.collector.drain()...)
			return
		}
	}
}

// SendAs sends event as if it came from actor, returning the new
// envelope's id for use with Event or Chain.
func (h *Harness[E, T]) SendAs(actor maiko.ActorID, event E) (maiko.EventID, error) {
	return h.supervisor.SendAs(actor, event)
}

// Events returns a query over every recorded entry.
func (h *Harness[E, T]) Events() EventQuery[E, T] { return newEventQuery(h.snapshot) }

// Event returns a spy for a specific event id.
func (h *Harness[E, T]) Event(id maiko.EventID) EventSpy[E, T] { return newEventSpy(h.snapshot, id) }

// Actor returns a spy for a specific actor's inbound/outbound traffic.
func (h *Harness[E, T]) Actor(id maiko.ActorID) ActorSpy[E, T] { return newActorSpy(h.snapshot, id) }

// Topic returns a spy for everything published on one topic.
func (h *Harness[E, T]) Topic(topic T) TopicSpy[E, T] { return newTopicSpy(h.snapshot, topic) }

// Chain traces event propagation from rootID through its correlated
// descendants.
func (h *Harness[E, T]) Chain(rootID maiko.EventID) EventChain[E, T] {
	return newEventChain(h.snapshot, rootID)
}

// EventCount returns the number of recorded deliveries.
func (h *Harness[E, T]) EventCount() int { return len(h.snapshot) }

// Dump prints every recorded delivery, for debugging a failing test.
func (h *Harness[E, T]) Dump() {
	if len(h.snapshot) == 0 {
		fmt.Println("(no events recorded)")
		return
	}
	fmt.Printf("recorded events (%d deliveries):\n", len(h.snapshot))
	for i, e := range h.snapshot {
		fmt.Printf("  %d: [%s] --> [%s]  (id: %s)\n", i, e.Sender(), e.Receiver, e.ID())
	}
}
