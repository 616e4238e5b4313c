package maiko

import "time"

// Meta is the routing and observability metadata attached to every
// envelope: who sent it, when, and what it's correlated with. It is
// separated from Envelope so that monitors and test harnesses can carry
// metadata around without holding onto (and thereby retaining) the event
// payload itself.
type Meta struct {
	id            EventID
	timestamp     time.Time
	correlationID *EventID
	sender        ActorID
}

// ID returns this envelope's unique event id.
func (m Meta) ID() EventID { return m.id }

// Timestamp returns when the envelope was created. There's no runtime
// logic built around it; it exists for tracing and test assertions about
// ordering.
func (m Meta) Timestamp() time.Time { return m.timestamp }

// CorrelationID returns the id of the causally-prior envelope this one is
// linked to, and whether one was set.
func (m Meta) CorrelationID() (EventID, bool) {
	if m.correlationID == nil {
		return EventID{}, false
	}
	return *m.correlationID, true
}

// Sender returns the actor id stamped onto this envelope by its Context.
func (m Meta) Sender() ActorID { return m.sender }

// Envelope is an immutable wrapper around an event payload, shared by
// pointer across every subscriber that receives it: one payload, many
// receivers, zero copies.
//
// Envelopes are created without a sender (NewEnvelope) and the sender is
// stamped by Context.Send before the envelope is handed to the broker —
// after stamping, an Envelope is never mutated again.
type Envelope[E Event] struct {
	meta  Meta
	event E
}

// NewEnvelope creates an envelope with no sender and no correlation. The
// Context that sends it is responsible for stamping a sender via
// WithSender before handing it to the broker.
func NewEnvelope[E Event](event E) *Envelope[E] {
	return &Envelope[E]{
		meta:  Meta{id: NewEventID(), timestamp: time.Now()},
		event: event,
	}
}

// NewCorrelatedEnvelope creates an envelope linked to a causally-prior
// event id.
func NewCorrelatedEnvelope[E Event](event E, correlationID EventID) *Envelope[E] {
	return &Envelope[E]{
		meta:  Meta{id: NewEventID(), timestamp: time.Now(), correlationID: &correlationID},
		event: event,
	}
}

// WithSender returns a copy of the envelope stamped with sender. Envelopes
// are small value structs up to this point, so stamping copies rather than
// mutates in place; once stamped and handed to the broker, only the
// pointer is ever shared from here on.
func (e *Envelope[E]) WithSender(sender ActorID) *Envelope[E] {
	stamped := *e
	stamped.meta.sender = sender
	return &stamped
}

// Event returns the event payload.
func (e *Envelope[E]) Event() E { return e.event }

// Meta returns the envelope's routing metadata.
func (e *Envelope[E]) Meta() Meta { return e.meta }

// ID returns the envelope's unique id, a shorthand for Meta().ID().
func (e *Envelope[E]) ID() EventID { return e.meta.id }

// Sender returns the stamped sender, a shorthand for Meta().Sender().
func (e *Envelope[E]) Sender() ActorID { return e.meta.sender }
