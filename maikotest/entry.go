// Package maikotest is a test harness for observing and asserting on
// event flow in a maiko system: it attaches a recording monitor to a
// Supervisor and exposes query, spy, and correlation-chain views over
// what was delivered.
//
// Do not use this in production. The collector retains every recorded
// delivery in memory for as long as the harness lives; for production
// observability use a maiko.Monitor directly (see maikoprom).
package maikotest

import (
	"github.com/ddrcode/maiko"
)

// Entry is one recorded delivery: an envelope together with the topic it
// was routed on and the actor it was delivered to.
type Entry[E maiko.Event, T comparable] struct {
	Envelope *maiko.Envelope[E]
	Topic    T
	Receiver maiko.ActorID
}

// ID returns the delivered envelope's event id.
func (e Entry[E, T]) ID() maiko.EventID { return e.Envelope.ID() }

// Sender returns who originated the envelope.
func (e Entry[E, T]) Sender() maiko.ActorID { return e.Envelope.Sender() }

// CorrelationID returns the envelope's correlation id, if any.
func (e Entry[E, T]) CorrelationID() (maiko.EventID, bool) { return e.Envelope.Meta().CorrelationID() }

// Event returns the delivered payload.
func (e Entry[E, T]) Event() E { return e.Envelope.Event() }
