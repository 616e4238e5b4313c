package maiko

import "github.com/google/uuid"

// Event is the constraint satisfied by any payload carried through the bus.
//
// The core never clones events: envelopes wrap a payload once and are
// shared by pointer across every receiving mailbox, so there is no
// cloneable/thread-safe marker to enforce at the type level the way the
// original implementation's derive macro did. Callers are responsible for
// not mutating a payload after handing it to Context.Send.
type Event = any

// EventID uniquely identifies one envelope instance.
type EventID = uuid.UUID

// NewEventID returns a fresh, random EventID.
func NewEventID() EventID {
	return uuid.New()
}
