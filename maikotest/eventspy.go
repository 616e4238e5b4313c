package maikotest

import "github.com/ddrcode/maiko"

// EventSpy observes the delivery history of one specific event.
type EventSpy[E maiko.Event, T comparable] struct {
	id      maiko.EventID
	data    []Entry[E, T]
	records []Entry[E, T]
}

func newEventSpy[E maiko.Event, T comparable](records []Entry[E, T], id maiko.EventID) EventSpy[E, T] {
	var data []Entry[E, T]
	for _, e := range records {
		if e.ID() == id {
			data = append(data, e)
		}
	}
	return EventSpy[E, T]{id: id, data: data, records: records}
}

// WasDelivered reports whether this event reached any subscriber.
func (s EventSpy[E, T]) WasDelivered() bool { return len(s.data) > 0 }

// WasDeliveredTo reports whether actor was among this event's receivers.
func (s EventSpy[E, T]) WasDeliveredTo(actor maiko.ActorID) bool {
	for _, e := range s.data {
		if e.Receiver == actor {
			return true
		}
	}
	return false
}

// ReceiversCount returns how many distinct actors received this event.
func (s EventSpy[E, T]) ReceiversCount() int { return len(s.Receivers()) }

// Receivers returns the distinct actors this event was delivered to.
func (s EventSpy[E, T]) Receivers() []maiko.ActorID {
	seen := make(map[maiko.ActorID]struct{})
	var out []maiko.ActorID
	for _, e := range s.data {
		if _, ok := seen[e.Receiver]; ok {
			continue
		}
		seen[e.Receiver] = struct{}{}
		out = append(out, e.Receiver)
	}
	return out
}

// Children returns deliveries of events correlated to this one, i.e.
// events a receiving actor sent in direct response.
func (s EventSpy[E, T]) Children() []Entry[E, T] {
	seen := make(map[maiko.EventID]struct{})
	var out []Entry[E, T]
	for _, e := range s.records {
		cid, ok := e.CorrelationID()
		if !ok || cid != s.id {
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			continue
		}
		seen[e.ID()] = struct{}{}
		out = append(out, e)
	}
	return out
}
