package maikotest

import "github.com/ddrcode/maiko"

// ActorSpy observes one actor's inbound and outbound traffic.
type ActorSpy[E maiko.Event, T comparable] struct {
	received []Entry[E, T]
	sent     []Entry[E, T]
}

func newActorSpy[E maiko.Event, T comparable](records []Entry[E, T], actor maiko.ActorID) ActorSpy[E, T] {
	var received, sent []Entry[E, T]
	for _, e := range records {
		if e.Receiver == actor {
			received = append(received, e)
		}
		if e.Sender() == actor {
			sent = append(sent, e)
		}
	}
	return ActorSpy[E, T]{received: received, sent: sent}
}

// ReceivedEventsCount returns how many deliveries this actor received.
func (s ActorSpy[E, T]) ReceivedEventsCount() int { return len(s.received) }

// SentEventsCount returns how many distinct events this actor sent (one
// event fanned out to many receivers still counts once).
func (s ActorSpy[E, T]) SentEventsCount() int {
	seen := make(map[maiko.EventID]struct{})
	for _, e := range s.sent {
		seen[e.ID()] = struct{}{}
	}
	return len(seen)
}

// Senders returns the distinct actors this actor received events from.
func (s ActorSpy[E, T]) Senders() []maiko.ActorID {
	seen := make(map[maiko.ActorID]struct{})
	var out []maiko.ActorID
	for _, e := range s.received {
		if _, ok := seen[e.Sender()]; ok {
			continue
		}
		seen[e.Sender()] = struct{}{}
		out = append(out, e.Sender())
	}
	return out
}

// Receivers returns the distinct actors this actor's events were
// delivered to.
func (s ActorSpy[E, T]) Receivers() []maiko.ActorID {
	seen := make(map[maiko.ActorID]struct{})
	var out []maiko.ActorID
	for _, e := range s.sent {
		if _, ok := seen[e.Receiver]; ok {
			continue
		}
		seen[e.Receiver] = struct{}{}
		out = append(out, e.Receiver)
	}
	return out
}
