package maikotest

import "github.com/ddrcode/maiko"

// EventQuery is a chainable, read-only filter over a fixed snapshot of
// recorded entries. Each With*/filter call returns a new EventQuery; the
// original is left alone, which makes query chains safe to branch:
//
//	base := h.Events().SentBy(producer)
//	orders := base.Matching(isOrder).Count()
//	acks := base.Matching(isAck).Count()
type EventQuery[E maiko.Event, T comparable] struct {
	records []Entry[E, T]
	filters []func(Entry[E, T]) bool
}

func newEventQuery[E maiko.Event, T comparable](records []Entry[E, T]) EventQuery[E, T] {
	return EventQuery[E, T]{records: records}
}

func (q EventQuery[E, T]) with(f func(Entry[E, T]) bool) EventQuery[E, T] {
	filters := make([]func(Entry[E, T]) bool, len(q.filters), len(q.filters)+1)
	copy(filters, q.filters)
	filters = append(filters, f)
	return EventQuery[E, T]{records: q.records, filters: filters}
}

func (q EventQuery[E, T]) apply() []Entry[E, T] {
	out := make([]Entry[E, T], 0, len(q.records))
next:
	for _, e := range q.records {
		for _, f := range q.filters {
			if !f(e) {
				continue next
			}
		}
		out = append(out, e)
	}
	return out
}

func (q EventQuery[E, T]) Count() int    { return len(q.apply()) }
func (q EventQuery[E, T]) IsEmpty() bool { return q.Count() == 0 }

func (q EventQuery[E, T]) First() (Entry[E, T], bool) {
	all := q.apply()
	if len(all) == 0 {
		return Entry[E, T]{}, false
	}
	return all[0], true
}

func (q EventQuery[E, T]) Last() (Entry[E, T], bool) {
	all := q.apply()
	if len(all) == 0 {
		return Entry[E, T]{}, false
	}
	return all[len(all)-1], true
}

func (q EventQuery[E, T]) Collect() []Entry[E, T] { return q.apply() }

func (q EventQuery[E, T]) All(predicate func(Entry[E, T]) bool) bool {
	for _, e := range q.apply() {
		if !predicate(e) {
			return false
		}
	}
	return true
}

func (q EventQuery[E, T]) Any(predicate func(Entry[E, T]) bool) bool {
	for _, e := range q.apply() {
		if predicate(e) {
			return true
		}
	}
	return false
}

func (q EventQuery[E, T]) SentBy(actor maiko.ActorID) EventQuery[E, T] {
	return q.with(func(e Entry[E, T]) bool { return e.Sender() == actor })
}

func (q EventQuery[E, T]) ReceivedBy(actor maiko.ActorID) EventQuery[E, T] {
	return q.with(func(e Entry[E, T]) bool { return e.Receiver == actor })
}

func (q EventQuery[E, T]) WithTopic(topic T) EventQuery[E, T] {
	return q.with(func(e Entry[E, T]) bool { return e.Topic == topic })
}

func (q EventQuery[E, T]) WithEvent(id maiko.EventID) EventQuery[E, T] {
	return q.with(func(e Entry[E, T]) bool { return e.ID() == id })
}

func (q EventQuery[E, T]) Matching(predicate func(E) bool) EventQuery[E, T] {
	return q.with(func(e Entry[E, T]) bool { return predicate(e.Event()) })
}

func (q EventQuery[E, T]) After(ref Entry[E, T]) EventQuery[E, T] {
	t := ref.Envelope.Meta().Timestamp()
	return q.with(func(e Entry[E, T]) bool { return e.Envelope.Meta().Timestamp().After(t) })
}

func (q EventQuery[E, T]) Before(ref Entry[E, T]) EventQuery[E, T] {
	t := ref.Envelope.Meta().Timestamp()
	return q.with(func(e Entry[E, T]) bool { return e.Envelope.Meta().Timestamp().Before(t) })
}

func (q EventQuery[E, T]) CorrelatedWith(id maiko.EventID) EventQuery[E, T] {
	return q.with(func(e Entry[E, T]) bool {
		cid, ok := e.CorrelationID()
		return ok && cid == id
	})
}
