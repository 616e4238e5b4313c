package maikotest

import "github.com/ddrcode/maiko"

// TopicSpy observes all traffic published on one topic.
type TopicSpy[E maiko.Event, T comparable] struct {
	all   []Entry[E, T]
	data  []Entry[E, T]
	topic T
}

func newTopicSpy[E maiko.Event, T comparable](records []Entry[E, T], topic T) TopicSpy[E, T] {
	var data []Entry[E, T]
	for _, e := range records {
		if e.Topic == topic {
			data = append(data, e)
		}
	}
	return TopicSpy[E, T]{all: records, data: data, topic: topic}
}

// WasPublished reports whether anything was ever delivered on this topic.
func (s TopicSpy[E, T]) WasPublished() bool { return len(s.data) > 0 }

// EventCount returns the number of deliveries recorded on this topic.
func (s TopicSpy[E, T]) EventCount() int { return len(s.data) }

// Receivers returns the distinct actors that received events on this
// topic.
func (s TopicSpy[E, T]) Receivers() []maiko.ActorID {
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

// SubscribersCount returns how many distinct actors received this topic,
// a shorthand for len(Receivers()).
func (s TopicSpy[E, T]) SubscribersCount() int { return len(s.Receivers()) }

// Events returns a query pre-filtered to this topic, for further
// chaining.
func (s TopicSpy[E, T]) Events() EventQuery[E, T] {
	return newEventQuery(s.all).WithTopic(s.topic)
}
