package maikotest

import "github.com/ddrcode/maiko"

// EventChain is the tree of events spawned from a single root event,
// traced through correlation ids. Use Actors() and Events() to assert on
// how it propagated.
type EventChain[E maiko.Event, T comparable] struct {
	rootID      maiko.EventID
	records     []Entry[E, T]
	chainIDs    map[maiko.EventID]struct{}
	childrenMap map[maiko.EventID][]maiko.EventID
}

func newEventChain[E maiko.Event, T comparable](records []Entry[E, T], rootID maiko.EventID) EventChain[E, T] {
	correlation := make(map[maiko.EventID]*maiko.EventID)
	for _, e := range records {
		if _, seen := correlation[e.ID()]; seen {
			continue
		}
		if cid, ok := e.CorrelationID(); ok {
			correlation[e.ID()] = &cid
		} else {
			correlation[e.ID()] = nil
		}
	}

	chainIDs := map[maiko.EventID]struct{}{rootID: {}}
	childrenMap := make(map[maiko.EventID][]maiko.EventID)
	queue := []maiko.EventID{rootID}
	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for id, cid := range correlation {
			if cid == nil || *cid != current {
				continue
			}
			if _, ok := chainIDs[id]; ok {
				continue
			}
			chainIDs[id] = struct{}{}
			queue = append(queue, id)
			childrenMap[current] = append(childrenMap[current], id)
		}
	}

	return EventChain[E, T]{rootID: rootID, records: records, chainIDs: chainIDs, childrenMap: childrenMap}
}

func (c EventChain[E, T]) chainEntries() []Entry[E, T] {
	var out []Entry[E, T]
	for _, e := range c.records {
		if _, ok := c.chainIDs[e.ID()]; ok {
			out = append(out, e)
		}
	}
	return out
}

// orderedEntries walks the tree breadth-first from the root, returning
// every delivery (one per receiver) in traversal order.
func (c EventChain[E, T]) orderedEntries() []Entry[E, T] {
	entriesByID := make(map[maiko.EventID][]Entry[E, T])
	for _, e := range c.chainEntries() {
		entriesByID[e.ID()] = append(entriesByID[e.ID()], e)
	}

	var out []Entry[E, T]
	visited := make(map[maiko.EventID]struct{})
	queue := []maiko.EventID{c.rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		out = append(out, entriesByID[id]...)
		queue = append(queue, c.childrenMap[id]...)
	}
	return out
}

// Actors returns a view for asserting on the sequence of receiving
// actors in this chain.
func (c EventChain[E, T]) Actors() ActorFlow[E, T] { return ActorFlow[E, T]{chain: c} }

// Events returns a view for asserting on the sequence of event labels in
// this chain.
func (c EventChain[E, T]) Events() EventFlow[E, T] { return EventFlow[E, T]{chain: c} }

// DivergesAfter reports whether the event matching label has more than
// one child in the chain, i.e. it fanned out.
func (c EventChain[E, T]) DivergesAfter(label string) bool {
	return c.BranchesAfter(label) > 1
}

// BranchesAfter returns how many children the event matching label has
// in the chain.
func (c EventChain[E, T]) BranchesAfter(label string) int {
	for _, e := range c.chainEntries() {
		if labelOf(e.Event()) == label {
			return len(c.childrenMap[e.ID()])
		}
	}
	return 0
}

// ActorFlow asserts on the order actors received events within a chain.
type ActorFlow[E maiko.Event, T comparable] struct {
	chain EventChain[E, T]
}

func (f ActorFlow[E, T]) ordered() []maiko.ActorID {
	entries := f.chain.orderedEntries()
	out := make([]maiko.ActorID, len(entries))
	for i, e := range entries {
		out[i] = e.Receiver
	}
	return out
}

// VisitedAll reports whether every actor in actors appears somewhere in
// the chain, regardless of order.
func (f ActorFlow[E, T]) VisitedAll(actors []maiko.ActorID) bool {
	present := make(map[maiko.ActorID]struct{})
	for _, a := range f.ordered() {
		present[a] = struct{}{}
	}
	for _, want := range actors {
		if _, ok := present[want]; !ok {
			return false
		}
	}
	return true
}

// Through reports whether actors appear in the chain in the given order,
// with other actors allowed in between.
func (f ActorFlow[E, T]) Through(actors []maiko.ActorID) bool {
	return isSubsequence(actors, f.ordered())
}

// Exactly reports whether the chain's full ordered receiver sequence
// equals actors exactly.
func (f ActorFlow[E, T]) Exactly(actors []maiko.ActorID) bool {
	got := f.ordered()
	if len(got) != len(actors) {
		return false
	}
	for i, a := range actors {
		if got[i] != a {
			return false
		}
	}
	return true
}

// EventFlow asserts on the order event labels appear within a chain.
type EventFlow[E maiko.Event, T comparable] struct {
	chain EventChain[E, T]
}

func (f EventFlow[E, T]) ordered() []string {
	entries := f.chain.orderedEntries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = labelOf(e.Event())
	}
	return out
}

// Contains reports whether label appears anywhere in the chain.
func (f EventFlow[E, T]) Contains(label string) bool {
	for _, l := range f.ordered() {
		if l == label {
			return true
		}
	}
	return false
}

// Through reports whether labels appear in the chain in the given order,
// with other events allowed in between.
func (f EventFlow[E, T]) Through(labels []string) bool {
	return isSubsequence(labels, f.ordered())
}

// Sequence reports whether labels appear somewhere in the chain as a
// contiguous run, in order.
func (f EventFlow[E, T]) Sequence(labels []string) bool {
	if len(labels) == 0 {
		return true
	}
	got := f.ordered()
	for start := 0; start+len(labels) <= len(got); start++ {
		match := true
		for i, l := range labels {
			if got[start+i] != l {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func isSubsequence[V comparable](want, got []V) bool {
	i := 0
	for _, g := range got {
		if i == len(want) {
			break
		}
		if g == want[i] {
			i++
		}
	}
	return i == len(want)
}
