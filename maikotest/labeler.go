package maikotest

import "fmt"

// Labeler lets an event report a short, stable name for chain assertions
// (EventFlow.Contains, Through, Sequence). Events that don't implement it
// are labeled with their Go type name, which is usually good enough for
// a sum-type-style event enum.
type Labeler interface {
	Label() string
}

func labelOf(event any) string {
	if l, ok := event.(Labeler); ok {
		return l.Label()
	}
	return fmt.Sprintf("%T", event)
}
