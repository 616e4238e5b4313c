package maiko

import "fmt"

// ActorID identifies an actor within one supervisor. Name is the
// user-supplied registration name; Tag is an integer assigned at
// registration time for fast equality checks and external serialization.
type ActorID struct {
	Name string
	Tag  int64
}

func (id ActorID) String() string {
	return fmt.Sprintf("%s#%d", id.Name, id.Tag)
}

// externalSenderName is the reserved name stamped on envelopes injected
// from outside the actor set, via Supervisor.Send.
const externalSenderName = "<external>"

// ExternalSenderID is the sentinel sender identity used for events injected
// into the bus from outside any actor (Supervisor.Send).
var ExternalSenderID = ActorID{Name: externalSenderName, Tag: -1}
