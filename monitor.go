package maiko

// Monitor is the marker interface for observability plugins registered
// with a MonitorRegistry. A monitor implements whichever of the On*
// observer interfaces below it cares about; the dispatcher type-asserts
// against each one, so a monitor only interested in errors can implement
// just ActorErrorObserver and ignore the rest.
//
// This mirrors how Actor's optional lifecycle hooks (Stepper, Starter,
// Shutdowner, ErrorHandler) are detected: no-op stubs aren't required for
// capabilities a monitor doesn't use.
type Monitor interface {
	// Name identifies the monitor for logging and for panic-recovery
	// deregistration messages.
	Name() string
}

// EventSentObserver is notified when a producer hands an event to stage-1,
// before the broker has routed it to anyone.
type EventSentObserver[E Event] interface {
	OnEventSent(envelope *Envelope[E])
}

// EventDispatchedObserver is notified once per successful mailbox enqueue.
type EventDispatchedObserver[E Event, T comparable] interface {
	OnEventDispatched(envelope *Envelope[E], topic T, receiver ActorID)
}

// EventHandledObserver is notified after an actor's HandleEvent returns
// successfully for a delivered envelope.
type EventHandledObserver[E Event] interface {
	OnEventHandled(envelope *Envelope[E], receiver ActorID)
}

// EventDroppedObserver is notified when an envelope could not be enqueued
// for a subscriber — because its policy is Drop and its mailbox was full,
// or because a Fail-policy subscriber's mailbox was just closed for that
// reason.
type EventDroppedObserver[E Event, T comparable] interface {
	OnEventDropped(envelope *Envelope[E], topic T, receiver ActorID)
}

// ActorErrorObserver is notified when an actor terminates due to an
// unrecovered error (HandleEvent/Step error not swallowed by OnError, or
// ErrOverflowClosed).
type ActorErrorObserver interface {
	OnActorError(actorID ActorID, err error)
}

// CleanupObserver is notified after each broker maintenance sweep with the
// number of dead subscribers removed.
type CleanupObserver interface {
	OnCleanup(removed int)
}
