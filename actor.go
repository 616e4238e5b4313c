package maiko

// Actor is the minimal execution contract: process one delivered envelope
// at a time, with no interior concurrency. All state an actor holds is
// private and only ever touched from its own loop goroutine.
type Actor[E Event] interface {
	HandleEvent(envelope *Envelope[E]) error
}

// Stepper is an optional actor capability: periodic work with no input,
// used to emit events, poll external sources, or perform housekeeping. An
// actor that doesn't implement Stepper behaves as if Step always returned
// StepNever.
type Stepper interface {
	Step() (StepAction, error)
}

// Starter is an optional actor capability run once before the actor's loop
// begins draining its mailbox. If OnStart returns an error the actor skips
// straight to shutdown.
type Starter interface {
	OnStart() error
}

// Shutdowner is an optional actor capability run once after the actor's
// loop exits, whether it exited cleanly or due to an error.
type Shutdowner interface {
	OnShutdown() error
}

// ErrorHandler is an optional actor capability controlling what happens
// when HandleEvent or Step returns an error. Returning nil means "swallow
// and continue"; returning a non-nil error means "terminate this actor"
// (the loop exits after running OnShutdown). An actor that doesn't
// implement ErrorHandler terminates on any error, which is the same as
// always returning the error unchanged.
type ErrorHandler interface {
	OnError(err error) error
}
