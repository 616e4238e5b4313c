package maiko

import "sync/atomic"

// Context is the actor-facing handle into the runtime: it's how an actor
// emits events, checks for congestion, and signals its own shutdown. A
// Context never holds a reference to any other actor — events are the only
// channel actors have to affect each other.
type Context[E Event] struct {
	actorID    ActorID
	stage1     chan *Envelope[E]
	brokerDone <-chan struct{}
	alive      *atomic.Bool
	mailbox    *mailbox[E]
}

func newContext[E Event](id ActorID, stage1 chan *Envelope[E], brokerDone <-chan struct{}, mb *mailbox[E]) *Context[E] {
	alive := &atomic.Bool{}
	alive.Store(true)
	return &Context[E]{actorID: id, stage1: stage1, brokerDone: brokerDone, alive: alive, mailbox: mb}
}

// Send wraps event in a fresh envelope stamped with this actor's identity
// and pushes it into stage-1, awaiting capacity. It fails with
// ErrSendFailed if the broker has already terminated.
func (c *Context[E]) Send(event E) error {
	return c.sendEnvelope(NewEnvelope(event))
}

// SendWithCorrelation is like Send, but stamps the new envelope's
// correlation id from parent's id, linking the two for causality tracing.
func (c *Context[E]) SendWithCorrelation(event E, parent *Envelope[E]) error {
	return c.sendEnvelope(NewCorrelatedEnvelope(event, parent.ID()))
}

// SendChildEvent is SendWithCorrelation taking a Meta directly, for the
// common case of replying to metadata already unpacked from a received
// envelope.
func (c *Context[E]) SendChildEvent(event E, parent Meta) error {
	return c.sendEnvelope(NewCorrelatedEnvelope(event, parent.ID()))
}

func (c *Context[E]) sendEnvelope(env *Envelope[E]) error {
	stamped := env.WithSender(c.actorID)
	select {
	case c.stage1 <- stamped:
		return nil
	case <-c.brokerDone:
		return ErrSendFailed
	}
}

// Stop signals this actor to leave its loop at the next iteration. Safe to
// call more than once.
func (c *Context[E]) Stop() {
	c.alive.Store(false)
}

// Name returns this actor's registered name.
func (c *Context[E]) Name() string { return c.actorID.Name }

// ID returns this actor's full id (name and tag).
func (c *Context[E]) ID() ActorID { return c.actorID }

// IsSenderFull reports whether stage-1 is currently at capacity, so an
// actor can throttle non-essential events on its own instead of blocking
// in Send.
func (c *Context[E]) IsSenderFull() bool {
	return len(c.stage1) == cap(c.stage1)
}

// Pending returns this actor's current mailbox depth.
func (c *Context[E]) Pending() int {
	return c.mailbox.pending()
}

func (c *Context[E]) isAlive() bool { return c.alive.Load() }
