package maiko

import (
	"runtime"
	"time"
)

// immediateChan is a pre-closed time.Time channel: receiving from it never
// blocks, so it's used as the step-gate channel for StepContinue, where
// Step should run again as soon as the scheduler gets back around to this
// actor's select.
var immediateChan = func() <-chan time.Time {
	ch := make(chan time.Time)
	close(ch)
	return ch
}()

// stepChannel returns the channel the actor loop should select on to know
// when to run Step next, per the StepAction returned by the previous call.
func stepChannel(a StepAction) <-chan time.Time {
	switch a.kind {
	case stepContinue:
		return immediateChan
	case stepYield:
		return time.After(0)
	case stepBackoff:
		return time.After(a.backoff)
	default: // stepNever, stepAwaitEvent
		return nil
	}
}

// actorLoop is the per-actor cooperative task: it multiplexes mailbox
// reception with the actor's optional Step and the shared cancellation
// signal, and runs the lifecycle hooks around that steady state.
type actorLoop[E Event, T comparable] struct {
	actor    Actor[E]
	ctx      *Context[E]
	mailbox  *mailbox[E]
	cfg      Config
	cancel   <-chan struct{}
	monitors *MonitorRegistry[E, T]
	doneCh   chan struct{}
}

func newActorLoop[E Event, T comparable](actor Actor[E], ctx *Context[E], mb *mailbox[E], cfg Config, cancel <-chan struct{}, monitors *MonitorRegistry[E, T]) *actorLoop[E, T] {
	return &actorLoop[E, T]{
		actor:    actor,
		ctx:      ctx,
		mailbox:  mb,
		cfg:      cfg,
		cancel:   cancel,
		monitors: monitors,
		doneCh:   make(chan struct{}),
	}
}

func (l *actorLoop[E, T]) Done() <-chan struct{} { return l.doneCh }

func (l *actorLoop[E, T]) run() {
	defer close(l.doneCh)
	graceful := false

	if starter, ok := l.actor.(Starter); ok {
		if err := starter.OnStart(); err != nil {
			l.reportActorError(err)
			l.shutdown(graceful)
			return
		}
	}

	action := StepNever()
	if _, ok := l.actor.(Stepper); ok {
		action = StepContinue()
	}

outer:
	for l.ctx.isAlive() {
		// Bound consecutive mailbox drains so one busy actor can't starve
		// Step or this actor's own view of cancellation.
		drained := 0
	drain:
		for drained < l.cfg.MaxEventsPerTick {
			select {
			case <-l.cancel:
				graceful = true
				break outer
			case env, ok := <-l.mailbox.ch:
				if !ok {
					l.onOverflowClosed()
					break outer
				}
				l.handle(env)
				if action.kind == stepAwaitEvent {
					action = StepContinue()
				}
				drained++
				if !l.ctx.isAlive() {
					break outer
				}
			default:
				break drain
			}
		}
		if drained == l.cfg.MaxEventsPerTick {
			runtime.Gosched()
		}

		select {
		case <-l.cancel:
			graceful = true
			break outer
		case env, ok := <-l.mailbox.ch:
			if !ok {
				l.onOverflowClosed()
				break outer
			}
			l.handle(env)
			if action.kind == stepAwaitEvent {
				action = StepContinue()
			}
		case <-stepChannel(action):
			action = l.runStep()
			if !l.ctx.isAlive() {
				break outer
			}
		}
	}

	l.shutdown(graceful)
}

func (l *actorLoop[E, T]) handle(env *Envelope[E]) {
	if err := l.actor.HandleEvent(env); err != nil {
		if !l.handleError(err) {
			l.ctx.Stop()
		}
		return
	}
	l.monitors.send(monitoringEvent[E, T]{kind: evHandled, envelope: env, receiver: l.ctx.ID()})
}

func (l *actorLoop[E, T]) runStep() StepAction {
	stepper, ok := l.actor.(Stepper)
	if !ok {
		return StepNever()
	}
	action, err := stepper.Step()
	if err != nil {
		if !l.handleError(err) {
			l.ctx.Stop()
		}
	}
	return action
}

// handleError runs the actor's ErrorHandler, if any, and reports whether
// the loop should keep running. The default policy (no ErrorHandler)
// terminates on any error.
func (l *actorLoop[E, T]) handleError(err error) (swallow bool) {
	wrapped := &HandlerError{Cause: err}
	eh, ok := l.actor.(ErrorHandler)
	if !ok {
		l.reportActorError(wrapped)
		return false
	}
	if e2 := eh.OnError(wrapped); e2 == nil {
		return true
	}
	l.reportActorError(wrapped)
	return false
}

// onOverflowClosed handles a mailbox closed out from under the actor by
// the broker's Fail policy. Per design note, this terminates the actor
// regardless of what OnError decides: swallowing ErrOverflowClosed would
// just mean the actor immediately observes another failed receive.
func (l *actorLoop[E, T]) onOverflowClosed() {
	if eh, ok := l.actor.(ErrorHandler); ok {
		_ = eh.OnError(ErrOverflowClosed)
	}
	l.reportActorError(ErrOverflowClosed)
	l.ctx.Stop()
}

func (l *actorLoop[E, T]) reportActorError(err error) {
	l.monitors.send(monitoringEvent[E, T]{kind: evActorError, actorID: l.ctx.ID(), err: err})
}

// shutdown runs once the loop exits. A graceful shutdown (triggered by the
// shared cancellation signal) drains and handles whatever is still queued,
// so that every envelope that reached this mailbox is accounted for as
// Handled, honoring the graceful-drain guarantee. A self-initiated stop
// (Context.Stop, or an unrecovered error) discards the remainder.
func (l *actorLoop[E, T]) shutdown(graceful bool) {
	if graceful {
	drainRemaining:
		for {
			select {
			case env, ok := <-l.mailbox.ch:
				if !ok {
					break drainRemaining
				}
				l.handle(env)
			default:
				break drainRemaining
			}
		}
	}
	if sd, ok := l.actor.(Shutdowner); ok {
		if err := sd.OnShutdown(); err != nil {
			l.reportActorError(err)
		}
	}
}
