package maiko

import "time"

// StepAction governs when an actor's Step is invoked again after it
// returns.
type StepAction struct {
	kind    stepKind
	backoff time.Duration
}

type stepKind int

const (
	stepNever stepKind = iota
	stepContinue
	stepYield
	stepAwaitEvent
	stepBackoff
)

// StepContinue runs Step again immediately.
func StepContinue() StepAction { return StepAction{kind: stepContinue} }

// StepYield yields to the scheduler, then runs Step again.
func StepYield() StepAction { return StepAction{kind: stepYield} }

// StepAwaitEvent suspends Step until the next mailbox event arrives.
func StepAwaitEvent() StepAction { return StepAction{kind: stepAwaitEvent} }

// StepBackoff sleeps d, then runs Step again.
func StepBackoff(d time.Duration) StepAction { return StepAction{kind: stepBackoff, backoff: d} }

// StepNever disables Step permanently. This is the default for actors that
// don't implement Stepper.
func StepNever() StepAction { return StepAction{kind: stepNever} }
