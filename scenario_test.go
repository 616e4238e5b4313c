package maiko_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ddrcode/maiko"
)

type scenarioEvent struct {
	Kind string
}

type policyContract struct {
	policy maiko.OverflowPolicy
}

func (c policyContract) TopicOf(scenarioEvent) string { return "flood" }

func (c policyContract) OverflowPolicy(string) maiko.OverflowPolicy { return c.policy }

// slowEchoer blocks the first HandleEvent call until release fires, so its
// bounded mailbox backs up behind it under a flood of sends.
type slowEchoer struct {
	release chan struct{}
	once    sync.Once
}

func (a *slowEchoer) HandleEvent(env *maiko.Envelope[scenarioEvent]) error {
	a.once.Do(func() { <-a.release })
	return nil
}

type dropCounter struct {
	mu    sync.Mutex
	drops int
}

func (c *dropCounter) Name() string { return "dropCounter" }

func (c *dropCounter) OnEventDropped(envelope *maiko.Envelope[scenarioEvent], topic string, receiver maiko.ActorID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drops++
}

func (c *dropCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drops
}

func TestSupervisorOverflowDropKeepsMailboxOpen(t *testing.T) {
	sup := maiko.NewSupervisor[scenarioEvent, string](policyContract{policy: maiko.Drop}, maiko.DefaultConfig())
	counter := &dropCounter{}
	sup.Monitors().Add(counter)

	release := make(chan struct{})
	_, err := sup.AddActor("slow", func(ctx *maiko.Context[scenarioEvent]) maiko.Actor[scenarioEvent] {
		return &slowEchoer{release: release}
	}, []string{"flood"}, maiko.WithActorChannelSize(1))
	if err != nil {
		t.Fatalf("AddActor: %v", err)
	}

	if err := sup.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sup.Stop()

	for i := 0; i < 20; i++ {
		if err := sup.Send(scenarioEvent{Kind: "flood"}); err != nil {
			t.Fatalf("Send #%d: %v", i, err)
		}
	}

	deadline := time.Now().Add(time.Second)
	for counter.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if counter.count() == 0 {
		t.Fatal("expected at least one dropped event under flood with a 1-deep mailbox")
	}

	close(release)

	if err := sup.Send(scenarioEvent{Kind: "flood"}); err != nil {
		t.Errorf("Send after drops = %v, want nil (Drop policy must not close the mailbox)", err)
	}
}

type actorErrCollector struct {
	mu   sync.Mutex
	errs []error
}

func (c *actorErrCollector) Name() string { return "actorErrCollector" }

func (c *actorErrCollector) OnActorError(actorID maiko.ActorID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *actorErrCollector) errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errs...)
}

func TestSupervisorOverflowFailTerminatesActor(t *testing.T) {
	sup := maiko.NewSupervisor[scenarioEvent, string](policyContract{policy: maiko.Fail}, maiko.DefaultConfig())
	collector := &actorErrCollector{}
	sup.Monitors().Add(collector)

	release := make(chan struct{})
	_, err := sup.AddActor("slow", func(ctx *maiko.Context[scenarioEvent]) maiko.Actor[scenarioEvent] {
		return &slowEchoer{release: release}
	}, []string{"flood"}, maiko.WithActorChannelSize(1))
	if err != nil {
		t.Fatalf("AddActor: %v", err)
	}

	if err := sup.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sup.Stop()

	for i := 0; i < 10; i++ {
		_ = sup.Send(scenarioEvent{Kind: "flood"})
	}

	// The echoer is still blocked on its first event, so it can't yet have
	// observed its mailbox being closed by the Fail policy; release it now
	// so it can drain through to the close and report the error.
	close(release)

	deadline := time.Now().Add(time.Second)
	found := false
	for time.Now().Before(deadline) {
		for _, err := range collector.errors() {
			if errors.Is(err, maiko.ErrOverflowClosed) {
				found = true
			}
		}
		if found {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !found {
		t.Errorf("reported errors = %v, want one wrapping ErrOverflowClosed", collector.errors())
	}
}
