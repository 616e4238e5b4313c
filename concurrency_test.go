package maiko_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/taskgroup"
	"github.com/google/go-cmp/cmp"

	"github.com/ddrcode/maiko"
)

type concurrencyEvent struct {
	ID int
}

type concurrencyContract struct{}

func (concurrencyContract) TopicOf(concurrencyEvent) string { return "x" }

func (concurrencyContract) OverflowPolicy(string) maiko.OverflowPolicy { return maiko.Block }

type concurrencyCollector struct {
	mu       sync.Mutex
	received []concurrencyEvent
}

func (c *concurrencyCollector) HandleEvent(env *maiko.Envelope[concurrencyEvent]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, env.Event())
	return nil
}

func (c *concurrencyCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

func (c *concurrencyCollector) snapshot() []concurrencyEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]concurrencyEvent(nil), c.received...)
}

// TestSupervisorConcurrentSendersPreserveOrderAcrossSubscribers spams the
// bus from many concurrent senders, the same shape as the teacher's own
// eventbus spam test, and checks that the broker's one-envelope-at-a-time
// dispatch means every subscriber observes the exact same delivery order,
// regardless of which order the concurrent sends actually landed in.
func TestSupervisorConcurrentSendersPreserveOrderAcrossSubscribers(t *testing.T) {
	sup := maiko.NewSupervisor[concurrencyEvent, string](concurrencyContract{}, maiko.DefaultConfig().WithChannelSize(256))

	const subscribers = 5
	collectors := make([]*concurrencyCollector, subscribers)
	for i := range collectors {
		c := &concurrencyCollector{}
		collectors[i] = c
		name := fmt.Sprintf("collector%d", i)
		if _, err := sup.AddActor(name, func(ctx *maiko.Context[concurrencyEvent]) maiko.Actor[concurrencyEvent] {
			return c
		}, []string{"x"}); err != nil {
			t.Fatalf("AddActor(%s): %v", name, err)
		}
	}

	if err := sup.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sup.Stop()

	const publishers = 20
	const eventsPerPublisher = 10
	const wantEvents = publishers * eventsPerPublisher

	var g taskgroup.Group
	for p := 0; p < publishers; p++ {
		p := p
		g.Go(func() error {
			for j := 0; j < eventsPerPublisher; j++ {
				if err := sup.Send(concurrencyEvent{ID: p*eventsPerPublisher + j}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent sends: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for collectors[0].count() < wantEvents && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	first := collectors[0].snapshot()
	if len(first) != wantEvents {
		t.Fatalf("collector0 received %d events, want %d", len(first), wantEvents)
	}
	for i := 1; i < subscribers; i++ {
		got := collectors[i].snapshot()
		if diff := cmp.Diff(first, got); diff != "" {
			t.Errorf("collector%d saw a different delivery order than collector0 (-collector0 +collector%d):\n%s", i, i, diff)
		}
	}
}
