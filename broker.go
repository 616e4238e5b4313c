package maiko

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// broker owns the subscriber registry and the single stage-1 ingress
// channel, routing each envelope to every subscriber whose topic set
// contains the event's topic, and running periodic maintenance.
//
// The registry (subs/byTopic) is append-only while actors are being
// registered and is treated read-only on the dispatch hot path once the
// supervisor starts; maintenance is the only thing that mutates it
// afterwards, and it takes subsMu to do so.
type broker[E Event, T comparable] struct {
	contract TopicContract[E, T]
	stage1   chan *Envelope[E]
	cfg      Config

	subsMu  sync.Mutex
	subs    []*subscriber[E, T]
	byTopic map[T][]*subscriber[E, T]

	monitors *MonitorRegistry[E, T]

	stop stopFlag
	done chan struct{}
	logf Logf
}

func newBroker[E Event, T comparable](contract TopicContract[E, T], stage1 chan *Envelope[E], cfg Config, monitors *MonitorRegistry[E, T]) *broker[E, T] {
	return &broker[E, T]{
		contract: contract,
		stage1:   stage1,
		cfg:      cfg,
		byTopic:  make(map[T][]*subscriber[E, T]),
		monitors: monitors,
		done:     make(chan struct{}),
		logf:     cfg.logf(),
	}
}

// addSubscriber registers a subscriber before the broker starts running.
// Callers (Supervisor.AddActor) are responsible for name-uniqueness
// checks; this only guards against the same ActorID being added twice.
func (b *broker[E, T]) addSubscriber(s *subscriber[E, T]) error {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for _, existing := range b.subs {
		if existing.actorID == s.actorID {
			return ErrDuplicateName
		}
	}
	b.subs = append(b.subs, s)
	for t := range s.topics {
		b.byTopic[t] = append(b.byTopic[t], s)
	}
	return nil
}

func (b *broker[E, T]) run() {
	defer close(b.done)
	ticker := time.NewTicker(b.cfg.MaintenanceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop.Done():
			b.drainAndShutdown()
			return
		case env, ok := <-b.stage1:
			if !ok {
				return
			}
			b.monitors.send(monitoringEvent[E, T]{kind: evSent, envelope: env})
			b.dispatch(env)
		case <-ticker.C:
			b.maintenance()
		}
	}
}

// dispatch implements the two-phase delivery algorithm: a non-blocking
// fast path for Fail/Drop subscribers followed by a concurrent blocking
// wait for Block subscribers. Phase 1 never waits on Phase 2's subscribers,
// so one slow Block consumer can never delay delivery to the others.
func (b *broker[E, T]) dispatch(env *Envelope[E]) {
	topic := b.contract.TopicOf(env.Event())
	policy := b.contract.OverflowPolicy(topic)
	sender := env.Sender()

	b.subsMu.Lock()
	candidates := b.byTopic[topic]
	snapshot := make([]*subscriber[E, T], 0, len(candidates))
	for _, s := range candidates {
		if s.mailbox.isClosed() || s.actorID == sender {
			continue
		}
		snapshot = append(snapshot, s)
	}
	b.subsMu.Unlock()

	if policy == Block {
		b.dispatchBlocking(env, topic, snapshot)
		return
	}
	b.dispatchFast(env, topic, policy, snapshot)
}

func (b *broker[E, T]) dispatchFast(env *Envelope[E], topic T, policy OverflowPolicy, subs []*subscriber[E, T]) {
	for _, s := range subs {
		ok, closed := s.mailbox.tryEnqueue(env)
		switch {
		case ok:
			b.monitors.send(monitoringEvent[E, T]{kind: evDispatched, envelope: env, topic: topic, receiver: s.actorID})
		case closed:
			// Raced with removal; nothing to deliver to.
		case policy == Drop:
			b.monitors.send(monitoringEvent[E, T]{kind: evDropped, envelope: env, topic: topic, receiver: s.actorID})
		case policy == Fail:
			s.mailbox.close()
			b.monitors.send(monitoringEvent[E, T]{kind: evDropped, envelope: env, topic: topic, receiver: s.actorID})
		}
	}
}

func (b *broker[E, T]) dispatchBlocking(env *Envelope[E], topic T, subs []*subscriber[E, T]) {
	if len(subs) == 0 {
		return
	}
	var g errgroup.Group
	for _, s := range subs {
		s := s
		g.Go(func() error {
			if s.mailbox.enqueueBlocking(env, b.stop.Done()) {
				b.monitors.send(monitoringEvent[E, T]{kind: evDispatched, envelope: env, topic: topic, receiver: s.actorID})
			}
			return nil
		})
	}
	_ = g.Wait()
}

// maintenance sweeps the registry for subscribers whose mailbox has been
// observed closed (either the actor exited, or a Fail-policy overflow
// closed it) and removes them, then reports how many were removed.
func (b *broker[E, T]) maintenance() {
	b.subsMu.Lock()
	removed := 0
	kept := make([]*subscriber[E, T], 0, len(b.subs))
	for _, s := range b.subs {
		if s.mailbox.isClosed() {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	b.subs = kept
	byTopic := make(map[T][]*subscriber[E, T], len(b.byTopic))
	for _, s := range b.subs {
		for t := range s.topics {
			byTopic[t] = append(byTopic[t], s)
		}
	}
	b.byTopic = byTopic
	b.subsMu.Unlock()

	b.monitors.send(monitoringEvent[E, T]{kind: evCleanup, removed: removed})
}

// drainAndShutdown delivers whatever envelopes were already sitting in
// stage-1 at the moment cancellation fired, using the same dispatch path,
// then returns. It does not keep waiting for new sends.
func (b *broker[E, T]) drainAndShutdown() {
	for {
		select {
		case env, ok := <-b.stage1:
			if !ok {
				return
			}
			b.monitors.send(monitoringEvent[E, T]{kind: evSent, envelope: env})
			b.dispatch(env)
		default:
			return
		}
	}
}

func (b *broker[E, T]) Done() <-chan struct{} { return b.done }

func (b *broker[E, T]) Stop() { b.stop.Stop() }
