package maiko

import "sync"

type supervisorState int32

const (
	stateConfigurable supervisorState = iota
	stateRunning
	stateStopping
	stateTerminated
)

// registration holds everything AddActor built for one actor ahead of
// Start: the actor is constructed eagerly, against a Context whose
// stage-1 channel isn't known yet (Start binds it once the final capacity
// is settled), mirroring how the actor's task exists before it's told to
// run.
type registration[E Event, T comparable] struct {
	ctx     *Context[E]
	actor   Actor[E]
	mailbox *mailbox[E]
	sub     *subscriber[E, T]
}

// Supervisor owns the broker, every actor's task, and the monitor
// registry, and drives them through Configurable -> Running -> Stopping
// -> Terminated.
type Supervisor[E Event, T comparable] struct {
	cfg      Config
	contract TopicContract[E, T]
	monitors *MonitorRegistry[E, T]
	cancel   stopFlag
	stopOnce sync.Once

	mu            sync.Mutex
	state         supervisorState
	names         map[string]struct{}
	nextTag       int64
	regs          []*registration[E, T]
	mailboxCapSum int

	stage1 chan *Envelope[E]
	broker *broker[E, T]
	loops  []*actorLoop[E, T]
}

// NewSupervisor builds a Supervisor in the Configurable state. contract
// tells the broker how to route events; cfg controls sizing and fairness.
func NewSupervisor[E Event, T comparable](contract TopicContract[E, T], cfg Config) *Supervisor[E, T] {
	return &Supervisor[E, T]{
		cfg:      cfg,
		contract: contract,
		monitors: newMonitorRegistry[E, T](cfg, cfg.logf()),
		names:    make(map[string]struct{}),
	}
}

// AddActor constructs an actor via factory, which receives the Context it
// should capture for its lifetime, and registers it under name with the
// given topic subscriptions. Only valid while Configurable.
func (s *Supervisor[E, T]) AddActor(name string, factory func(*Context[E]) Actor[E], topics []T, opts ...ActorOption) (ActorID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateConfigurable {
		return ActorID{}, ErrInvalidState
	}
	if _, exists := s.names[name]; exists {
		return ActorID{}, ErrDuplicateName
	}

	o := resolveActorOptions(opts)
	mbCap := s.cfg.ChannelSize
	if o.channelSize > 0 {
		mbCap = o.channelSize
	}

	id := ActorID{Name: name, Tag: s.nextTag}
	s.nextTag++

	mb := newMailbox[E](mbCap)
	ctx := newContext[E](id, nil, nil, mb)
	actor := factory(ctx)
	sub := newSubscriber[E, T](id, topics, mb)

	s.names[name] = struct{}{}
	s.mailboxCapSum += mbCap
	s.regs = append(s.regs, &registration[E, T]{ctx: ctx, actor: actor, mailbox: mb, sub: sub})
	return id, nil
}

// Start registers every subscriber with the broker, binds the final
// stage-1 channel to every actor's Context, and spawns the broker and all
// actor tasks. Transitions Configurable -> Running.
func (s *Supervisor[E, T]) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateConfigurable {
		return ErrInvalidState
	}

	stage1Cap := s.cfg.Stage1Capacity
	if stage1Cap <= 0 {
		stage1Cap = s.mailboxCapSum
	}
	if stage1Cap <= 0 {
		stage1Cap = s.cfg.ChannelSize
	}
	s.stage1 = make(chan *Envelope[E], stage1Cap)
	s.broker = newBroker[E, T](s.contract, s.stage1, s.cfg, s.monitors)

	for _, r := range s.regs {
		if err := s.broker.addSubscriber(r.sub); err != nil {
			return err
		}
	}

	s.monitors.start()
	go s.broker.run()

	loops := make([]*actorLoop[E, T], 0, len(s.regs))
	for _, r := range s.regs {
		r.ctx.stage1 = s.stage1
		r.ctx.brokerDone = s.broker.Done()
		loop := newActorLoop[E, T](r.actor, r.ctx, r.mailbox, s.cfg, s.cancel.Done(), s.monitors)
		loops = append(loops, loop)
		go loop.run()
	}
	s.loops = loops
	s.state = stateRunning
	return nil
}

// Send injects event from outside the actor set, stamped with
// ExternalSenderID. Only valid while Running.
func (s *Supervisor[E, T]) Send(event E) error {
	_, err := s.SendAs(ExternalSenderID, event)
	return err
}

// SendAs injects event stamped with an arbitrary sender id instead of
// ExternalSenderID. Most callers want Send; this exists for test
// harnesses that need to impersonate a specific actor, and for
// supervisors bridging events in from another system that already has
// its own notion of identity. Only valid while Running.
func (s *Supervisor[E, T]) SendAs(sender ActorID, event E) (EventID, error) {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return EventID{}, ErrInvalidState
	}
	stage1 := s.stage1
	brokerDone := s.broker.Done()
	s.mu.Unlock()

	env := NewEnvelope(event).WithSender(sender)
	select {
	case stage1 <- env:
		return env.ID(), nil
	case <-brokerDone:
		return EventID{}, ErrSendFailed
	}
}

// Stop fires the shared cancellation signal, waits for every actor task to
// reach its own Done, then stops the broker and the monitor dispatcher.
// Idempotent: safe to call more than once, from any state.
func (s *Supervisor[E, T]) Stop() error {
	s.mu.Lock()
	if s.state == stateConfigurable {
		s.state = stateTerminated
		s.mu.Unlock()
		return nil
	}
	if s.state == stateTerminated {
		s.mu.Unlock()
		return nil
	}
	s.state = stateStopping
	loops := s.loops
	broker := s.broker
	s.mu.Unlock()

	s.stopOnce.Do(func() {
		s.cancel.Stop()
		for _, l := range loops {
			<-l.Done()
		}
		broker.Stop()
		<-broker.Done()
		s.monitors.stopAndWait()

		s.mu.Lock()
		s.state = stateTerminated
		s.mu.Unlock()
	})
	return nil
}

// Join blocks until every actor task has exited on its own, without firing
// the shared cancellation signal, then stops the broker (no actor is left
// to deliver to) and waits for it to exit. Pair with actors that call
// Context.Stop themselves, or call Stop separately to force termination.
func (s *Supervisor[E, T]) Join() error {
	s.mu.Lock()
	loops := s.loops
	broker := s.broker
	s.mu.Unlock()

	for _, l := range loops {
		<-l.Done()
	}
	if broker != nil {
		broker.Stop()
		<-broker.Done()
	}
	return nil
}

// Run starts the supervisor and blocks until everything exits on its own.
func (s *Supervisor[E, T]) Run() error {
	if err := s.Start(); err != nil {
		return err
	}
	return s.Join()
}

// Monitors returns the registry actors and tests use to attach observers.
func (s *Supervisor[E, T]) Monitors() *MonitorRegistry[E, T] { return s.monitors }

// Config returns the configuration this supervisor was built with.
func (s *Supervisor[E, T]) Config() Config { return s.cfg }
