package maiko

import (
	"testing"
	"time"
)

type brokerTestEvent struct {
	Kind string
}

type brokerTestContract struct {
	policies map[string]OverflowPolicy
}

func (c brokerTestContract) TopicOf(e brokerTestEvent) string { return e.Kind }

func (c brokerTestContract) OverflowPolicy(topic string) OverflowPolicy {
	if p, ok := c.policies[topic]; ok {
		return p
	}
	return Fail
}

func newTestBroker(policies map[string]OverflowPolicy) *broker[brokerTestEvent, string] {
	cfg := DefaultConfig().WithMaintenanceInterval(time.Hour)
	stage1 := make(chan *Envelope[brokerTestEvent], 16)
	monitors := newMonitorRegistry[brokerTestEvent, string](cfg, nil)
	return newBroker[brokerTestEvent, string](brokerTestContract{policies: policies}, stage1, cfg, monitors)
}

func TestBrokerDispatchFastDelivers(t *testing.T) {
	b := newTestBroker(nil)
	mb := newMailbox[brokerTestEvent](4)
	sub := newSubscriber[brokerTestEvent, string](ActorID{Name: "sink"}, []string{"ping"}, mb)
	if err := b.addSubscriber(sub); err != nil {
		t.Fatalf("addSubscriber: %v", err)
	}

	go b.run()
	defer b.Stop()

	env := NewEnvelope(brokerTestEvent{Kind: "ping"}).WithSender(ExternalSenderID)
	b.stage1 <- env

	select {
	case got := <-mb.ch:
		if got != env {
			t.Errorf("mailbox got a different envelope than was sent")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func TestBrokerDropPolicyDiscardsWhenFull(t *testing.T) {
	b := newTestBroker(map[string]OverflowPolicy{"ping": Drop})
	mb := newMailbox[brokerTestEvent](1)
	sub := newSubscriber[brokerTestEvent, string](ActorID{Name: "sink"}, []string{"ping"}, mb)
	if err := b.addSubscriber(sub); err != nil {
		t.Fatalf("addSubscriber: %v", err)
	}

	mb.ch <- NewEnvelope(brokerTestEvent{Kind: "ping"})
	b.dispatch(NewEnvelope(brokerTestEvent{Kind: "ping"}).WithSender(ExternalSenderID))

	if mb.isClosed() {
		t.Error("Drop policy must not close the mailbox on overflow")
	}
	if len(mb.ch) != 1 {
		t.Errorf("mailbox depth = %d, want 1 (the second envelope should have been dropped)", len(mb.ch))
	}
}

func TestBrokerFailPolicyClosesMailboxWhenFull(t *testing.T) {
	b := newTestBroker(map[string]OverflowPolicy{"ping": Fail})
	mb := newMailbox[brokerTestEvent](1)
	sub := newSubscriber[brokerTestEvent, string](ActorID{Name: "sink"}, []string{"ping"}, mb)
	if err := b.addSubscriber(sub); err != nil {
		t.Fatalf("addSubscriber: %v", err)
	}

	mb.ch <- NewEnvelope(brokerTestEvent{Kind: "ping"})
	b.dispatch(NewEnvelope(brokerTestEvent{Kind: "ping"}).WithSender(ExternalSenderID))

	if !mb.isClosed() {
		t.Error("Fail policy must close the mailbox on overflow")
	}
}

func TestBrokerBlockPolicyWaitsForCapacity(t *testing.T) {
	b := newTestBroker(map[string]OverflowPolicy{"ping": Block})
	mb := newMailbox[brokerTestEvent](1)
	sub := newSubscriber[brokerTestEvent, string](ActorID{Name: "sink"}, []string{"ping"}, mb)
	if err := b.addSubscriber(sub); err != nil {
		t.Fatalf("addSubscriber: %v", err)
	}

	mb.ch <- NewEnvelope(brokerTestEvent{Kind: "ping"})

	done := make(chan struct{})
	go func() {
		b.dispatch(NewEnvelope(brokerTestEvent{Kind: "ping"}).WithSender(ExternalSenderID))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("dispatch returned before the mailbox had capacity")
	case <-time.After(20 * time.Millisecond):
	}

	<-mb.ch

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch never completed once capacity freed up")
	}
}

func TestBrokerSkipsSender(t *testing.T) {
	b := newTestBroker(nil)
	id := ActorID{Name: "loopback"}
	mb := newMailbox[brokerTestEvent](4)
	sub := newSubscriber[brokerTestEvent, string](id, []string{"ping"}, mb)
	if err := b.addSubscriber(sub); err != nil {
		t.Fatalf("addSubscriber: %v", err)
	}

	b.dispatch(NewEnvelope(brokerTestEvent{Kind: "ping"}).WithSender(id))

	if len(mb.ch) != 0 {
		t.Error("broker must not deliver an envelope back to its own sender")
	}
}

func TestBrokerAddSubscriberRejectsDuplicateID(t *testing.T) {
	b := newTestBroker(nil)
	id := ActorID{Name: "dup"}
	first := newSubscriber[brokerTestEvent, string](id, []string{"a"}, newMailbox[brokerTestEvent](1))
	second := newSubscriber[brokerTestEvent, string](id, []string{"b"}, newMailbox[brokerTestEvent](1))

	if err := b.addSubscriber(first); err != nil {
		t.Fatalf("addSubscriber(first): %v", err)
	}
	if err := b.addSubscriber(second); err != ErrDuplicateName {
		t.Errorf("addSubscriber(second) = %v, want ErrDuplicateName", err)
	}
}

func TestBrokerMaintenanceRemovesClosedMailboxes(t *testing.T) {
	b := newTestBroker(nil)
	mb := newMailbox[brokerTestEvent](1)
	sub := newSubscriber[brokerTestEvent, string](ActorID{Name: "dead"}, []string{"ping"}, mb)
	if err := b.addSubscriber(sub); err != nil {
		t.Fatalf("addSubscriber: %v", err)
	}
	mb.close()

	b.maintenance()

	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	if len(b.subs) != 0 {
		t.Errorf("subs = %d, want 0 after sweeping a closed mailbox", len(b.subs))
	}
	if len(b.byTopic["ping"]) != 0 {
		t.Errorf("byTopic[ping] = %d, want 0 after the sweep rebuilt the index", len(b.byTopic["ping"]))
	}
}
