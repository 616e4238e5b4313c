package maiko

import (
	"testing"
	"time"
)

func TestMailboxTryEnqueueFillsThenReportsFull(t *testing.T) {
	mb := newMailbox[int](1)
	env := &Envelope[int]{}

	ok, closed := mb.tryEnqueue(env)
	if !ok || closed {
		t.Fatalf("first tryEnqueue: ok=%v closed=%v, want ok=true closed=false", ok, closed)
	}

	ok, closed = mb.tryEnqueue(env)
	if ok || closed {
		t.Fatalf("second tryEnqueue on a full mailbox: ok=%v closed=%v, want ok=false closed=false", ok, closed)
	}
}

func TestMailboxTryEnqueueAfterCloseReportsClosed(t *testing.T) {
	mb := newMailbox[int](1)
	mb.close()

	ok, closed := mb.tryEnqueue(&Envelope[int]{})
	if ok || !closed {
		t.Fatalf("tryEnqueue on a closed mailbox: ok=%v closed=%v, want ok=false closed=true", ok, closed)
	}
}

func TestMailboxCloseIsIdempotent(t *testing.T) {
	mb := newMailbox[int](1)
	mb.close()
	mb.close()
	if !mb.isClosed() {
		t.Error("isClosed() = false after close()")
	}
}

func TestMailboxEnqueueBlockingWaitsForCapacity(t *testing.T) {
	mb := newMailbox[int](1)
	env := &Envelope[int]{}
	if ok, _ := mb.tryEnqueue(env); !ok {
		t.Fatal("setup: failed to fill mailbox")
	}

	cancel := make(chan struct{})
	done := make(chan bool, 1)
	go func() {
		done <- mb.enqueueBlocking(env, cancel)
	}()

	select {
	case <-done:
		t.Fatal("enqueueBlocking returned before capacity or cancel")
	case <-time.After(20 * time.Millisecond):
	}

	<-mb.ch
	select {
	case ok := <-done:
		if !ok {
			t.Error("enqueueBlocking should have succeeded once capacity freed up")
		}
	case <-time.After(time.Second):
		t.Fatal("enqueueBlocking never returned after capacity freed up")
	}
}

func TestMailboxEnqueueBlockingRespectsCancel(t *testing.T) {
	mb := newMailbox[int](1)
	env := &Envelope[int]{}
	if ok, _ := mb.tryEnqueue(env); !ok {
		t.Fatal("setup: failed to fill mailbox")
	}

	cancel := make(chan struct{})
	done := make(chan bool, 1)
	go func() {
		done <- mb.enqueueBlocking(env, cancel)
	}()

	close(cancel)
	select {
	case ok := <-done:
		if ok {
			t.Error("enqueueBlocking should report failure when cancel fires first")
		}
	case <-time.After(time.Second):
		t.Fatal("enqueueBlocking never observed cancel")
	}
}
