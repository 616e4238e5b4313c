package maiko

import "testing"

func TestQueueFIFOOrder(t *testing.T) {
	q := newQueue[int](0)
	for i := 0; i < 5; i++ {
		q.Add(i)
	}
	for i := 0; i < 5; i++ {
		if q.Empty() {
			t.Fatalf("queue empty early at i=%d", i)
		}
		if got := q.Peek(); got != i {
			t.Errorf("Peek() = %d, want %d", got, i)
		}
		q.Drop()
	}
	if !q.Empty() {
		t.Error("queue should be empty after draining everything added")
	}
}

func TestQueueGrowsPastInitialCapacity(t *testing.T) {
	q := newQueue[int](0)
	const n = 40
	for i := 0; i < n; i++ {
		q.Add(i)
	}
	if q.Len() != n {
		t.Fatalf("Len() = %d, want %d", q.Len(), n)
	}
	for i := 0; i < n; i++ {
		if got := q.Peek(); got != i {
			t.Fatalf("Peek() at %d = %d, want %d", i, got, i)
		}
		q.Drop()
	}
}

func TestQueueDropOldestAndAddEnforcesMax(t *testing.T) {
	q := newQueue[int](3)
	q.Add(1)
	q.Add(2)
	q.Add(3)
	if dropped := q.DropOldestAndAdd(4); !dropped {
		t.Error("DropOldestAndAdd should report an eviction once the queue is at max")
	}
	got := q.Snapshot()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot() = %v, want %v", got, want)
		}
	}
}

func TestQueueDropOldestAndAddNoEvictionBelowMax(t *testing.T) {
	q := newQueue[int](3)
	if dropped := q.DropOldestAndAdd(1); dropped {
		t.Error("DropOldestAndAdd should not evict below max")
	}
}
