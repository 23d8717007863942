package work

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestHandleReadyThenTakenExactlyOnce(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	release := make(chan struct{})
	h := Spawn(p, func() int {
		<-release
		return 42
	})

	if h.Poll() {
		t.Fatal("Poll before completion must report not ready")
	}
	close(release)

	deadline := time.After(2 * time.Second)
	for !h.Poll() {
		select {
		case <-deadline:
			t.Fatal("handle never became ready")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	v, ok := h.Take()
	if !ok || v != 42 {
		t.Fatalf("Take=(%d,%v), want (42,true)", v, ok)
	}
	if _, ok := h.Take(); ok {
		t.Fatal("second Take must return nothing")
	}
	if h.Poll() {
		t.Fatal("Poll after Take must report not ready")
	}
}

func TestPollIdempotentBeforeTake(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	h := Spawn(p, func() string { return "done" })

	deadline := time.After(2 * time.Second)
	for !h.Poll() {
		select {
		case <-deadline:
			t.Fatal("handle never became ready")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	// Repeated polls keep reporting ready without consuming the value.
	for i := 0; i < 5; i++ {
		if !h.Poll() {
			t.Fatalf("Poll #%d flipped back to not ready", i)
		}
	}
	if v, ok := h.Take(); !ok || v != "done" {
		t.Fatalf("Take=(%q,%v), want (done,true)", v, ok)
	}
}

func TestCloseJoinsAllOutstandingWork(t *testing.T) {
	p := NewPool(3)

	var ran atomic.Int64
	const tasks = 20
	for i := 0; i < tasks; i++ {
		SpawnForget(p, func() {
			time.Sleep(2 * time.Millisecond)
			ran.Add(1)
		})
	}
	p.Close()

	if got := ran.Load(); got != tasks {
		t.Fatalf("after Close %d tasks had run, want %d (queued work must be joined)", got, tasks)
	}
	if got := p.Outstanding(); got != 0 {
		t.Fatalf("Outstanding=%d after Close, want 0", got)
	}
}

func TestSubmitAfterCloseIsRefused(t *testing.T) {
	p := NewPool(1)
	p.Close()

	if SpawnForget(p, func() { t.Error("task ran after Close") }) {
		t.Fatal("SpawnForget after Close reported accepted")
	}

	h := Spawn(p, func() int { return 1 })
	time.Sleep(10 * time.Millisecond)
	if h.Poll() {
		t.Fatal("handle spawned after Close must never become ready")
	}
}

func TestWorkersBoundConcurrency(t *testing.T) {
	const workers = 2
	p := NewPool(workers)
	defer p.Close()

	var cur, peak atomic.Int64
	var wg sync.WaitGroup
	wg.Add(8)
	for i := 0; i < 8; i++ {
		SpawnForget(p, func() {
			defer wg.Done()
			n := cur.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			cur.Add(-1)
		})
	}
	wg.Wait()

	if got := peak.Load(); got > workers {
		t.Fatalf("peak concurrency %d, want at most %d", got, workers)
	}
}

func TestAbandonedHandleDiscardsResult(t *testing.T) {
	p := NewPool(1)
	h := Spawn(p, func() int { return 7 })
	_ = h // never polled again; result is silently dropped
	p.Close()

	if got := p.Outstanding(); got != 0 {
		t.Fatalf("Outstanding=%d, want 0 even with an unpolled handle", got)
	}
}
