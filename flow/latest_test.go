package flow

import (
	"sync"
	"testing"
)

func TestLatestEmptyRecv(t *testing.T) {
	l := NewLatest[int]()
	if v, ok := l.TryRecv(); ok {
		t.Fatalf("TryRecv on empty slot returned %d, want nothing", v)
	}
}

func TestLatestOverwriteKeepsNewestOnly(t *testing.T) {
	l := NewLatest[int]()
	for i := 1; i <= 100; i++ {
		l.Publish(i)
	}
	v, ok := l.TryRecv()
	if !ok {
		t.Fatal("TryRecv after publishes returned nothing")
	}
	if v != 100 {
		t.Fatalf("TryRecv=%d, want 100 (most recent publication)", v)
	}
	if v, ok := l.TryRecv(); ok {
		t.Fatalf("second TryRecv returned %d, want nothing", v)
	}
}

func TestLatestInterleavedReadsNeverGoBackwards(t *testing.T) {
	l := NewLatest[int]()
	last := 0
	for i := 1; i <= 50; i++ {
		l.Publish(i)
		if i%7 == 0 {
			v, ok := l.TryRecv()
			if !ok {
				t.Fatalf("TryRecv at i=%d returned nothing", i)
			}
			if v <= last {
				t.Fatalf("observed %d after %d, values must be monotonic", v, last)
			}
			last = v
		}
	}
}

func TestLatestConcurrentPublisher(t *testing.T) {
	l := NewLatest[int]()
	const final = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= final; i++ {
			l.Publish(i)
		}
	}()

	// Reads racing the publisher must only ever see monotonically
	// increasing values; the last publication is always observed because
	// nothing can evict it once the publisher stops.
	prev := 0
	for prev != final {
		v, ok := l.TryRecv()
		if !ok {
			continue
		}
		if v <= prev {
			t.Fatalf("observed %d after %d", v, prev)
		}
		prev = v
	}
	wg.Wait()
}
