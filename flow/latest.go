// Package flow provides the non-blocking handoff primitives the frame loop is
// built on: a single-slot overwrite channel and an unbounded command queue.
// Every cross-goroutine exchange in the app goes through one of the two.
package flow

// Latest is a single-slot channel: publishing overwrites any value the
// consumer has not read yet, so the consumer only ever observes the most
// recent publication. Neither side blocks.
type Latest[T any] struct {
	slot chan T
}

// NewLatest returns an empty slot.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{slot: make(chan T, 1)}
}

// Publish stores v, replacing an unread value if one is present. With a single
// publisher it completes in at most two channel operations; with several
// publishers racing, a retry pass may be needed.
func (l *Latest[T]) Publish(v T) {
	for {
		select {
		case l.slot <- v:
			return
		default:
		}
		// Slot full: evict the stale value and try again.
		select {
		case <-l.slot:
		default:
		}
	}
}

// TryRecv returns the most recent unread value, or ok=false when nothing has
// been published since the last read.
func (l *Latest[T]) TryRecv() (T, bool) {
	select {
	case v := <-l.slot:
		return v, true
	default:
		var zero T
		return zero, false
	}
}
