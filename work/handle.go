package work

import "github.com/google/uuid"

// Handle tracks one submitted computation from the frame loop's side. It is
// pending until the worker finishes, ready once Poll has observed the result,
// and taken after the value has been handed out. Each transition happens at
// most once.
//
// Poll and Take belong to the single goroutine that owns the handle (the
// frame loop); the worker only ever touches the internal channel.
type Handle[T any] struct {
	id   string
	done chan T
	out  T
	have bool // result moved out of the channel
	gone bool // result handed to the caller
}

// Spawn submits fn to the pool and returns a handle immediately. fn may block
// on I/O; failures travel inside T rather than through a second channel. If
// the pool has been closed the handle simply never becomes ready and its
// result is discarded, matching the abandoned-task rule.
func Spawn[T any](p *Pool, fn func() T) *Handle[T] {
	h := &Handle[T]{
		id:   uuid.NewString(),
		done: make(chan T, 1),
	}
	p.submit(func() {
		h.done <- fn()
	})
	return h
}

// SpawnForget submits fn with no handle retained. Such tasks communicate any
// follow-on effect by sending on an application message queue they captured,
// never through a return value. Reports whether the pool accepted the task.
func SpawnForget(p *Pool, fn func()) bool {
	return p.submit(fn)
}

// ID identifies the task in log lines.
func (h *Handle[T]) ID() string {
	return h.id
}

// Poll non-blockingly checks for a completed result, moving the handle from
// pending to ready the first time one is seen. It reports whether a value is
// currently available to Take; after Take it reports false again.
func (h *Handle[T]) Poll() bool {
	if h.gone {
		return false
	}
	if h.have {
		return true
	}
	select {
	case v := <-h.done:
		h.out = v
		h.have = true
		return true
	default:
		return false
	}
}

// Take yields the result exactly once. The second and every later call
// returns ok=false, which is what guards against duplicate processing of a
// single completion.
func (h *Handle[T]) Take() (T, bool) {
	if !h.Poll() {
		var zero T
		return zero, false
	}
	h.gone = true
	v := h.out
	var zero T
	h.out = zero
	return v, true
}
