// Package menu holds the context-menu machinery: a per-frame snapshot of what
// is under the pointer or selected (Store) and the registry of actions offered
// against that snapshot (Registry). Lookup is by an explicit closed key, one
// value per key per frame, with no runtime type identity anywhere.
package menu

import (
	"sort"

	"gfascope/flow"
)

// Key is the discriminant a context value is filed under.
type Key int

const (
	KeyNode Key = iota
	KeyPath
	KeySelection
)

func (k Key) String() string {
	switch k {
	case KeyNode:
		return "node"
	case KeyPath:
		return "path"
	case KeySelection:
		return "selection"
	}
	return "unknown"
}

// Value is one context payload tagged with its key. The set of
// implementations is closed: NodeValue, PathValue, SelectionValue.
type Value interface {
	Key() Key
}

// NodeValue identifies the graph node under the pointer.
type NodeValue struct {
	ID uint64
}

// PathValue identifies the path highlighted in the paths pane.
type PathValue struct {
	Name string
}

// SelectionValue carries the current multi-node selection.
type SelectionValue struct {
	IDs []uint64
}

func (NodeValue) Key() Key      { return KeyNode }
func (PathValue) Key() Key      { return KeyPath }
func (SelectionValue) Key() Key { return KeySelection }

// Phase is the store lifecycle. Tick advances it exactly one phase per frame
// until Ready; materialization before Ready is a guarded no-op.
type Phase int

const (
	Uninitialized Phase = iota
	Initializing
	Ready
)

// Producer computes a context value when a menu is about to open. ok=false
// means it has nothing to contribute this time (no node under the pointer,
// empty selection).
type Producer func() (Value, bool)

// Store snapshots the interaction context the moment a context menu opens.
// Producers and Publish feed a buffer from anywhere; the frame goroutine owns
// the map and is the only thing that reads or replaces it.
type Store struct {
	phase     Phase
	producers []Producer
	buf       *flow.Queue[Value]
	values    map[Key]Value
	open      bool // menu-about-to-open flag
}

// NewStore returns an empty, Uninitialized store.
func NewStore() *Store {
	return &Store{
		buf:    flow.NewQueue[Value](),
		values: make(map[Key]Value),
	}
}

// Tick advances the lifecycle. Called exactly once per frame; the store is
// usable from the third frame on.
func (s *Store) Tick() {
	switch s.phase {
	case Uninitialized:
		s.phase = Initializing
	case Initializing:
		s.phase = Ready
	}
}

// Phase reports the lifecycle state.
func (s *Store) Phase() Phase {
	return s.phase
}

// Register adds a producer. Producers are registered once at startup and run
// only on frames where a menu is about to open.
func (s *Store) Register(p Producer) {
	s.producers = append(s.producers, p)
}

// Publish buffers a value from outside the producer set. Safe from any
// goroutine; the value lands in the snapshot at the next materialization.
func (s *Store) Publish(v Value) {
	s.buf.Push(v)
}

// RequestOpen flags that a menu is about to open. Before the store is Ready
// the request is dropped and false is returned.
func (s *Store) RequestOpen() bool {
	if s.phase != Ready {
		return false
	}
	s.open = true
	return true
}

// Pending reports whether an open request is waiting for materialization.
func (s *Store) Pending() bool {
	return s.open
}

// Materialize rebuilds the snapshot when the open flag is raised: producers
// run, the buffer is drained into the map (last write per key wins) and the
// flag clears. On frames without a raised flag nothing happens and producers
// never run. Reports whether a snapshot was rebuilt.
func (s *Store) Materialize() bool {
	if !s.open || s.phase != Ready {
		return false
	}

	for _, p := range s.producers {
		if v, ok := p(); ok {
			s.buf.Push(v)
		}
	}

	// Contents are replaced in place; the store itself lives on.
	for k := range s.values {
		delete(s.values, k)
	}
	s.buf.Drain(func(v Value) {
		s.values[v.Key()] = v
	})
	s.open = false
	return true
}

// Get returns the value filed under k in the current snapshot.
func (s *Store) Get(k Key) (Value, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Has reports whether the current snapshot holds a value for k.
func (s *Store) Has(k Key) bool {
	_, ok := s.values[k]
	return ok
}

// Keys lists the snapshot's keys in stable order.
func (s *Store) Keys() []Key {
	ks := make([]Key, 0, len(s.values))
	for k := range s.values {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

// Node returns the snapshot's node id, if one is present.
func (s *Store) Node() (uint64, bool) {
	v, ok := s.values[KeyNode]
	if !ok {
		return 0, false
	}
	return v.(NodeValue).ID, true
}

// Path returns the snapshot's path name, if one is present.
func (s *Store) Path() (string, bool) {
	v, ok := s.values[KeyPath]
	if !ok {
		return "", false
	}
	return v.(PathValue).Name, true
}

// Selection returns the snapshot's selected node ids, if any.
func (s *Store) Selection() ([]uint64, bool) {
	v, ok := s.values[KeySelection]
	if !ok {
		return nil, false
	}
	return v.(SelectionValue).IDs, true
}
