package menu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Action is one named context action. Requires lists the keys that must be
// present in the snapshot for the action to be offered; an empty list means
// always offered. The effect receives the environment the app wires in
// (clipboard, message queue, graph handle) and owns all side effects.
type Action[E any] struct {
	ID       string
	Label    string
	Requires []Key
	Effect   func(env E)
}

// Registry holds the actions registered at startup. Actions are looked up by
// ID and never removed; offered order is registration order.
type Registry[E any] struct {
	actions []*Action[E]
	byID    map[string]*Action[E]
}

// NewRegistry returns an empty registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{byID: make(map[string]*Action[E])}
}

// Register adds an action. Duplicate IDs are rejected so a lookup can never
// be ambiguous.
func (r *Registry[E]) Register(a Action[E]) error {
	if a.ID == "" {
		return fmt.Errorf("menu: action with empty id")
	}
	if _, exists := r.byID[a.ID]; exists {
		return fmt.Errorf("menu: duplicate action id %q", a.ID)
	}
	ac := &a
	r.actions = append(r.actions, ac)
	r.byID[a.ID] = ac
	return nil
}

// MustRegister is Register for the startup path, where a duplicate is a
// programming error.
func (r *Registry[E]) MustRegister(a Action[E]) {
	if err := r.Register(a); err != nil {
		panic(err)
	}
}

// Get looks up an action by ID.
func (r *Registry[E]) Get(id string) (*Action[E], bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Len reports how many actions are registered.
func (r *Registry[E]) Len() int {
	return len(r.actions)
}

// All returns every action in registration order.
func (r *Registry[E]) All() []*Action[E] {
	return r.actions
}

// applicable reports whether the snapshot satisfies the action's
// requirements: every required key must be present.
func applicable[E any](a *Action[E], s *Store) bool {
	for _, k := range a.Requires {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Applicable returns the actions the current snapshot satisfies, in
// registration order. This is what the visible context menu offers.
func (r *Registry[E]) Applicable(s *Store) []*Action[E] {
	var out []*Action[E]
	for _, a := range r.actions {
		if applicable(a, s) {
			out = append(out, a)
		}
	}
	return out
}

// Invoke runs the action's effect if, and only if, the snapshot still
// satisfies its requirements. Invoking an inapplicable or unknown action is a
// guarded no-op, reported through the return value.
func (r *Registry[E]) Invoke(id string, s *Store, env E) bool {
	a, ok := r.byID[id]
	if !ok || !applicable(a, s) {
		return false
	}
	a.Effect(env)
	return true
}

// scoredAction pairs an action with its match quality for Search.
type scoredAction[E any] struct {
	action *Action[E]
	score  int
}

// Search ranks actions against a free-text query for the action palette. A
// query matches when its characters appear in order in the label or ID;
// close misspellings of a label word are kept too, below every ordered
// match. An empty query returns everything in registration order.
func (r *Registry[E]) Search(query string) []*Action[E] {
	q := strings.TrimSpace(query)
	if q == "" {
		out := make([]*Action[E], len(r.actions))
		copy(out, r.actions)
		return out
	}

	var scored []scoredAction[E]
	for _, a := range r.actions {
		best := -1
		for _, field := range []string{a.Label, a.ID} {
			if ok, s := fuzzyScore(field, q); ok && s > best {
				best = s
			}
		}
		if best < 0 && nearMiss(a.Label, q) {
			best = 0
		}
		if best < 0 {
			continue
		}
		scored = append(scored, scoredAction[E]{action: a, score: best})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return strings.ToLower(scored[i].action.Label) < strings.ToLower(scored[j].action.Label)
	})

	out := make([]*Action[E], len(scored))
	for i, s := range scored {
		out[i] = s.action
	}
	return out
}

// fuzzyScore reports whether every query character appears, in order, in the
// candidate, and how strong the match is. Matching the first character and
// matching consecutive runs push a candidate up the list; an exact match
// tops everything.
func fuzzyScore(candidate, query string) (bool, int) {
	cand := strings.ToLower(candidate)
	q := strings.ToLower(query)

	matchIdx := make([]int, 0, len(q))
	searchFrom := 0
	for i := 0; i < len(q); i++ {
		ch := q[i]
		found := false
		for j := searchFrom; j < len(cand); j++ {
			if cand[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(q)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

// nearMiss reports whether the query is a close misspelling of one of the
// label's words. The distance is normalized by word length so short words
// don't match everything.
func nearMiss(label, query string) bool {
	q := strings.ToLower(query)
	for _, word := range strings.Fields(strings.ToLower(label)) {
		maxlen := len(word)
		if len(q) > maxlen {
			maxlen = len(q)
		}
		if maxlen == 0 {
			continue
		}
		d := levenshtein.ComputeDistance(q, word)
		if float64(d)/float64(maxlen) < 0.4 {
			return true
		}
	}
	return false
}
