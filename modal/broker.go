// Package modal collects one-off typed input (a node id, a view name) without
// ever blocking the render loop. A background task opens a prompt and awaits
// its one-shot result channel; the frame loop renders the dialog each frame
// and commits or cancels it from key input.
package modal

import (
	"errors"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrBusy is returned by Open while another prompt is still pending; only one
// dialog exists at a time.
var ErrBusy = errors.New("modal: a prompt is already pending")

// Phase is the broker lifecycle. It starts Idle, holds AwaitingInput while a
// dialog is on screen, and lands on Resolved when a value or cancellation has
// been delivered; the next Open moves it back to AwaitingInput.
type Phase int

const (
	Idle Phase = iota
	AwaitingInput
	Resolved
)

// Result is what the awaiting task receives. Exactly one Result is ever
// delivered per Open.
type Result struct {
	Value    string
	Canceled bool
}

// request is one pending prompt: the text input rendered every frame plus the
// one-shot channel its opener awaits.
type request struct {
	title   string
	input   textinput.Model
	focused bool
	result  chan Result
}

// Broker owns the single pending prompt slot. Open is called from background
// tasks; HandleKey and View run on the render goroutine.
type Broker struct {
	mu      sync.Mutex
	pending *request
	phase   Phase
}

// NewBroker returns an idle broker.
func NewBroker() *Broker {
	return &Broker{phase: Idle}
}

// Open registers a prompt and returns the channel that will carry its single
// result. The caller blocks on the channel from its own goroutine while the
// render loop keeps drawing frames. Open fails with ErrBusy while another
// prompt is pending.
func (b *Broker) Open(title, placeholder string) (<-chan Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		return nil, ErrBusy
	}

	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 128
	in.Width = 28

	req := &request{
		title:  title,
		input:  in,
		result: make(chan Result, 1),
	}
	b.pending = req
	b.phase = AwaitingInput
	return req.result, nil
}

// Active reports whether a dialog should be rendered this frame.
func (b *Broker) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}

// Phase reports the broker lifecycle state.
func (b *Broker) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Title returns the pending prompt's title, or "" when idle.
func (b *Broker) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return ""
	}
	return b.pending.title
}

// HandleKey feeds one key event to the pending dialog. Enter commits the
// typed value, Esc cancels, anything else edits the input. Reports whether
// the event was consumed.
func (b *Broker) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	b.mu.Lock()
	req := b.pending
	b.mu.Unlock()
	if req == nil {
		return false, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		b.resolve(Result{Value: req.input.Value()})
		return true, nil
	case tea.KeyEsc:
		b.resolve(Result{Canceled: true})
		return true, nil
	}

	var cmd tea.Cmd
	b.mu.Lock()
	if b.pending == req {
		req.input, cmd = req.input.Update(msg)
	}
	b.mu.Unlock()
	return true, cmd
}

// View renders the dialog body (the caller supplies the framing). Only the
// first invocation focuses the input; later frames must not steal focus back
// from wherever the user moved it.
func (b *Broker) View() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	req := b.pending
	if req == nil {
		return ""
	}
	if !req.focused {
		req.input.Focus()
		req.focused = true
	}
	return req.title + "\n\n" + req.input.View()
}

// Cancel dismisses any pending dialog; the awaiting task sees Canceled and
// aborts without side effects. Used on app shutdown and window close.
func (b *Broker) Cancel() {
	b.resolve(Result{Canceled: true})
}

// resolve delivers r into the one-shot channel and clears the pending slot.
// Delivery happens at most once per request: the slot is nilled in the same
// critical section as the send.
func (b *Broker) resolve(r Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return
	}
	b.pending.result <- r
	b.pending = nil
	b.phase = Resolved
}
