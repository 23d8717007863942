package menu

import "sync"

// Clipboard is an in-process copy register. Terminal apps can't rely on a
// system clipboard being reachable, so copy actions land here and the UI
// surfaces the label in the status bar.
type Clipboard struct {
	mu    sync.Mutex
	label string
	text  string
	set   bool
}

// NewClipboard returns an empty clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Set stores text under a short human-readable label ("node id", "path
// name"), replacing whatever was held before.
func (c *Clipboard) Set(label, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = label
	c.text = text
	c.set = true
}

// Get returns the current contents. ok is false until the first Set.
func (c *Clipboard) Get() (label, text string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label, c.text, c.set
}

// Clear empties the register.
func (c *Clipboard) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label, c.text, c.set = "", "", false
}
