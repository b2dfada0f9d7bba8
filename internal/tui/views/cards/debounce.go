package cards

import (
	"strings"
	"time"
)

const defaultAutosaveWindow = 800 * time.Millisecond

// Persister debounces draft autosaves per item. Each edit bumps a per-item
// sequence and schedules a save tick; only the tick carrying the latest
// sequence fires, so rapid keystrokes collapse into one trailing write per
// window. Timers for different items are independent.
type Persister struct {
	window time.Duration
	seqs   map[string]int
	saved  map[string]string
}

// NewPersister creates a persister with the given debounce window. A zero
// or negative window falls back to the default.
func NewPersister(window time.Duration) *Persister {
	if window <= 0 {
		window = defaultAutosaveWindow
	}
	return &Persister{
		window: window,
		seqs:   make(map[string]int),
		saved:  make(map[string]string),
	}
}

// Window returns the debounce window.
func (p *Persister) Window() time.Duration { return p.window }

// Touch registers an edit on the item's draft. It returns the sequence the
// matching save tick must carry and the delay to schedule it after. Ticks
// carrying an older sequence are stale.
func (p *Persister) Touch(id string) (int, time.Duration) {
	p.seqs[id]++
	return p.seqs[id], p.window
}

// Fire resolves a save tick. It returns the text to persist, or false when
// the tick is stale or the trimmed text already matches the last persisted
// value for the item.
func (p *Persister) Fire(id string, seq int, text string) (string, bool) {
	if seq != p.seqs[id] {
		return "", false
	}
	return p.record(id, text)
}

// Flush force-saves the draft immediately and strands any pending tick.
func (p *Persister) Flush(id, text string) (string, bool) {
	p.seqs[id]++
	return p.record(id, text)
}

// MarkSaved records a value the server already holds so the next identical
// save request is skipped. Generated and selected drafts arrive cached
// server-side; persisting them again would be a wasted round trip.
func (p *Persister) MarkSaved(id, text string) {
	p.saved[id] = strings.TrimSpace(text)
}

func (p *Persister) record(id, text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == p.saved[id] {
		return "", false
	}
	p.saved[id] = trimmed
	return text, true
}
