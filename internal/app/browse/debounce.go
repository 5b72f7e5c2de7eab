package browse

import (
	"sync"
	"time"
)

// DebounceState is the debouncer's lifecycle state.
type DebounceState int

const (
	DebounceIdle DebounceState = iota
	DebouncePending
	DebounceStopped
)

// SearchDebouncer defers an action until input activity pauses. Each Trigger
// cancels the pending window and starts a new one; Flush fires immediately
// and cancels any pending window; Stop cancels everything for teardown so a
// late timer can never fire against a disposed owner.
//
// The fire callback runs on the timer goroutine (or the caller's goroutine
// for immediate fires) and must read whatever state it needs at fire time,
// not capture it at trigger time.
type SearchDebouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	state  DebounceState
	fire   func()

	// seq invalidates timers that already fired but lost the race against a
	// newer Trigger and are waiting on mu.
	seq uint64
}

// DefaultDebounceWindow is the delay applied between the last keystroke and
// the search dispatch.
const DefaultDebounceWindow = 500 * time.Millisecond

// NewSearchDebouncer creates a debouncer with the given window. A zero or
// negative window falls back to the default.
func NewSearchDebouncer(window time.Duration, fire func()) *SearchDebouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &SearchDebouncer{
		window: window,
		fire:   fire,
	}
}

// Trigger restarts the delay window. With immediate=true the pending window
// is cancelled and the action fires synchronously; clearing a search box must
// drop results without perceptible lag.
func (d *SearchDebouncer) Trigger(immediate bool) {
	d.mu.Lock()
	if d.state == DebounceStopped {
		d.mu.Unlock()
		return
	}

	d.cancelLocked()

	if immediate {
		d.state = DebounceIdle
		d.mu.Unlock()
		d.fire()
		return
	}

	d.state = DebouncePending
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.onElapsed(seq) })
	d.mu.Unlock()
}

// Flush fires immediately, cancelling any pending window. Used for explicit
// submits.
func (d *SearchDebouncer) Flush() {
	d.mu.Lock()
	if d.state == DebounceStopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.state = DebounceIdle
	d.mu.Unlock()

	d.fire()
}

// Stop cancels any pending fire permanently. Safe to call more than once.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.state = DebounceStopped
}

// State returns the current lifecycle state.
func (d *SearchDebouncer) State() DebounceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *SearchDebouncer) onElapsed(seq uint64) {
	d.mu.Lock()
	if d.state != DebouncePending || seq != d.seq {
		// Cancelled, stopped, or superseded after the timer was queued.
		d.mu.Unlock()
		return
	}
	d.state = DebounceIdle
	d.timer = nil
	d.mu.Unlock()

	d.fire()
}

func (d *SearchDebouncer) cancelLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
