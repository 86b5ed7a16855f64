package adminview

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DebounceDelay is how long the raw query must stay unchanged before it is
// committed.
const DebounceDelay = 500 * time.Millisecond

// QueryController turns a stream of rapidly changing raw text values into a
// rate-limited committed query. Every new raw value supersedes the pending
// timer, so a burst of keystrokes commits at most once. The commit callback
// runs only when the committed value actually changes; typing "a", then
// erasing back to the previous committed text within the window triggers
// nothing.
//
// The empty string is a valid committed query (it means "no search").
type QueryController struct {
	mu        sync.Mutex
	clk       clock.Clock
	timer     *clock.Timer
	raw       string
	committed string
	onCommit  func(committed string)
	closed    bool
}

// NewQueryController creates a controller reporting committed-query changes
// to onCommit. Pass clock.New() in production; tests inject a mock clock so
// no wall-clock waiting is needed.
func NewQueryController(clk clock.Clock, onCommit func(committed string)) *QueryController {
	return &QueryController{clk: clk, onCommit: onCommit}
}

// SetRaw records a new raw value and restarts the debounce window. Any
// pending commit is cancelled first; only one timer is ever live.
func (qc *QueryController) SetRaw(raw string) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	if qc.closed {
		return
	}
	qc.raw = raw
	if qc.timer != nil {
		qc.timer.Stop()
	}
	qc.timer = qc.clk.AfterFunc(DebounceDelay, qc.fire)
}

func (qc *QueryController) fire() {
	qc.mu.Lock()
	if qc.closed || qc.raw == qc.committed {
		qc.committed = qc.raw
		qc.mu.Unlock()
		return
	}
	qc.committed = qc.raw
	committed := qc.committed
	onCommit := qc.onCommit
	qc.mu.Unlock()

	// Callback outside the lock; consumers typically refetch from it.
	if onCommit != nil {
		onCommit(committed)
	}
}

// Raw returns the latest raw value.
func (qc *QueryController) Raw() string {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return qc.raw
}

// Committed returns the last committed query.
func (qc *QueryController) Committed() string {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return qc.committed
}

// Typing reports whether a commit is still pending, i.e. the raw value has
// run ahead of the committed one. The view shows a light "searching"
// indicator for this instead of the list's full loading state.
func (qc *QueryController) Typing() bool {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return qc.raw != qc.committed
}

// Close cancels any pending timer. A closed controller never commits again;
// call it when the owning view unmounts.
func (qc *QueryController) Close() {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.closed = true
	if qc.timer != nil {
		qc.timer.Stop()
		qc.timer = nil
	}
}
