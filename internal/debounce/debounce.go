// Package debounce turns a stream of raw input values into a stable value
// that changes only after the input has been quiet for a fixed period.
//
// The Timer holds no goroutines or clocks of its own. Callers report input
// with Input, schedule a wake-up for the returned deadline (tea.Tick in the
// UI), and hand the token back to Fire when it elapses. Fires carrying any
// token other than the pending one are stale and ignored.
package debounce

import "time"

// State is the timer's phase.
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Token identifies one scheduled fire. Tokens increase monotonically.
type Token uint64

type Timer struct {
	quiet    time.Duration
	state    State
	token    Token
	value    string
	deadline time.Time
	stable   string
}

func New(quiet time.Duration) *Timer {
	if quiet < 0 {
		quiet = 0
	}
	return &Timer{quiet: quiet}
}

func (t *Timer) Quiet() time.Duration { return t.quiet }

func (t *Timer) State() State { return t.state }

// Token is the most recently issued token.
func (t *Timer) Token() Token { return t.token }

// Stable is the last published value.
func (t *Timer) Stable() string { return t.stable }

// Deadline is when the pending value becomes eligible to fire. The zero
// time is returned while idle.
func (t *Timer) Deadline() time.Time {
	if t.state != Pending {
		return time.Time{}
	}
	return t.deadline
}

// Input records a new raw value. Any pending fire is superseded.
func (t *Timer) Input(value string, now time.Time) Token {
	t.token++
	t.state = Pending
	t.value = value
	t.deadline = now.Add(t.quiet)
	return t.token
}

// Fire publishes the pending value if token is still current. changed
// reports whether the stable value differs from the previous one.
func (t *Timer) Fire(token Token) (value string, changed, ok bool) {
	if t.state != Pending || token != t.token {
		return "", false, false
	}
	t.state = Idle
	changed = t.value != t.stable
	t.stable = t.value
	return t.stable, changed, true
}

// Cancel drops any pending fire without publishing.
func (t *Timer) Cancel() {
	if t.state == Pending {
		t.token++
	}
	t.state = Idle
	t.value = ""
	t.deadline = time.Time{}
}

// Reset publishes value immediately, cancelling any pending fire.
func (t *Timer) Reset(value string) {
	t.Cancel()
	t.stable = value
}
