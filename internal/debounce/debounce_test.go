package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_SingleInputFires(t *testing.T) {
	timer := New(700 * time.Millisecond)
	now := time.Unix(0, 0)

	token := timer.Input("batman", now)
	assert.Equal(t, Pending, timer.State())
	assert.Equal(t, now.Add(700*time.Millisecond), timer.Deadline())

	value, changed, ok := timer.Fire(token)
	require.True(t, ok)
	assert.True(t, changed)
	assert.Equal(t, "batman", value)
	assert.Equal(t, "batman", timer.Stable())
	assert.Equal(t, Idle, timer.State())
	assert.True(t, timer.Deadline().IsZero())
}

func TestTimer_RapidKeystrokesPublishOnce(t *testing.T) {
	timer := New(700 * time.Millisecond)
	now := time.Unix(0, 0)

	var tokens []Token
	for i, raw := range []string{"b", "ba", "bat", "batm", "batma", "batman"} {
		tokens = append(tokens, timer.Input(raw, now.Add(time.Duration(i)*100*time.Millisecond)))
	}

	published := []string{}
	for _, tok := range tokens {
		if value, _, ok := timer.Fire(tok); ok {
			published = append(published, value)
		}
	}

	assert.Equal(t, []string{"batman"}, published)
	assert.Equal(t, "batman", timer.Stable())
}

func TestTimer_StaleFireIgnored(t *testing.T) {
	timer := New(time.Second)
	now := time.Unix(0, 0)

	first := timer.Input("a", now)
	second := timer.Input("ab", now)

	_, _, ok := timer.Fire(first)
	assert.False(t, ok)
	assert.Equal(t, "", timer.Stable())
	assert.Equal(t, Pending, timer.State())

	value, _, ok := timer.Fire(second)
	assert.True(t, ok)
	assert.Equal(t, "ab", value)

	// firing the same token twice is a no-op
	_, _, ok = timer.Fire(second)
	assert.False(t, ok)
}

func TestTimer_UnchangedValueReportsNoChange(t *testing.T) {
	timer := New(time.Millisecond)
	now := time.Unix(0, 0)

	_, changed, ok := timer.Fire(timer.Input("dune", now))
	require.True(t, ok)
	assert.True(t, changed)

	// typing then deleting back to the same value
	timer.Input("dune2", now)
	value, changed, ok := timer.Fire(timer.Input("dune", now))
	require.True(t, ok)
	assert.False(t, changed)
	assert.Equal(t, "dune", value)
}

func TestTimer_Cancel(t *testing.T) {
	timer := New(time.Second)
	token := timer.Input("alien", time.Unix(0, 0))

	timer.Cancel()
	assert.Equal(t, Idle, timer.State())

	_, _, ok := timer.Fire(token)
	assert.False(t, ok)
	assert.Equal(t, "", timer.Stable())
}

func TestTimer_Reset(t *testing.T) {
	timer := New(time.Second)
	token := timer.Input("alien", time.Unix(0, 0))

	timer.Reset("")
	_, _, ok := timer.Fire(token)
	assert.False(t, ok)
	assert.Equal(t, "", timer.Stable())
}

func TestTimer_TokensIncrease(t *testing.T) {
	timer := New(0)
	now := time.Unix(0, 0)

	a := timer.Input("x", now)
	timer.Cancel()
	b := timer.Input("y", now)
	assert.Greater(t, uint64(b), uint64(a))
}

func TestNew_NegativeQuietClamped(t *testing.T) {
	assert.Equal(t, time.Duration(0), New(-time.Second).Quiet())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "unknown", State(9).String())
}
