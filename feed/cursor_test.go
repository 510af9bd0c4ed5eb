package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_InitialState(t *testing.T) {
	c := NewCursor()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, c.Page())
}

func TestCursor_BeginOnlyFromIdle(t *testing.T) {
	c := NewCursor()

	page, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.Equal(t, StateLoading, c.State())

	// Second Begin while loading is refused
	_, ok = c.Begin()
	assert.False(t, ok)
}

func TestCursor_CompleteAdvancesPage(t *testing.T) {
	c := NewCursor()

	_, ok := c.Begin()
	require.True(t, ok)
	c.Complete(3)

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 2, c.Page())
}

func TestCursor_EmptyPageExhausts(t *testing.T) {
	c := NewCursor()

	_, ok := c.Begin()
	require.True(t, ok)
	c.Complete(0)

	assert.Equal(t, StateExhausted, c.State())

	// Exhausted is terminal: no further Begin succeeds until Reset
	for i := 0; i < 5; i++ {
		_, ok := c.Begin()
		assert.False(t, ok)
	}

	c.Reset()
	page, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, 1, page)
}

func TestCursor_FailReturnsToIdle(t *testing.T) {
	c := NewCursor()

	_, ok := c.Begin()
	require.True(t, ok)
	c.Fail()

	// Failure is not exhaustion: the same page can be retried
	assert.Equal(t, StateIdle, c.State())
	page, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, 1, page)
}

func TestCursor_ResetWhileLoadingDropsOutcome(t *testing.T) {
	c := NewCursor()

	_, ok := c.Begin()
	require.True(t, ok)

	// Filter identity changes mid-flight
	c.Reset()
	assert.Equal(t, StateIdle, c.State())

	// The stale outcome must not move the cursor
	c.Complete(0)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, c.Page())
}

func TestCursor_StateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
}
