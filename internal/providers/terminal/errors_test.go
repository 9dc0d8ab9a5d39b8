package terminal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRunsCriticalSection(t *testing.T) {
	var g guard
	called := false

	err := g.do(func() error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, g.isPoisoned())
}

func TestGuardPassesErrorsThrough(t *testing.T) {
	var g guard
	want := errors.New("nope")

	err := g.do(func() error { return want })

	assert.ErrorIs(t, err, want)
	assert.False(t, g.isPoisoned())
}

func TestGuardPoisonsOnPanic(t *testing.T) {
	var g guard

	err := g.do(func() error { panic("boom") })
	require.ErrorIs(t, err, ErrInternalStateCorrupted)
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, g.isPoisoned())

	called := false
	err = g.do(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrInternalStateCorrupted)
	assert.False(t, called)
}

func TestPoisonedLogReportsCorruption(t *testing.T) {
	log := NewOutputLog()
	require.NoError(t, log.Append("kept"))

	_ = log.do(func() error { panic("torn write") })

	assert.ErrorIs(t, log.Append("more"), ErrInternalStateCorrupted)

	_, offset, err := log.ReadSince(2)
	assert.ErrorIs(t, err, ErrInternalStateCorrupted)
	assert.Equal(t, 2, offset)

	_, err = log.Snapshot()
	assert.ErrorIs(t, err, ErrInternalStateCorrupted)
}
