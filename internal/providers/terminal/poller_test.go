package terminal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Boo15mario/linutil-gui/internal/providers/terminal"
	"github.com/Boo15mario/linutil-gui/internal/testutil"
)

func newOptions(t *testing.T) terminal.Options {
	t.Helper()
	opts := terminal.DefaultOptions()
	opts.Exporter = terminal.NewExporter(t.TempDir())
	return opts
}

func TestWatchForwardsOutputAndFinishes(t *testing.T) {
	s, err := terminal.Spawn("echo one; sleep 0.2; echo two; exit 4\n", newOptions(t))
	require.NoError(t, err)
	defer s.Close(context.Background())

	sink := testutil.NewMockSink(t)
	sink.On("Finished", mock.MatchedBy(func(st terminal.Status) bool {
		return st.Outcome == terminal.OutcomeFailed && st.ExitCode == 4
	})).Return().Once()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := terminal.Watch(ctx, s, sink, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, terminal.OutcomeFailed, st.Outcome)

	full, _, err := s.ReadSince(0)
	require.NoError(t, err)
	assert.Equal(t, full, sink.Text())
	assert.Contains(t, sink.Text(), "one")
	assert.Contains(t, sink.Text(), "two")

	sink.AssertExpectations(t)
}

func TestWatchStopsOnContext(t *testing.T) {
	s, err := terminal.Spawn("sleep 30\n", newOptions(t))
	require.NoError(t, err)
	defer s.Close(context.Background())

	sink := testutil.NewMockSink(t)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	st, err := terminal.Watch(ctx, s, sink, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, terminal.OutcomeUnset, st.Outcome)
	sink.AssertNotCalled(t, "Finished", mock.Anything)
}
