package ledger

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	l, err := Open(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestMarkProcessed_FirstWins(t *testing.T) {
	l := newTestLedger(t)

	first, err := l.MarkProcessed("evt_123")
	require.NoError(t, err)
	assert.True(t, first)

	// Replayed delivery.
	first, err = l.MarkProcessed("evt_123")
	require.NoError(t, err)
	assert.False(t, first)

	// Distinct events are independent.
	first, err = l.MarkProcessed("evt_456")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestSeen(t *testing.T) {
	l := newTestLedger(t)

	seen, err := l.Seen("evt_123")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = l.MarkProcessed("evt_123")
	require.NoError(t, err)

	seen, err = l.Seen("evt_123")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestLedger_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	l, err := Open(dir, logger)
	require.NoError(t, err)
	_, err = l.MarkProcessed("evt_123")
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(dir, logger)
	require.NoError(t, err)
	defer l.Close()

	first, err := l.MarkProcessed("evt_123")
	require.NoError(t, err)
	assert.False(t, first, "processed events must survive restarts")
}
