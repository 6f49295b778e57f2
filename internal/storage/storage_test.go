package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCommandHistoryRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	rec := CommandHistoryRecord{
		ChannelID: "c1",
		UserID:    "u1",
		Username:  "someone",
		Command:   "play",
		Param:     "https://youtu.be/abc",
		Datetime:  time.Now().UTC(),
	}
	require.NoError(t, s.AppendCommandToHistory("g1", rec))

	got, err := s.FetchCommandHistory("g1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "play", got[0].Command)
	assert.Equal(t, "u1", got[0].UserID)
}

func TestCommandHistoryTrimsToLimit(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory("g1", CommandHistoryRecord{
			Command: fmt.Sprintf("cmd-%d", i),
		}))
	}

	got, err := s.FetchCommandHistory("g1")
	require.NoError(t, err)
	require.Len(t, got, commandHistoryLimit)
	// Oldest entries dropped, newest kept.
	assert.Equal(t, fmt.Sprintf("cmd-%d", commandHistoryLimit+4), got[len(got)-1].Command)
	assert.Equal(t, "cmd-5", got[0].Command)
}

func TestTrackHistoryTrimsToLimit(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < trackHistoryLimit+3; i++ {
		require.NoError(t, s.AppendTrackToHistory("g1", TrackHistoryRecord{
			Title:    fmt.Sprintf("track-%d", i),
			PlayedAt: time.Now().UTC(),
		}))
	}

	got, err := s.FetchTrackHistory("g1")
	require.NoError(t, err)
	require.Len(t, got, trackHistoryLimit)
	assert.Equal(t, fmt.Sprintf("track-%d", trackHistoryLimit+2), got[len(got)-1].Title)
}

func TestGuildsAreIsolated(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AppendTrackToHistory("g1", TrackHistoryRecord{Title: "only-g1"}))

	got, err := s.FetchTrackHistory("g2")
	require.NoError(t, err)
	assert.Empty(t, got)
}
