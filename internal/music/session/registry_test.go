package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astionic/astionic/internal/music/transport"
)

type nopConnector struct{}

func (nopConnector) Connect(_ context.Context, _, channelID string) (transport.Conn, error) {
	return nil, context.Canceled
}

func TestGetOrCreateReturnsSamePlayer(t *testing.T) {
	r := New(nopConnector{})

	a := r.GetOrCreate("guild-1")
	b := r.GetOrCreate("guild-1")
	c := r.GetOrCreate("guild-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := New(nopConnector{})

	const workers = 32
	players := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			players[i] = r.GetOrCreate("guild-1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, players[0], players[i])
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := New(nopConnector{})
	r.GetOrCreate("guild-1")

	r.Remove(context.Background(), "guild-1")
	_, ok := r.Get("guild-1")
	assert.False(t, ok)

	// Second removal of the same guild must not panic or block.
	r.Remove(context.Background(), "guild-1")
}

func TestShutdownDropsAllPlayers(t *testing.T) {
	r := New(nopConnector{})
	r.GetOrCreate("guild-1")
	r.GetOrCreate("guild-2")

	r.Shutdown(context.Background())

	_, ok1 := r.Get("guild-1")
	_, ok2 := r.Get("guild-2")
	require.False(t, ok1)
	require.False(t, ok2)
}
