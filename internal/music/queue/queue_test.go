package queue

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astionic/astionic/internal/music/track"
)

func makeTracks(n int) []track.Track {
	tracks := make([]track.Track, n)
	for i := range tracks {
		tracks[i] = track.Track{Locator: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("t%d", i), StreamURL: "u"}
	}
	return tracks
}

func TestPushPopOrder(t *testing.T) {
	q := New()
	q.Push(makeTracks(3)...)

	require.Equal(t, 3, q.Len())

	first, ok := q.PopNext()
	require.True(t, ok)
	assert.Equal(t, "t0", first.Title)

	second, ok := q.PopNext()
	require.True(t, ok)
	assert.Equal(t, "t1", second.Title)

	assert.Equal(t, 1, q.Len())
}

func TestPopNextEmpty(t *testing.T) {
	q := New()
	_, ok := q.PopNext()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	q := New()
	q.Push(makeTracks(5)...)
	q.Clear()

	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.PeekAll())
}

func TestPeekAllDoesNotMutate(t *testing.T) {
	q := New()
	q.Push(makeTracks(4)...)

	peeked := q.PeekAll()
	peeked[0].Title = "mutated"

	assert.Equal(t, 4, q.Len())
	assert.Equal(t, "t0", q.PeekAll()[0].Title)
}

func TestShuffleIsPermutation(t *testing.T) {
	q := New()
	q.Push(makeTracks(20)...)

	before := titles(q.PeekAll())
	q.Shuffle()
	after := titles(q.PeekAll())

	sortedBefore := append([]string(nil), before...)
	sortedAfter := append([]string(nil), after...)
	sort.Strings(sortedBefore)
	sort.Strings(sortedAfter)
	assert.Equal(t, sortedBefore, sortedAfter)
}

// TestShuffleUniform checks that the Fisher-Yates pass reaches all 4!
// orderings without significant bias. Chi-squared with 23 degrees of
// freedom: critical value at p=0.001 is 49.73.
func TestShuffleUniform(t *testing.T) {
	const trials = 24000

	counts := make(map[string]int)
	for range trials {
		q := New()
		q.Push(makeTracks(4)...)
		q.Shuffle()
		counts[strings.Join(titles(q.PeekAll()), ",")]++
	}

	require.Len(t, counts, 24, "every ordering should be reachable")

	expected := float64(trials) / 24.0
	var chi2 float64
	for _, c := range counts {
		diff := float64(c) - expected
		chi2 += diff * diff / expected
	}
	assert.Less(t, chi2, 49.73, "shuffle distribution is biased")
}

func TestShuffleDeterministicSource(t *testing.T) {
	q := New()
	q.Push(makeTracks(3)...)

	// Swap sequence: i=2 j=0, i=1 j=1 -> [t2 t1 t0]
	picks := []int{0, 1}
	q.shuffle(func(int) int {
		j := picks[0]
		picks = picks[1:]
		return j
	})

	assert.Equal(t, []string{"t2", "t1", "t0"}, titles(q.PeekAll()))
}

func titles(tracks []track.Track) []string {
	out := make([]string, len(tracks))
	for i, tr := range tracks {
		out[i] = tr.Title
	}
	return out
}
