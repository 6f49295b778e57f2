// Package queue implements the ordered collection of pending track
// requests for one guild. It has no locking of its own: the owning
// player serializes access.
package queue

import (
	"math/rand/v2"
	"slices"

	"github.com/astionic/astionic/internal/music/track"
)

// Queue holds tracks that have not started playing yet. The currently
// playing track is never part of it.
type Queue struct {
	items []track.Track
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{items: make([]track.Track, 0)}
}

// Push appends tracks to the tail.
func (q *Queue) Push(tracks ...track.Track) {
	q.items = append(q.items, tracks...)
}

// PopNext removes and returns the head, or ok=false when empty.
func (q *Queue) PopNext() (track.Track, bool) {
	if len(q.items) == 0 {
		return track.Track{}, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// Len returns the number of pending tracks.
func (q *Queue) Len() int {
	return len(q.items)
}

// Clear drops all pending tracks.
func (q *Queue) Clear() {
	q.items = nil
}

// PeekAll returns a copy of the pending tracks in play order.
func (q *Queue) PeekAll() []track.Track {
	return slices.Clone(q.items)
}

// Shuffle permutes the pending tracks with an unbiased Fisher-Yates
// pass: each of the n! orderings is equally likely.
func (q *Queue) Shuffle() {
	q.shuffle(rand.IntN)
}

func (q *Queue) shuffle(intn func(int) int) {
	for i := len(q.items) - 1; i >= 1; i-- {
		j := intn(i + 1)
		q.items[i], q.items[j] = q.items[j], q.items[i]
	}
}
