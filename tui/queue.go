// Package tui provides the now-playing terminal interface.
package tui

import (
	"github.com/samber/mo"
	"github.com/sonata-cli/sonata/util"
)

// queue walks the tracks given on the command line. Tracks that were
// actually reached are remembered so previous goes back through them.
type queue struct {
	tracks []string
	index  int
	played util.Stack[int]
}

func newQueue(tracks []string) *queue {
	return &queue{tracks: tracks, index: -1}
}

func (q *queue) current() mo.Option[string] {
	if q.index < 0 || q.index >= len(q.tracks) {
		return mo.None[string]()
	}
	return mo.Some(q.tracks[q.index])
}

// position returns the 1-based index of the current track.
func (q *queue) position() int {
	return q.index + 1
}

func (q *queue) len() int {
	return len(q.tracks)
}

// next advances to the following track. At the end of the queue it returns
// false and leaves the queue past its last track.
func (q *queue) next() (string, bool) {
	if q.index >= 0 && q.index < len(q.tracks) {
		q.played.Push(q.index)
	}

	if q.index < len(q.tracks) {
		q.index++
	}

	return q.current().Get()
}

// previous returns to the last track that was played.
func (q *queue) previous() (string, bool) {
	index, ok := q.played.Pop()
	if !ok {
		return q.current().Get()
	}

	q.index = index
	return q.current().Get()
}

// skip drops the current track without remembering it, for tracks that
// failed to load.
func (q *queue) skip() (string, bool) {
	if q.index < len(q.tracks) {
		q.index++
	}
	return q.current().Get()
}
