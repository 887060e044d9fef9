// Package tui provides the now-playing terminal interface.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the first track along with the poll ticker and the event pump.
func (b *statefulBubble) Init() tea.Cmd {
	track, ok := b.queue.next()
	if !ok {
		b.raiseError(errors.New("nothing to play"))
		return nil
	}

	return tea.Batch(b.playTrack(track), b.tick(), b.waitForEvent())
}
