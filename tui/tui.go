// Package tui provides the now-playing terminal interface.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/log"
	"github.com/sonata-cli/sonata/mpris"
)

// Engine is the part of engine.Player the interface drives.
type Engine interface {
	PlayFile(target string) bool
	TogglePause() bool
	Stop()
	Seek(seconds float64) bool
	SetVolume(v int) bool
	ToggleMute() bool
	UpdateState()
	IsTrackFinished() bool
	Snapshot() engine.Session
	FormattedMetadata() engine.Metadata
	AudioInfo() engine.AudioInfo
}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Tracks is the play queue, in order.
	Tracks []string

	// Events, when set, delivers engine events that should trigger an
	// immediate poll instead of waiting for the next tick.
	Events <-chan engine.Event

	// MPRIS publishes state to desktop media controls.
	MPRIS bool
}

// Run plays the queue until the user quits.
func Run(player Engine, options *Options) error {
	bubble := newBubble(player, options)
	program := tea.NewProgram(bubble, tea.WithAltScreen())

	if options.MPRIS {
		bridge, err := mpris.New(&remote{program: program})
		if err != nil {
			log.Infof("mpris disabled: %v", err)
		} else {
			bubble.bridge = bridge
			defer bridge.Close()
		}
	}

	_, err := program.Run()
	return err
}
