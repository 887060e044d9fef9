// Package tui provides the now-playing terminal interface.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sonata-cli/sonata/color"
	"github.com/sonata-cli/sonata/style"
)

type keymap struct {
	state state

	quit, forceQuit,
	playPause,
	seekForward, seekBackward,
	volumeUp, volumeDown,
	mute,
	next, previous,
	stop,
	showHelp key.Binding
}

func (k *keymap) setState(s state) {
	k.state = s
}

func newKeymap() *keymap {
	return &keymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("pause")),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "seek"),
		),
		seekBackward: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "rewind"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "louder"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "quieter"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		previous: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *keymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	switch k.state {
	case playingState:
		return h(k.playPause, k.seekForward, k.next, k.quit, k.showHelp),
			h(k.playPause, k.seekBackward, k.seekForward, k.volumeDown, k.volumeUp, k.mute, k.previous, k.next, k.stop, k.quit)
	case finishedState:
		return h(k.previous, k.quit), h(k.previous, k.quit)
	default:
		return h(k.quit), h(k.quit)
	}
}

func (k *keymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *keymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}
