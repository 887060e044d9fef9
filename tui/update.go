// Package tui provides the now-playing terminal interface.
package tui

import (
	"fmt"
	"path/filepath"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sonata-cli/sonata/internal/ui"
	"github.com/sonata-cli/sonata/log"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tickMsg:
		cmds = append(cmds, b.poll(true))
	case playedMsg:
		cmds = append(cmds, b.onPlayed(msg))
	case snapshotMsg:
		cmds = append(cmds, b.onSnapshot(msg))
	case eventMsg:
		cmds = append(cmds, b.onEvent(msg))
	case remoteMsg:
		cmds = append(cmds, b.onRemote(msg))
	case error:
		b.raiseError(msg)
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit), bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
		}

		switch b.state {
		case playingState:
			cmds = append(cmds, b.updatePlaying(msg))
		case finishedState:
			if bubblesKey.Matches(msg, b.keymap.previous) {
				cmds = append(cmds, b.previous())
			}
		}
	}

	return b, tea.Batch(cmds...)
}

func (b *statefulBubble) updatePlaying(msg tea.KeyMsg) tea.Cmd {
	switch {
	case bubblesKey.Matches(msg, b.keymap.playPause):
		return b.togglePause()
	case bubblesKey.Matches(msg, b.keymap.seekForward):
		return b.seekBy(b.seekStep)
	case bubblesKey.Matches(msg, b.keymap.seekBackward):
		return b.seekBy(-b.seekStep)
	case bubblesKey.Matches(msg, b.keymap.volumeUp):
		return b.changeVolume(b.volumeStep)
	case bubblesKey.Matches(msg, b.keymap.volumeDown):
		return b.changeVolume(-b.volumeStep)
	case bubblesKey.Matches(msg, b.keymap.mute):
		return b.toggleMute()
	case bubblesKey.Matches(msg, b.keymap.next):
		return b.next()
	case bubblesKey.Matches(msg, b.keymap.previous):
		return b.previous()
	case bubblesKey.Matches(msg, b.keymap.stop):
		return b.stopPlayback()
	}
	return nil
}

func (b *statefulBubble) onPlayed(msg playedMsg) tea.Cmd {
	if msg.generation != b.generation {
		return nil
	}
	b.switching = false

	if !msg.ok {
		log.Warnf("skipping %s: engine refused it", msg.track)
		notify := ui.Notify(fmt.Sprintf("Cannot play %s", filepath.Base(msg.track)))

		if track, ok := b.queue.skip(); ok {
			return tea.Batch(notify, b.playTrack(track))
		}
		return tea.Batch(notify, b.finish())
	}

	b.playedAny = true
	return b.poll(false)
}

func (b *statefulBubble) onSnapshot(msg snapshotMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.scheduled {
		cmds = append(cmds, b.tick())
	}

	if msg.generation != b.generation || b.switching || b.state != playingState {
		return tea.Batch(cmds...)
	}

	b.session = msg.session
	b.meta = msg.meta
	if audio, ok := msg.audio.Get(); ok {
		b.audio = audio
		b.audioFetched = true
	}

	cmds = append(cmds, b.publish())

	if b.session.Playing && !b.session.Loading {
		cmds = append(cmds, b.record())
	}

	if msg.finished {
		cmds = append(cmds, b.next())
	}

	return tea.Batch(cmds...)
}

func (b *statefulBubble) onEvent(msg eventMsg) tea.Cmd {
	cmds := []tea.Cmd{b.waitForEvent()}

	switch {
	case msg.Name == "end-file", msg.Name == "file-loaded":
		cmds = append(cmds, b.poll(false))
	case msg.Name == "property-change" && msg.Property == "idle-active":
		cmds = append(cmds, b.poll(false))
	}

	return tea.Batch(cmds...)
}
