// Package tui provides the now-playing terminal interface.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type remoteAction int

const (
	remotePlayPause remoteAction = iota
	remotePlay
	remotePause
	remoteStop
	remoteNext
	remotePrevious
	remoteSeek
	remoteSetPosition
)

type remoteMsg struct {
	action remoteAction
	offset time.Duration
}

// remote forwards desktop media controls into the program as messages, so
// they are handled on the UI goroutine like key presses.
type remote struct {
	program *tea.Program
}

func (r *remote) send(action remoteAction, offset time.Duration) {
	r.program.Send(remoteMsg{action: action, offset: offset})
}

func (r *remote) PlayPause()                    { r.send(remotePlayPause, 0) }
func (r *remote) Play()                         { r.send(remotePlay, 0) }
func (r *remote) Pause()                        { r.send(remotePause, 0) }
func (r *remote) Stop()                         { r.send(remoteStop, 0) }
func (r *remote) Next()                         { r.send(remoteNext, 0) }
func (r *remote) Previous()                     { r.send(remotePrevious, 0) }
func (r *remote) Seek(offset time.Duration)     { r.send(remoteSeek, offset) }
func (r *remote) SetPosition(pos time.Duration) { r.send(remoteSetPosition, pos) }

func (b *statefulBubble) onRemote(msg remoteMsg) tea.Cmd {
	switch msg.action {
	case remotePlayPause:
		return b.togglePause()
	case remotePlay:
		return b.setPause(false)
	case remotePause:
		return b.setPause(true)
	case remoteStop:
		return b.stopPlayback()
	case remoteNext:
		return b.next()
	case remotePrevious:
		return b.previous()
	case remoteSeek:
		return b.seekBy(msg.offset.Seconds())
	case remoteSetPosition:
		return b.seekTo(msg.offset.Seconds())
	}
	return nil
}
