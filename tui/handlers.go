// Package tui provides the now-playing terminal interface.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/history"
	"github.com/sonata-cli/sonata/internal/ui"
	"github.com/sonata-cli/sonata/log"
	"github.com/sonata-cli/sonata/mpris"
	"github.com/sonata-cli/sonata/util"
)

type tickMsg struct{}

type playedMsg struct {
	generation int
	track      string
	ok         bool
}

type snapshotMsg struct {
	generation int
	scheduled  bool
	session    engine.Session
	meta       engine.Metadata
	finished   bool
	audio      mo.Option[engine.AudioInfo]
}

type eventMsg engine.Event

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// poll refreshes the engine state off the UI goroutine. Only scheduled polls
// keep the tick chain going.
func (b *statefulBubble) poll(scheduled bool) tea.Cmd {
	player := b.player
	generation := b.generation
	wantAudio := !b.audioFetched

	return func() tea.Msg {
		player.UpdateState()

		msg := snapshotMsg{
			generation: generation,
			scheduled:  scheduled,
			session:    player.Snapshot(),
			meta:       player.FormattedMetadata(),
			finished:   player.IsTrackFinished(),
		}

		if wantAudio && msg.session.HasFile() && !msg.session.Loading {
			msg.audio = mo.Some(player.AudioInfo())
		}

		return msg
	}
}

func (b *statefulBubble) playTrack(track string) tea.Cmd {
	b.generation++
	b.switching = true
	b.recorded = false
	b.audioFetched = false
	b.audio = engine.AudioInfo{}

	player := b.player
	generation := b.generation

	return func() tea.Msg {
		return playedMsg{
			generation: generation,
			track:      track,
			ok:         player.PlayFile(track),
		}
	}
}

func (b *statefulBubble) waitForEvent() tea.Cmd {
	if b.events == nil {
		return nil
	}

	events := b.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(event)
	}
}

// act runs fn against the engine and shows the text it returns.
func (b *statefulBubble) act(fn func(Engine) string) tea.Cmd {
	player := b.player
	return func() tea.Msg {
		if text := fn(player); text != "" {
			return ui.NotificationMsg(text)
		}
		return nil
	}
}

func (b *statefulBubble) togglePause() tea.Cmd {
	if !b.session.HasFile() {
		return b.replay()
	}

	b.session.Paused = !b.session.Paused
	return b.act(func(p Engine) string {
		return lo.Ternary(p.TogglePause(), "Paused", "Resumed")
	})
}

func (b *statefulBubble) setPause(paused bool) tea.Cmd {
	if !b.session.HasFile() {
		if paused {
			return nil
		}
		return b.replay()
	}

	if b.session.Paused == paused {
		return nil
	}
	return b.togglePause()
}

func (b *statefulBubble) replay() tea.Cmd {
	track, ok := b.queue.current().Get()
	if !ok {
		return nil
	}

	b.setState(playingState)
	return b.playTrack(track)
}

func (b *statefulBubble) seekBy(offset float64) tea.Cmd {
	return b.seekTo(b.session.Position + offset)
}

func (b *statefulBubble) seekTo(position float64) tea.Cmd {
	if !b.session.HasFile() {
		return nil
	}

	if b.session.Duration > 0 {
		position = min(position, b.session.Duration)
	}
	position = max(position, 0)
	b.session.Position = position

	return b.act(func(p Engine) string {
		if !p.Seek(position) {
			return "Seek failed"
		}
		return ""
	})
}

func (b *statefulBubble) changeVolume(delta int) tea.Cmd {
	volume := lo.Clamp(b.session.Volume+delta, 0, 100)
	b.session.Volume = volume

	return b.act(func(p Engine) string {
		p.SetVolume(volume)
		return fmt.Sprintf("Volume %d%%", volume)
	})
}

func (b *statefulBubble) toggleMute() tea.Cmd {
	return b.act(func(p Engine) string {
		return lo.Ternary(p.ToggleMute(), "Muted", "Unmuted")
	})
}

func (b *statefulBubble) stopPlayback() tea.Cmd {
	b.session = engine.Session{Volume: b.session.Volume, Muted: b.session.Muted}
	return b.act(func(p Engine) string {
		p.Stop()
		return "Stopped"
	})
}

func (b *statefulBubble) next() tea.Cmd {
	if track, ok := b.queue.next(); ok {
		b.setState(playingState)
		return b.playTrack(track)
	}
	return b.finish()
}

func (b *statefulBubble) previous() tea.Cmd {
	track, ok := b.queue.previous()
	if !ok {
		return nil
	}

	b.setState(playingState)
	return b.playTrack(track)
}

// finish is reached when the queue runs out.
func (b *statefulBubble) finish() tea.Cmd {
	b.generation++
	b.switching = false
	b.setState(finishedState)
	b.session = engine.Session{Volume: b.session.Volume, Muted: b.session.Muted}

	if !b.playedAny {
		b.raiseError(fmt.Errorf("none of the %s could be played", util.Quantify(b.queue.len(), "track", "tracks")))
		return nil
	}

	return tea.Batch(
		b.act(func(p Engine) string {
			p.Stop()
			return "End of queue"
		}),
		b.publish(),
	)
}

func (b *statefulBubble) record() tea.Cmd {
	if b.recorded || !b.saveHistory {
		return nil
	}
	b.recorded = true

	track, meta := b.session.CurrentFile, b.meta
	return func() tea.Msg {
		if err := history.Record(track, meta); err != nil {
			log.Warnf("record history for %s: %v", track, err)
		}
		return nil
	}
}

func (b *statefulBubble) publish() tea.Cmd {
	if b.bridge == nil {
		return nil
	}

	bridge := b.bridge
	state := mpris.StateFromSession(b.session, b.meta)
	return func() tea.Msg {
		if err := bridge.Update(state); err != nil {
			log.Debugf("mpris update: %v", err)
		}
		return nil
	}
}
