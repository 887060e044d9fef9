// Package tui provides the now-playing terminal interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/style"
	"github.com/sonata-cli/sonata/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playingState:
		output = b.viewPlaying()
	case finishedState:
		output = b.viewFinished()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewPlaying() string {
	s := b.session
	truncate := style.Truncate(b.width)

	title := style.Title("Now Playing")
	if b.queue.len() > 1 {
		title += " " + style.Faint(fmt.Sprintf("%d/%d", b.queue.position(), b.queue.len()))
	}

	lines := []string{title, ""}

	if !s.HasFile() && !b.switching {
		lines = append(lines,
			icon.Get(icon.Stop)+" "+style.Faint("Stopped"),
			"",
			style.Faint("press space to play again"),
		)
		return b.renderLines(true, lines)
	}

	lines = append(lines, truncate(icon.Get(icon.Track)+" "+style.Bold(style.Fg(style.AccentColor)(b.trackTitle()))))

	if by := b.byline(); by != "" {
		lines = append(lines, truncate("  "+style.Fg(style.Subtext)(by)))
	}

	if info := b.audio.String(); info != "" {
		lines = append(lines, truncate("  "+style.Faint(info)))
	}

	lines = append(lines,
		"",
		b.progressC.ViewAs(s.Progress()),
		b.statusLine(),
	)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) trackTitle() string {
	if b.meta.Title != "" {
		return b.meta.Title
	}

	if track, ok := b.queue.current().Get(); ok {
		return util.FileStem(track)
	}
	return ""
}

func (b *statefulBubble) byline() string {
	parts := make([]string, 0, 2)
	if b.meta.Artist != "" {
		parts = append(parts, b.meta.Artist)
	}
	if b.meta.Album != "" {
		parts = append(parts, style.Italic(b.meta.Album))
	}
	return strings.Join(parts, " · ")
}

func (b *statefulBubble) statusLine() string {
	s := b.session

	var state string
	switch s.State() {
	case engine.StateLoading:
		state = icon.Get(icon.Progress) + " loading"
	case engine.StatePaused:
		state = icon.Get(icon.Pause) + " paused"
	case engine.StatePlaying:
		state = icon.Get(icon.Play) + " playing"
	default:
		state = icon.Get(icon.Stop) + " idle"
	}

	volume := fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), s.Volume)
	if s.Muted {
		volume = icon.Get(icon.Mute) + " " + style.Faint(fmt.Sprintf("%d%%", s.Volume))
	}

	elapsed := fmt.Sprintf("%s / %s", util.FormatDuration(s.Position), util.FormatDuration(s.Duration))
	left := style.Fg(style.Text)(elapsed) + "  " + style.Faint(state)

	gap := b.width - lipgloss.Width(left) - lipgloss.Width(volume)
	if gap < 2 {
		gap = 2
	}

	return left + strings.Repeat(" ", gap) + volume
}

func (b *statefulBubble) viewFinished() string {
	return b.renderLines(true, []string{
		style.Title("Now Playing"),
		"",
		icon.Get(icon.Success) + " " + fmt.Sprintf("Played %s", util.Quantify(b.queue.len(), "track", "tracks")),
	})
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), max(b.width, 20))

	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Playback stopped:",
		"",
		errorMsg,
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		_, y := paddingStyle.GetFrameSize()
		if free := b.height - y - h - 1; free > 0 {
			l += strings.Repeat("\n", free)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
