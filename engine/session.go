// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"maps"

	"github.com/samber/lo"
)

// State is the coarse playback state derived from a Session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Session is the locally cached view of the engine's playback state.
//
// Playing and Paused are never both true. Position and Duration are zero
// whenever CurrentFile is empty. Volume is always within 0..100.
type Session struct {
	CurrentFile string
	Playing     bool
	Paused      bool
	Position    float64
	Duration    float64
	Volume      int
	Muted       bool
	Metadata    map[string]string

	// Idle mirrors the engine's last reported idle-active value.
	Idle bool

	// Loading is set between loadfile and the first sign that the file opened.
	Loading bool
}

// HasFile reports whether a file is loaded locally.
func (s Session) HasFile() bool {
	return s.CurrentFile != ""
}

// State derives the playback state.
func (s Session) State() State {
	switch {
	case !s.HasFile():
		return StateIdle
	case s.Loading:
		return StateLoading
	case s.Idle:
		return StateIdle
	case s.Paused:
		return StatePaused
	case s.Playing:
		return StatePlaying
	default:
		return StateIdle
	}
}

// Progress returns Position/Duration in 0..1, or 0 when the duration is unknown.
func (s Session) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return lo.Clamp(s.Position/s.Duration, 0, 1)
}

func (s Session) clone() Session {
	s.Metadata = maps.Clone(s.Metadata)
	return s
}

func (s *Session) setPaused(paused bool) {
	s.Paused = paused
	if paused {
		s.Playing = false
		return
	}
	s.Playing = s.HasFile() && !s.Idle
}

func (s *Session) setVolume(v int) {
	s.Volume = lo.Clamp(v, 0, 100)
}

func (s *Session) clearTrack() {
	s.CurrentFile = ""
	s.Playing = false
	s.Paused = false
	s.Position = 0
	s.Duration = 0
	s.Loading = false
	s.Metadata = nil
}
