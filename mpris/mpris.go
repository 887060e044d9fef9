// Package mpris exposes playback to desktop media controls over D-Bus.
//
// Only Linux has a session bus to talk to; elsewhere New returns ErrUnsupported.
package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/engine"
)

const (
	rootInterface       = "org.mpris.MediaPlayer2"
	playerInterface     = "org.mpris.MediaPlayer2.Player"
	propertiesInterface = "org.freedesktop.DBus.Properties"
	busName             = "org.mpris.MediaPlayer2." + constant.Sonata
	objectPath          = "/org/mpris/MediaPlayer2"
)

// ErrUnsupported is returned by New on platforms without MPRIS.
var ErrUnsupported = errors.New("mpris is not supported on this platform")

// Handler receives the commands desktop media controls send.
type Handler interface {
	PlayPause()
	Play()
	Pause()
	Stop()
	Next()
	Previous()
	Seek(offset time.Duration)
	SetPosition(position time.Duration)
}

// Status is the MPRIS PlaybackStatus.
type Status string

const (
	StatusPlaying Status = "Playing"
	StatusPaused  Status = "Paused"
	StatusStopped Status = "Stopped"
)

// State is what the bridge publishes.
type State struct {
	Status   Status
	Track    string
	Title    string
	Artist   string
	Album    string
	Length   time.Duration
	Position time.Duration

	// Volume is 0..1.
	Volume float64
}

// StateFromSession converts a player snapshot into a publishable State.
func StateFromSession(s engine.Session, meta engine.Metadata) State {
	state := State{
		Status:   StatusStopped,
		Track:    s.CurrentFile,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		Length:   seconds(s.Duration),
		Position: seconds(s.Position),
		Volume:   float64(s.Volume) / 100,
	}

	switch s.State() {
	case engine.StatePlaying, engine.StateLoading:
		state.Status = StatusPlaying
	case engine.StatePaused:
		state.Status = StatusPaused
	}

	return state
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// trackID derives a D-Bus object path for the track. Paths only allow
// [A-Za-z0-9_], so the file name is hashed.
func trackID(track string) dbus.ObjectPath {
	if track == "" {
		return dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(track))
	return dbus.ObjectPath(fmt.Sprintf("/org/%s/track/t%x", constant.Sonata, h.Sum64()))
}

func (s State) metadata() map[string]dbus.Variant {
	m := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackID(s.Track)),
	}

	if s.Title != "" {
		m["xesam:title"] = dbus.MakeVariant(s.Title)
	}
	if s.Artist != "" {
		m["xesam:artist"] = dbus.MakeVariant([]string{s.Artist})
	}
	if s.Album != "" {
		m["xesam:album"] = dbus.MakeVariant(s.Album)
	}
	if s.Length > 0 {
		m["mpris:length"] = dbus.MakeVariant(s.Length.Microseconds())
	}

	return m
}

func (s State) playerProperties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant(string(s.Status)),
		"Metadata":       dbus.MakeVariant(s.metadata()),
		"Position":       dbus.MakeVariant(s.Position.Microseconds()),
		"Volume":         dbus.MakeVariant(s.Volume),
		"Rate":           dbus.MakeVariant(1.0),
		"MinimumRate":    dbus.MakeVariant(1.0),
		"MaximumRate":    dbus.MakeVariant(1.0),
		"CanGoNext":      dbus.MakeVariant(true),
		"CanGoPrevious":  dbus.MakeVariant(true),
		"CanPlay":        dbus.MakeVariant(s.Track != ""),
		"CanPause":       dbus.MakeVariant(s.Track != ""),
		"CanSeek":        dbus.MakeVariant(s.Length > 0),
		"CanControl":     dbus.MakeVariant(true),
	}
}

func rootProperties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"CanQuit":             dbus.MakeVariant(false),
		"CanRaise":            dbus.MakeVariant(false),
		"HasTrackList":        dbus.MakeVariant(false),
		"Identity":            dbus.MakeVariant(constant.Sonata),
		"SupportedUriSchemes": dbus.MakeVariant([]string{"file", "http", "https"}),
		"SupportedMimeTypes":  dbus.MakeVariant([]string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/x-wav", "audio/mp4"}),
	}
}

// changed lists the player properties that differ between two states.
// Position is left out: clients extrapolate it from Rate.
func changed(old, cur State) map[string]dbus.Variant {
	props := make(map[string]dbus.Variant)

	if old.Status != cur.Status {
		props["PlaybackStatus"] = dbus.MakeVariant(string(cur.Status))
	}

	if old.Track != cur.Track || old.Title != cur.Title || old.Artist != cur.Artist ||
		old.Album != cur.Album || old.Length != cur.Length {
		props["Metadata"] = dbus.MakeVariant(cur.metadata())
		props["CanSeek"] = dbus.MakeVariant(cur.Length > 0)
	}

	if old.Volume != cur.Volume {
		props["Volume"] = dbus.MakeVariant(cur.Volume)
	}

	return props
}

// seeked reports whether the position jumped rather than advanced with playback.
func seeked(old, cur State, elapsed time.Duration) bool {
	if old.Track != cur.Track {
		return false
	}

	expected := old.Position
	if old.Status == StatusPlaying {
		expected += elapsed
	}

	drift := cur.Position - expected
	return drift > 2*time.Second || drift < -2*time.Second
}
