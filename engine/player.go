// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/filesystem"
	"github.com/sonata-cli/sonata/log"
)

// Player is the facade collaborators use. Every method is safe for
// concurrent use and bounded by the IPC timeouts. Failures below this
// boundary come back as false or empty values and never leave the cached
// Session half-updated.
type Player struct {
	opts       Options
	supervisor *Supervisor
	dispatcher *Dispatcher

	mu       sync.Mutex
	session  Session
	loadedAt time.Time
	now      func() time.Time
}

// New creates a player. Nothing is spawned or connected until Start.
func New(opts Options) *Player {
	p := &Player{
		opts:       opts,
		supervisor: NewSupervisor(opts),
		dispatcher: NewDispatcher(NewChannel(opts.SocketPath, opts.ConnectTimeout, opts.ReadTimeout)),
		now:        time.Now,
	}
	p.session.setVolume(opts.Volume)
	return p
}

// Start spawns the engine and connects to it. Only ErrEngineNotFound is
// returned; a socket that cannot be reached leaves the player degraded and
// each later call retries the connection.
func (p *Player) Start() error {
	if err := p.supervisor.Start(); err != nil {
		return err
	}

	if err := p.dispatcher.Connect(); err != nil {
		log.Warnf("engine started but not reachable: %v", err)
	}

	return nil
}

// Running reports whether the engine process is alive.
func (p *Player) Running() bool {
	return p.supervisor.Running()
}

// Cleanup quits the engine, terminating it if needed, and removes the socket.
// It is idempotent and safe to call when Start never succeeded.
func (p *Player) Cleanup() {
	if p.dispatcher.Connected() {
		p.dispatcher.Command("quit")
	}
	p.dispatcher.Close()
	p.supervisor.Terminate()
}

// PlayFile loads target, replacing whatever is playing. Local paths must
// exist; http(s) URLs are passed through as streams.
func (p *Player) PlayFile(target string) bool {
	clean, err := sanitizeMediaTarget(target)
	if err != nil {
		log.Warnf("refusing to play %q: %v", target, err)
		return false
	}

	if !isStream(clean) && !filesystem.IsFile(clean) {
		log.Warnf("refusing to play %q: no such file", clean)
		return false
	}

	if !p.dispatcher.Command("loadfile", clean, "replace") {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s := &p.session
	s.clearTrack()
	s.CurrentFile = clean
	s.Playing = true
	s.Paused = false
	s.Idle = false
	s.Loading = true
	p.loadedAt = p.now()

	log.Infof("playing %s", clean)
	return true
}

// TogglePause cycles the engine's pause flag and flips the local one right
// away; the next UpdateState confirms it. Returns the new local pause state.
func (p *Player) TogglePause() bool {
	if !p.dispatcher.Command("cycle", "pause") {
		log.Debugf("cycle pause not confirmed, flipping locally anyway")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.session.setPaused(!p.session.Paused)
	return p.session.Paused
}

// SetPause sets the pause flag explicitly, remotely and locally.
func (p *Player) SetPause(paused bool) bool {
	ok := p.dispatcher.SetProperty("pause", paused)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.session.setPaused(paused)
	return ok
}

// Stop stops playback. The local track is cleared whether or not the engine
// answered.
func (p *Player) Stop() {
	p.dispatcher.Command("stop")

	p.mu.Lock()
	defer p.mu.Unlock()

	p.session.clearTrack()
}

// Seek jumps to an absolute position. The cache catches up on the next poll.
func (p *Player) Seek(seconds float64) bool {
	if seconds < 0 {
		seconds = 0
	}
	return p.dispatcher.Command("seek", seconds, "absolute")
}

// SetVolume clamps v into 0..100, sends it, and stores it regardless of the reply.
func (p *Player) SetVolume(v int) bool {
	p.mu.Lock()
	p.session.setVolume(v)
	volume := p.session.Volume
	p.mu.Unlock()

	return p.dispatcher.SetProperty("volume", float64(volume))
}

// SetMute sets the mute flag remotely and locally.
func (p *Player) SetMute(muted bool) bool {
	p.mu.Lock()
	p.session.Muted = muted
	p.mu.Unlock()

	return p.dispatcher.SetProperty("mute", muted)
}

// ToggleMute flips the mute flag and returns the new local value. The flip
// happens under the cache lock, so concurrent toggles never collapse into one.
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	p.session.Muted = !p.session.Muted
	muted := p.session.Muted
	p.mu.Unlock()

	if !p.dispatcher.SetProperty("mute", muted) {
		log.Debugf("mute not confirmed, keeping local value")
	}
	return muted
}

// UpdateState polls the engine and folds the answers into the cache.
// Values that are missing or of an unexpected type leave the cached field
// as it was.
func (p *Player) UpdateState() {
	values := p.dispatcher.GetProperties("time-pos", "duration", "pause", "idle-active", "metadata")

	pos, hasPos := values["time-pos"]
	dur, hasDur := values["duration"]
	pause, hasPause := values["pause"]
	idle, hasIdle := values["idle-active"]
	meta, hasMeta := values["metadata"]

	p.mu.Lock()
	defer p.mu.Unlock()

	s := &p.session

	if v, ok := asFloat(pos, hasPos); ok {
		s.Position = max(v, 0)
		s.Loading = false
	}

	if v, ok := asFloat(dur, hasDur); ok && v >= 0 {
		s.Duration = v
	}

	if v, ok := idle.(bool); hasIdle && ok {
		switch {
		case !v:
			s.Idle = false
			s.Loading = false
		case s.Loading && p.now().Sub(p.loadedAt) < p.opts.LoadGrace:
			// the engine has not picked up the new file yet
		default:
			s.Idle = true
			s.Loading = false
		}
	}

	if tags, ok := asTags(meta, hasMeta); ok {
		s.Metadata = tags
	}

	if v, ok := pause.(bool); hasPause && ok {
		s.setPaused(v)
	}

	if s.Idle {
		s.Playing = false
	}

	if !s.HasFile() {
		s.Position = 0
		s.Duration = 0
		s.Playing = false
	}
}

// IsTrackFinished reports whether the engine went idle while a file is still
// loaded locally, i.e. something played to its end.
func (p *Player) IsTrackFinished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.session.Idle && p.session.HasFile()
}

// Snapshot returns a copy of the cached session.
func (p *Player) Snapshot() Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.session.clone()
}

// FormattedMetadata normalizes the cached tags into title, artist and album.
func (p *Player) FormattedMetadata() Metadata {
	p.mu.Lock()
	defer p.mu.Unlock()

	return formatMetadata(p.session.Metadata, p.session.CurrentFile)
}

// AudioInfo queries codec, bitrate and sample rate. Absent values are left empty.
func (p *Player) AudioInfo() AudioInfo {
	values := p.dispatcher.GetProperties("audio-codec-name", "audio-bitrate", "audio-params/samplerate")

	codec, hasCodec := values["audio-codec-name"]
	bitrate, hasBitrate := values["audio-bitrate"]
	rate, hasRate := values["audio-params/samplerate"]

	return formatAudioInfo(
		lo.Ternary(hasCodec, codec, nil),
		lo.Ternary(hasBitrate, bitrate, nil),
		lo.Ternary(hasRate, rate, nil),
	)
}

// SocketPath returns the IPC socket path.
func (p *Player) SocketPath() string {
	return p.opts.SocketPath
}

func asFloat(v any, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	f, isFloat := v.(float64)
	return f, isFloat
}

func asTags(v any, ok bool) (map[string]string, bool) {
	if !ok {
		return nil, false
	}

	raw, isMap := v.(map[string]any)
	if !isMap {
		return nil, false
	}

	tags := make(map[string]string, len(raw))
	for k, value := range raw {
		if s, isString := value.(string); isString {
			tags[k] = s
		}
	}
	return tags, true
}
