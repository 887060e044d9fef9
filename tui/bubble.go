// Package tui provides the now-playing terminal interface.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/sonata-cli/sonata/config"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/internal/ui"
	"github.com/sonata-cli/sonata/key"
	"github.com/sonata-cli/sonata/mpris"
	"github.com/sonata-cli/sonata/style"
	"github.com/sonata-cli/sonata/util"
	"github.com/spf13/viper"
)

// statefulBubble is the now-playing model. The engine is only ever touched
// from commands, so Update never blocks on IPC.
type statefulBubble struct {
	state  state
	keymap *keymap

	player Engine
	queue  *queue
	events <-chan engine.Event
	bridge *mpris.Bridge

	// generation increments with every track switch; polls started for an
	// older generation are ignored.
	generation int
	switching  bool
	recorded   bool
	playedAny  bool

	session      engine.Session
	meta         engine.Metadata
	audio        engine.AudioInfo
	audioFetched bool

	tickInterval time.Duration
	seekStep     float64
	volumeStep   int
	saveHistory  bool

	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	lastError     error
	width, height int
}

func newBubble(player Engine, options *Options) *statefulBubble {
	bubble := &statefulBubble{
		state:  playingState,
		keymap: newKeymap(),

		player: player,
		queue:  newQueue(options.Tracks),
		events: options.Events,

		tickInterval: max(config.Millis(key.PlayerTick), 50*time.Millisecond),
		seekStep:     viper.GetFloat64(key.PlayerSeekStep),
		volumeStep:   viper.GetInt(key.PlayerVolumeStep),
		saveHistory:  viper.GetBool(key.HistorySave),

		progressC: progress.New(
			progress.WithGradient(style.GradientStart, style.GradientEnd),
			progress.WithoutPercentage(),
		),
		helpC:    help.New(),
		notifier: &ui.Model{},
	}

	if bubble.seekStep <= 0 {
		bubble.seekStep = 5
	}
	if bubble.volumeStep <= 0 {
		bubble.volumeStep = 5
	}

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) resize(width, height int) {
	x, _ := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height
	b.progressC.Width = max(b.width, 10)
	b.helpC.Width = b.width
}
