// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sonata-cli/sonata/config"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/history"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/key"
	"github.com/sonata-cli/sonata/log"
	"github.com/sonata-cli/sonata/util"
	"github.com/spf13/viper"
)

// headlessPlayer is the part of engine.Player the headless loop needs.
type headlessPlayer interface {
	Running() bool
	PlayFile(target string) bool
	UpdateState()
	IsTrackFinished() bool
	Snapshot() engine.Session
	FormattedMetadata() engine.Metadata
}

// runHeadless plays tracks one after another without an interface, writing
// a line when each track starts and ends.
func runHeadless(player headlessPlayer, tracks []string, w io.Writer) error {
	var (
		tick   = max(config.Millis(key.PlayerTick), 10*time.Millisecond)
		played int
	)

	for i, track := range tracks {
		if !player.Running() {
			return errors.New("engine exited")
		}

		if !player.PlayFile(track) {
			_, _ = fmt.Fprintf(w, "%s [%d/%d] skipped %s\n", icon.Get(icon.Warn), i+1, len(tracks), track)
			continue
		}

		played++
		_, _ = fmt.Fprintf(w, "%s [%d/%d] %s\n", icon.Get(icon.Play), i+1, len(tracks), track)

		for !player.IsTrackFinished() {
			if !player.Running() {
				return errors.New("engine exited")
			}

			time.Sleep(tick)
			player.UpdateState()
		}

		var (
			meta    = player.FormattedMetadata()
			session = player.Snapshot()
		)

		_, _ = fmt.Fprintf(w, "%s %s (%s)\n", icon.Get(icon.Success), describe(meta), util.FormatDuration(session.Duration))

		if viper.GetBool(key.HistorySave) {
			if err := history.Record(track, meta); err != nil {
				log.Warnf("recording %s: %v", track, err)
			}
		}
	}

	if played == 0 {
		return errors.New("no track could be played")
	}

	_, _ = fmt.Fprintf(w, "Played %s\n", util.Quantify(played, "track", "tracks"))
	return nil
}

func describe(meta engine.Metadata) string {
	if meta.Artist == "" {
		return meta.Title
	}
	return fmt.Sprintf("%s - %s", meta.Artist, meta.Title)
}
