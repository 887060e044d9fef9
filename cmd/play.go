// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/config"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/filesystem"
	"github.com/sonata-cli/sonata/key"
	"github.com/sonata-cli/sonata/log"
	"github.com/sonata-cli/sonata/tui"
	"github.com/sonata-cli/sonata/util"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// audioExtensions lists the file types picked up when a directory is expanded.
var audioExtensions = []string{
	".aac", ".aiff", ".alac", ".ape", ".flac", ".m4a", ".mka",
	".mp3", ".oga", ".ogg", ".opus", ".wav", ".wma", ".wv",
}

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:               "play [files or directories...]",
	Short:             "Play audio files, directories and http streams in order",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeAudioFiles,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(runPlay(args))
	},
}

// isAudio reports whether path has a known audio extension.
func isAudio(path string) bool {
	return slices.Contains(audioExtensions, strings.ToLower(filepath.Ext(path)))
}

// collectTracks expands args into a play queue. Directories contribute their
// audio files in lexical order, streams are kept as given.
func collectTracks(args []string) ([]string, error) {
	var tracks []string

	for _, arg := range args {
		if strings.Contains(arg, "://") {
			tracks = append(tracks, arg)
			continue
		}

		info, err := filesystem.API().Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}

		if !info.IsDir() {
			tracks = append(tracks, arg)
			continue
		}

		err = afero.Walk(filesystem.API(), arg, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && isAudio(path) {
				tracks = append(tracks, path)
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(tracks) == 0 {
		return nil, errors.New("nothing to play")
	}

	return tracks, nil
}

// startPlayer spawns the engine or explains how to install it.
func startPlayer() *engine.Player {
	CheckDependencies()

	player := engine.New(engine.OptionsFromConfig())
	if err := player.Start(); err != nil {
		if errors.Is(err, engine.ErrEngineNotFound) {
			printMissingDependencyError(viper.GetString(key.EngineBinary))
			os.Exit(1)
		}
		handleErr(err)
	}

	return player
}

// cleanupOnSignal tears the engine down when the process is interrupted.
func cleanupOnSignal(player *engine.Player) (stop func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-signals:
			log.Infof("received %s, shutting down", sig)
			player.Cleanup()
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func runPlay(args []string) error {
	tracks, err := collectTracks(args)
	if err != nil {
		return err
	}

	player := startPlayer()
	stop := cleanupOnSignal(player)

	if util.IsTerminal() {
		err = runInteractive(player, tracks)
	} else {
		err = runHeadless(player, tracks, os.Stdout)
	}

	stop()
	player.Cleanup()
	return err
}

func runInteractive(player *engine.Player, tracks []string) error {
	events := make(chan engine.Event, 16)
	listener := engine.NewEventListener(player.SocketPath(), config.Millis(key.IPCConnectTimeout), func(event engine.Event) {
		select {
		case events <- event:
		default:
		}
	})

	options := &tui.Options{
		Tracks: tracks,
		MPRIS:  viper.GetBool(key.MPRISEnable),
	}

	if err := listener.Start(); err != nil {
		log.Warnf("event listener unavailable, relying on polling: %v", err)
	} else {
		defer listener.Stop()
		options.Events = events
	}

	log.WithFields(map[string]any{
		"tracks": len(tracks),
		"mpris":  options.MPRIS,
	}).Info("starting interface")

	return tui.Run(player, options)
}

func completeAudioFiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(audioExtensions, func(ext string, _ int) string {
		return strings.TrimPrefix(ext, ".")
	}), cobra.ShellCompDirectiveFilterFileExt
}
