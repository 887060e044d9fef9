// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sonata-cli/sonata/filesystem"
	"github.com/sonata-cli/sonata/history"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/internal/sweep"
	"github.com/sonata-cli/sonata/util"
	"github.com/sonata-cli/sonata/where"
	"github.com/spf13/cobra"
)

// clearTarget defines a resource eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() error
}

func removeDir(location func() string) func() error {
	return func() error {
		_ = util.Delete(location())
		return filesystem.API().RemoveAll(location())
	}
}

// clearTargets registry of all application artifacts that can be selectively cleared.
var clearTargets = []clearTarget{
	{"history", "history", mo.Some("s"), history.Clear},
	{"logs", "logs", mo.Some("l"), removeDir(where.Logs)},
	{"stale sockets", "temp", mo.Some("t"), func() error {
		sweep.Sockets(where.Temp())
		return nil
	}},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes recorded history, logs and leftovers of crashed sessions.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear history, logs and stale runtime files",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := target.clear()
			e()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
