// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/color"
	"github.com/sonata-cli/sonata/history"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/style"
	"github.com/sonata-cli/sonata/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "l", 20, "Maximum number of entries to show, 0 for all")
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.SetOut(os.Stdout)

	historyCmd.AddCommand(historyRemoveCmd)
}

func printHistory(w io.Writer, entries []*history.Entry, asJson bool) error {
	if asJson {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, style.Faint("Nothing played yet"))
		return err
	}

	for _, entry := range entries {
		_, err := fmt.Fprintf(
			w,
			"%s  %s %s\n",
			style.Faint(entry.LastPlayed.Format("2006-01-02 15:04")),
			style.Bold(entry.String()),
			style.Fg(color.Yellow)(util.Quantify(entry.Plays, "play", "plays")),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// historyCmd lists recently played tracks.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently played tracks",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			limit  = lo.Must(cmd.Flags().GetInt("limit"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
		)

		entries, err := history.Recent(limit)
		handleErr(err)
		handleErr(printHistory(cmd.OutOrStdout(), entries, asJson))
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Forget a track",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Remove(args[0]))
		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), args[0])
	},
}
