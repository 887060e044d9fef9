// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/color"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/style"
	"github.com/sonata-cli/sonata/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	infoCmd.Flags().Duration("wait", 3*time.Second, "How long to wait for the engine to probe the file")
	infoCmd.SetOut(os.Stdout)
}

// trackInfo is what the engine could tell about a file.
type trackInfo struct {
	Path     string            `json:"path"`
	Title    string            `json:"title"`
	Artist   string            `json:"artist,omitempty"`
	Album    string            `json:"album,omitempty"`
	Duration float64           `json:"duration"`
	Audio    map[string]string `json:"audio"`
}

// infoPlayer is the part of engine.Player used to probe a file.
type infoPlayer interface {
	PlayFile(target string) bool
	SetPause(paused bool) bool
	UpdateState()
	Snapshot() engine.Session
	FormattedMetadata() engine.Metadata
	AudioInfo() engine.AudioInfo
}

// probe loads target paused and polls until its duration is known or wait runs out.
func probe(player infoPlayer, target string, wait, interval time.Duration) (*trackInfo, error) {
	if !player.PlayFile(target) {
		return nil, fmt.Errorf("engine refused to load %s", target)
	}
	player.SetPause(true)

	deadline := time.Now().Add(wait)
	for {
		player.UpdateState()
		if player.Snapshot().Duration > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(interval)
	}

	meta := player.FormattedMetadata()
	return &trackInfo{
		Path:     target,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		Duration: player.Snapshot().Duration,
		Audio:    player.AudioInfo().Fields(),
	}, nil
}

var infoTemplate = lo.Must(template.New("info").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"duration": util.FormatDuration,
}).Parse(`{{ purple .Title }}
{{ with .Artist }}  {{ faint "Artist" }}    {{ bold . }}
{{ end }}{{ with .Album }}  {{ faint "Album" }}     {{ bold . }}
{{ end }}  {{ faint "Duration" }}  {{ bold (duration .Duration) }}
{{ range $k, $v := .Audio }}  {{ faint $k }}  {{ bold $v }}
{{ end }}  {{ faint "Path" }}      {{ .Path }}
`))

func printTrackInfo(w io.Writer, info *trackInfo, asJson bool) error {
	if asJson {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	return infoTemplate.Execute(w, info)
}

// infoCmd prints the tags and stream parameters of a single file.
var infoCmd = &cobra.Command{
	Use:               "info <file>",
	Short:             "Show the tags and audio parameters of a file",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAudioFiles,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			wait   = lo.Must(cmd.Flags().GetDuration("wait"))
		)

		player := startPlayer()
		info, err := probe(player, args[0], wait, 100*time.Millisecond)
		player.Cleanup()
		handleErr(err)

		handleErr(printTrackInfo(cmd.OutOrStdout(), info, asJson))
	},
}
