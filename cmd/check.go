// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/sonata-cli/sonata/color"
	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/key"
	"github.com/sonata-cli/sonata/style"
	"github.com/sonata-cli/sonata/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CheckDependencies verifies that the configured engine binary can be found.
func CheckDependencies() {
	binary := viper.GetString(key.EngineBinary)
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func installHint(dep string) string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install " + dep
	case constant.Linux:
		return "sudo apt install " + dep
	case constant.Windows:
		return "scoop install " + dep
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The playback engine '%s' was not found in your PATH.", dep))

	suggestion := ""
	if hint := installHint(dep); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(style.Box(style.ErrorColor)(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd reports whether the playback engine is installed and recent enough.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the playback engine is installed",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		binary := viper.GetString(key.EngineBinary)
		release, err := version.Engine(binary)
		if err != nil {
			fmt.Printf("%s %s found, version unknown: %v\n", icon.Get(icon.Warn), binary, err)
			return
		}

		if !version.Supported(release) {
			fmt.Printf(
				"%s %s %s is older than %s, end of track may not be detected\n",
				icon.Get(icon.Warn),
				binary,
				style.Fg(color.Yellow)(release),
				version.MinEngine,
			)
			return
		}

		fmt.Printf("%s %s %s\n", icon.Get(icon.Success), binary, style.Fg(color.Green)(release))
	},
}
