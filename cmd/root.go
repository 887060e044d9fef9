// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/color"
	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/key"
	"github.com/sonata-cli/sonata/log"
	"github.com/sonata-cli/sonata/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record played tracks in the local history")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().Int("volume", 70, "Initial volume, 0 to 100")
	lo.Must0(viper.BindPFlag(key.EngineVolume, rootCmd.PersistentFlags().Lookup("volume")))

	rootCmd.PersistentFlags().Bool("mpris", true, "Expose playback to desktop media controls")
	lo.Must0(viper.BindPFlag(key.MPRISEnable, rootCmd.PersistentFlags().Lookup("mpris")))
}

// rootCmd defines the entry point for the sonata application.
var rootCmd = &cobra.Command{
	Use:   constant.Sonata + " [files...]",
	Short: "A minimalist terminal audio player",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A minimalist terminal audio player"),
	Args:              cobra.ArbitraryArgs,
	ValidArgsFunction: completeAudioFiles,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		handleErr(runPlay(args))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
