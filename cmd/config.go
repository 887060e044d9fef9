// Package cmd implements the command-line interface for sonata.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/color"
	"github.com/sonata-cli/sonata/config"
	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/filesystem"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/open"
	"github.com/sonata-cli/sonata/style"
	"github.com/sonata-cli/sonata/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func configFile() string {
	return filepath.Join(where.Config(), fmt.Sprintf("%s.%s", constant.Sonata, "toml"))
}

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

func lookupField(key string) (config.Field, error) {
	field, ok := config.Default[key]
	if !ok {
		return config.Field{}, errUnknownKey(key)
	}
	return field, nil
}

// parseValue converts command-line words into the type of field's default.
func parseValue(field config.Field, raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, errors.New("value is required as an argument or --value flag")
	}

	switch field.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", field.Key)
	}
}

// persist writes the in-memory configuration, creating the file on first use.
func persist() error {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		return viper.SafeWriteConfig()
	default:
		return err
	}
}

// setValue validates and stores a single key.
func setValue(key string, raw []string) (any, error) {
	field, err := lookupField(key)
	if err != nil {
		return nil, err
	}

	value, err := parseValue(field, raw)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(key, value); err != nil {
		return nil, err
	}

	viper.Set(key, value)
	return value, persist()
}

// resetValues restores keys, or every key when none are given, to their defaults.
func resetValues(keys ...string) error {
	if len(keys) == 0 {
		keys = lo.Keys(config.Default)
	}

	for _, key := range keys {
		field, err := lookupField(key)
		if err != nil {
			return err
		}
		viper.Set(key, field.Value)
	}

	return persist()
}

// selectFields returns the registered fields for keys, or all of them, sorted by key.
func selectFields(keys []string) ([]config.Field, error) {
	fields := lo.Values(config.Default)

	if len(keys) > 0 {
		fields = make([]config.Field, 0, len(keys))
		for _, key := range keys {
			field, err := lookupField(key)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})

	return fields, nil
}

// section is the part of a key before the first dot, e.g. "engine".
func section(key string) string {
	name, _, _ := strings.Cut(key, ".")
	return name
}

func printFields(w io.Writer, fields []config.Field, asJson bool) error {
	if asJson {
		return json.NewEncoder(w).Encode(lo.Map(fields, func(f config.Field, _ int) *config.Field {
			return &f
		}))
	}

	var current string
	for i, field := range fields {
		if s := section(field.Key); s != current {
			current = s
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintln(w, style.Title(s))
		}

		_, _ = fmt.Fprintln(w, field.Pretty())
	}

	return nil
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd serves as the parent command for managing application configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage engine, playback and interface settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Specify the configuration keys to retrieve information for")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd lists fields grouped by section with their current values.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe configuration fields, grouped by section",
	Run: func(cmd *cobra.Command, args []string) {
		fields, err := selectFields(lo.Must(cmd.Flags().GetStringSlice("key")))
		handleErr(err)
		handleErr(printFields(cmd.OutOrStdout(), fields, lo.Must(cmd.Flags().GetBool("json"))))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "The configuration key to update")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "The new value to assign to the configuration key")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configSetCmd validates and stores a new value.
var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Update a configuration key, rejecting values the player cannot use",
	Example:           "  sonata config set engine.volume 60\n  sonata config set ipc.read_timeout 1500",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key := lo.Must(cmd.Flags().GetString("key"))
		value := lo.Must(cmd.Flags().GetStringSlice("value"))

		if len(args) >= 1 {
			key = args[0]
		}
		if len(args) >= 2 {
			value = args[1:]
		}
		if key == "" {
			handleErr(errors.New("key is required as an argument or --key flag"))
		}

		v, err := setValue(key, value)
		handleErr(err)

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(key),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The specific configuration key to retrieve")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	configGetCmd.SetOut(os.Stdout)
}

// configGetCmd prints the effective value of a key.
var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a configuration key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		key := lo.Must(cmd.Flags().GetString("key"))
		if len(args) >= 1 {
			key = args[0]
		}

		_, err := lookupField(key)
		handleErr(err)

		cmd.Println(viper.Get(key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Forcefully overwrite the existing configuration file")
}

// configWriteCmd serializes the current in-memory configuration to disk.
var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to " + constant.Sonata + ".toml",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(configFile()))
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf(
			"%s wrote config to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			configFile(),
		)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

// configDeleteCmd removes the configuration file.
var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the configuration file, falling back to defaults",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		fmt.Printf(
			"%s deleted config\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringSliceP("key", "k", []string{}, "The configuration keys to restore to their default values")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore all configuration settings to their defaults")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	configResetCmd.MarkFlagsOneRequired("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configResetCmd restores keys to their default values.
var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore configuration keys to their default values",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if lo.Must(cmd.Flags().GetBool("all")) {
			keys = nil
		}

		handleErr(resetValues(keys...))

		if len(keys) == 0 {
			fmt.Printf("%s reset all config values\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		for _, key := range keys {
			fmt.Printf(
				"%s reset %s to default value %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Fg(color.Purple)(key),
				style.Fg(color.Yellow)(fmt.Sprintf("%v", config.Default[key].Value)),
			)
		}
	},
}

func init() {
	configCmd.AddCommand(configEditCmd)
}

// configEditCmd opens the configuration file in the user's editor, writing defaults first if it does not exist.
var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $EDITOR",
	Run: func(cmd *cobra.Command, args []string) {
		exists, err := filesystem.API().Exists(configFile())
		handleErr(err)

		if !exists {
			handleErr(viper.SafeWriteConfig())
		}

		handleErr(open.Edit(configFile()))
	},
}
