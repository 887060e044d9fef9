// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/color"
	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/key"
	"github.com/sonata-cli/sonata/style"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Sonata + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.EngineBinary, "mpv", "Playback engine executable.\nLooked up in PATH unless an absolute path is given")
	register(key.EngineVolume, 70, "Initial engine volume, from 0 to 100")
	register(key.EngineAudioBuffer, 2, "Audio output buffer in seconds.\nLarger values resist underruns on slow hardware")
	register(key.EngineReadaheadSecs, 20, "Demuxer read-ahead in seconds")
	register(key.EngineReadaheadBytes, "64MiB", "Upper bound for the demuxer read-ahead cache")
	register(key.EngineGapless, true, "Enable gapless transitions between tracks")
	register(key.EngineSocketWaitRetries, 50, "How many times to look for the IPC socket after spawning the engine")
	register(key.EngineSocketWaitDelay, 100, "Delay between IPC socket checks, in milliseconds")
	register(key.EngineShutdownTimeout, 3000, "Grace period for the engine to exit before it is killed, in milliseconds")
	register(key.EngineLoadGrace, 3000, "How long an idle report is ignored right after loading a file, in milliseconds")
	register(key.IPCConnectTimeout, 2000, "IPC connect timeout, in milliseconds")
	register(key.IPCReadTimeout, 2000, "IPC reply timeout, in milliseconds")
	register(key.PlayerTick, 250, "Interval between state polls, in milliseconds")
	register(key.PlayerSeekStep, 5, "Seek step in seconds for the arrow keys")
	register(key.PlayerVolumeStep, 5, "Volume step for the +/- keys")
	register(key.HistorySave, true, "Record played tracks in the history")
	register(key.MPRISEnable, true, "Expose playback controls over MPRIS (Linux only)")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
