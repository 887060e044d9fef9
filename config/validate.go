// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/sonata-cli/sonata/icon"
	"github.com/sonata-cli/sonata/key"
)

// rule checks a value that already has the field's type.
type rule func(v any) error

func intRange(lo, hi int) rule {
	return func(v any) error {
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("expected an integer, got %T", v)
		}
		if n < lo || n > hi {
			return fmt.Errorf("%d is outside %d..%d", n, lo, hi)
		}
		return nil
	}
}

func positive(v any) error {
	n, ok := v.(int)
	if !ok {
		return fmt.Errorf("expected an integer, got %T", v)
	}
	if n <= 0 {
		return fmt.Errorf("%d must be greater than zero", n)
	}
	return nil
}

func nonNegative(v any) error {
	n, ok := v.(int)
	if !ok {
		return fmt.Errorf("expected an integer, got %T", v)
	}
	if n < 0 {
		return fmt.Errorf("%d must not be negative", n)
	}
	return nil
}

func nonEmpty(v any) error {
	if s, _ := v.(string); s == "" {
		return fmt.Errorf("value must not be empty")
	}
	return nil
}

func oneOf(options ...string) rule {
	return func(v any) error {
		s, _ := v.(string)
		if !slices.Contains(options, s) {
			return fmt.Errorf("%q is not one of %v", s, options)
		}
		return nil
	}
}

func logLevel(v any) error {
	s, _ := v.(string)
	_, err := logrus.ParseLevel(s)
	return err
}

// rules holds the constraints the engine and the interface rely on.
// Keys without a rule accept any value of the right type.
var rules = map[string]rule{
	key.EngineBinary:            nonEmpty,
	key.EngineVolume:            intRange(0, 100),
	key.EngineAudioBuffer:       nonNegative,
	key.EngineReadaheadSecs:     nonNegative,
	key.EngineSocketWaitRetries: positive,
	key.EngineSocketWaitDelay:   positive,
	key.EngineShutdownTimeout:   positive,
	key.EngineLoadGrace:         nonNegative,
	key.IPCConnectTimeout:       positive,
	key.IPCReadTimeout:          positive,
	key.PlayerTick:              positive,
	key.PlayerSeekStep:          positive,
	key.PlayerVolumeStep:        intRange(1, 100),
	key.IconsVariant:            oneOf(icon.AvailableVariants()...),
	key.LogsLevel:               logLevel,
}

// Validate reports whether value is acceptable for the registered key k.
func Validate(k string, value any) error {
	field, ok := Default[k]
	if !ok {
		return fmt.Errorf("unknown key %s", k)
	}

	if want, got := fmt.Sprintf("%T", field.Value), fmt.Sprintf("%T", value); want != got {
		return fmt.Errorf("%s: expected %s, got %s", k, want, got)
	}

	if check, ok := rules[k]; ok {
		if err := check(value); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}

	return nil
}
