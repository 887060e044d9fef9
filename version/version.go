// Package version compares semantic versions and inspects the installed engine.
package version

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

// MinEngine is the oldest engine release whose IPC reports idle-active.
const MinEngine = "0.33.0"

var enginePattern = regexp.MustCompile(`(?m)^mpv\s+v?(\d+\.\d+\.\d+)`)

// ParseEngine extracts the release from the first line of `mpv --version`.
func ParseEngine(output string) (string, error) {
	match := enginePattern.FindStringSubmatch(output)
	if match == nil {
		return "", errors.New("unrecognized engine version output")
	}
	return match[1], nil
}

// Engine runs binary --version and returns its release.
func Engine(binary string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", binary, err)
	}

	return ParseEngine(string(out))
}

// Supported reports whether release is at least MinEngine. Releases that
// cannot be parsed, such as git builds, are assumed to be supported.
func Supported(release string) bool {
	cmp, err := Compare(release, MinEngine)
	return err != nil || cmp >= 0
}
