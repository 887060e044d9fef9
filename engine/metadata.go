// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Metadata is the normalized tag set shown to users.
type Metadata struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// AudioInfo holds human-readable stream parameters. Fields the engine could
// not report are absent rather than zero.
type AudioInfo struct {
	Format     mo.Option[string]
	Bitrate    mo.Option[string]
	SampleRate mo.Option[string]
}

// Fields returns the present values keyed by name.
func (a AudioInfo) Fields() map[string]string {
	fields := make(map[string]string, 3)
	if v, ok := a.Format.Get(); ok {
		fields["format"] = v
	}
	if v, ok := a.Bitrate.Get(); ok {
		fields["bitrate"] = v
	}
	if v, ok := a.SampleRate.Get(); ok {
		fields["samplerate"] = v
	}
	return fields
}

// String joins the present values, e.g. "FLAC · 921 kbps · 44100 Hz".
func (a AudioInfo) String() string {
	parts := lo.Compact([]string{
		a.Format.OrEmpty(),
		a.Bitrate.OrEmpty(),
		a.SampleRate.OrEmpty(),
	})
	return strings.Join(parts, " · ")
}

// formatMetadata picks title, artist and album out of tags regardless of key
// case. Streams often only carry icy-title. Without any title the file's
// base name is used.
func formatMetadata(tags map[string]string, file string) Metadata {
	keys := lo.Keys(tags)
	slices.Sort(keys)

	lookup := func(names ...string) string {
		for _, name := range names {
			for _, k := range keys {
				if strings.EqualFold(k, name) {
					if v := strings.TrimSpace(tags[k]); v != "" {
						return v
					}
				}
			}
		}
		return ""
	}

	meta := Metadata{
		Title:  lookup("title", "icy-title"),
		Artist: lookup("artist", "album_artist", "icy-name"),
		Album:  lookup("album"),
	}

	if meta.Title == "" && file != "" {
		meta.Title = filepath.Base(file)
	}

	return meta
}

func formatAudioInfo(codec, bitrate, samplerate any) AudioInfo {
	var info AudioInfo

	if name, ok := codec.(string); ok && strings.TrimSpace(name) != "" {
		info.Format = mo.Some(strings.ToUpper(strings.TrimSpace(name)))
	}

	if bps, ok := bitrate.(float64); ok && bps > 0 {
		info.Bitrate = mo.Some(fmt.Sprintf("%d kbps", int(math.Round(bps/1000))))
	}

	if hz, ok := samplerate.(float64); ok && hz > 0 {
		info.SampleRate = mo.Some(fmt.Sprintf("%d Hz", int(hz)))
	}

	return info
}

// sanitizeMediaTarget validates a path or URL before it reaches the engine.
func sanitizeMediaTarget(target string) (string, error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return "", errors.New("empty path")
	}

	if strings.ContainsAny(t, "\x00\n\r") {
		return "", errors.New("invalid control characters in path")
	}

	if strings.Contains(t, "://") {
		u, err := url.Parse(t)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return t, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(t), nil
}

func isStream(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
