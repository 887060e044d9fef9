package history

import (
	"fmt"
	"time"

	"github.com/sonata-cli/sonata/engine"
)

// Entry is a single played track preserved in the user's history.
type Entry struct {
	Path       string    `json:"path"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist,omitempty"`
	Album      string    `json:"album,omitempty"`
	Plays      int       `json:"plays"`
	LastPlayed time.Time `json:"last_played"`
}

func (e *Entry) encode() string {
	return e.Path
}

func (e *Entry) String() string {
	if e.Artist == "" {
		return e.Title
	}
	return fmt.Sprintf("%s - %s", e.Artist, e.Title)
}

func newEntry(path string, meta engine.Metadata) *Entry {
	return &Entry{
		Path:   path,
		Title:  meta.Title,
		Artist: meta.Artist,
		Album:  meta.Album,
	}
}
