// Package filesystem provides a swappable afero backend for every file access the player makes.
//
// Production code runs on the OS filesystem; tests switch to an in-memory backend.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// IsFile reports whether path names an existing non-directory entry.
// Lookup errors are reported as false.
func IsFile(path string) bool {
	info, err := backend.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
