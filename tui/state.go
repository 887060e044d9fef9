// Package tui provides the now-playing terminal interface.
package tui

type state int

const (
	playingState state = iota
	finishedState
	errorState
)
