// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineNotFound means the engine binary could not be spawned.
	ErrEngineNotFound = errors.New("engine not found")

	// ErrUnavailable means the IPC socket is missing or refused the connection.
	ErrUnavailable = errors.New("engine socket unavailable")

	// ErrTimeout means no reply arrived within the read timeout.
	ErrTimeout = errors.New("engine reply timed out")

	// ErrIO means the connection failed mid-exchange.
	ErrIO = errors.New("engine connection failed")
)

// CommandError is returned when the engine understood a command but rejected it.
type CommandError struct {
	Command string
	Reason  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}
