// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"errors"
	"sync"

	"github.com/sonata-cli/sonata/log"
)

// Dispatcher turns domain calls into commands on a Channel. Its mutex spans
// the whole write-then-read exchange, so exactly one request is ever in
// flight and event lines can be discarded without ambiguity.
type Dispatcher struct {
	mu      sync.Mutex
	channel *Channel
}

// NewDispatcher wraps channel.
func NewDispatcher(channel *Channel) *Dispatcher {
	return &Dispatcher{channel: channel}
}

// Exec sends a command and returns the reply data. A rejected command yields a *CommandError.
func (d *Dispatcher) Exec(name string, args ...any) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	resp, err := d.channel.Send(NewCommand(name, args...))
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, &CommandError{Command: name, Reason: resp.Reason}
	}

	return resp.Data, nil
}

// GetProperty returns the property value and true on success.
func (d *Dispatcher) GetProperty(name string) (any, bool) {
	data, err := d.Exec("get_property", name)
	if err != nil {
		logFailure("get_property "+name, err)
		return nil, false
	}
	return data, true
}

// GetProperties fetches names in order and returns the values it got. A
// property the engine rejects is left out and the rest are still fetched.
// A timeout or connection failure ends the poll there: the channel is
// already invalidated and every later request would only wait again.
func (d *Dispatcher) GetProperties(names ...string) map[string]any {
	values := make(map[string]any, len(names))

	for _, name := range names {
		data, err := d.Exec("get_property", name)
		if err == nil {
			values[name] = data
			continue
		}

		logFailure("get_property "+name, err)

		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			return values
		}
	}

	return values
}

// SetProperty reports whether the engine accepted the new value.
func (d *Dispatcher) SetProperty(name string, value any) bool {
	if _, err := d.Exec("set_property", name, value); err != nil {
		logFailure("set_property "+name, err)
		return false
	}
	return true
}

// Command sends a fire-and-forget command. Any non-error reply counts as
// success, with or without data.
func (d *Dispatcher) Command(name string, args ...any) bool {
	if _, err := d.Exec(name, args...); err != nil {
		logFailure(name, err)
		return false
	}
	return true
}

// Connect opens the channel if needed.
func (d *Dispatcher) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channel.Connect()
}

// Connected reports whether the channel holds a live connection.
func (d *Dispatcher) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channel.Connected()
}

// Invalidate drops the live connection; the next call reconnects.
func (d *Dispatcher) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channel.Invalidate()
}

// Close releases the connection.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channel.Close()
}

func logFailure(what string, err error) {
	var cmdErr *CommandError
	switch {
	case errors.As(err, &cmdErr):
		log.Debugf("engine rejected %s: %s", what, cmdErr.Reason)
	case errors.Is(err, ErrUnavailable):
		log.Debugf("engine unavailable for %s: %v", what, err)
	default:
		log.Warnf("%s failed: %v", what, err)
	}
}
