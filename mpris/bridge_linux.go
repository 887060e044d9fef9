//go:build linux

// Package mpris exposes playback to desktop media controls over D-Bus.
package mpris

import (
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sonata-cli/sonata/log"
)

// Bridge owns the MPRIS bus name and forwards incoming calls to a Handler.
type Bridge struct {
	conn    *dbus.Conn
	handler Handler

	mu        sync.Mutex
	state     State
	updatedAt time.Time
}

// New claims the MPRIS name on the session bus.
func New(handler Handler) (*Bridge, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("request bus name: %w", err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return nil, fmt.Errorf("bus name %s already taken", busName)
	}

	b := &Bridge{
		conn:      conn,
		handler:   handler,
		state:     State{Status: StatusStopped},
		updatedAt: time.Now(),
	}

	for _, iface := range []string{rootInterface, playerInterface, propertiesInterface} {
		if err := conn.Export(b, objectPath, iface); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("export %s: %w", iface, err)
		}
	}

	log.Infof("mpris: registered as %s", busName)
	return b, nil
}

// Update publishes state, emitting PropertiesChanged for what changed and
// Seeked when the position jumped.
func (b *Bridge) Update(state State) error {
	b.mu.Lock()
	old, elapsed := b.state, time.Since(b.updatedAt)
	b.state = state
	b.updatedAt = time.Now()
	b.mu.Unlock()

	if seeked(old, state, elapsed) {
		if err := b.conn.Emit(objectPath, playerInterface+".Seeked", state.Position.Microseconds()); err != nil {
			return err
		}
	}

	props := changed(old, state)
	if len(props) == 0 {
		return nil
	}

	return b.conn.Emit(objectPath, propertiesInterface+".PropertiesChanged", playerInterface, props, []string{})
}

// Close releases the bus name and connection.
func (b *Bridge) Close() error {
	_, _ = b.conn.ReleaseName(busName)
	return b.conn.Close()
}

func (b *Bridge) current() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// org.mpris.MediaPlayer2

func (b *Bridge) Raise() *dbus.Error { return nil }
func (b *Bridge) Quit() *dbus.Error  { return nil }

// org.mpris.MediaPlayer2.Player

func (b *Bridge) Play() *dbus.Error {
	b.handler.Play()
	return nil
}

func (b *Bridge) Pause() *dbus.Error {
	b.handler.Pause()
	return nil
}

func (b *Bridge) PlayPause() *dbus.Error {
	b.handler.PlayPause()
	return nil
}

func (b *Bridge) Stop() *dbus.Error {
	b.handler.Stop()
	return nil
}

func (b *Bridge) Next() *dbus.Error {
	b.handler.Next()
	return nil
}

func (b *Bridge) Previous() *dbus.Error {
	b.handler.Previous()
	return nil
}

func (b *Bridge) Seek(offset int64) *dbus.Error {
	b.handler.Seek(time.Duration(offset) * time.Microsecond)
	return nil
}

func (b *Bridge) SetPosition(track dbus.ObjectPath, position int64) *dbus.Error {
	if track != trackID(b.current().Track) {
		return nil
	}
	b.handler.SetPosition(time.Duration(position) * time.Microsecond)
	return nil
}

// org.freedesktop.DBus.Properties

func (b *Bridge) Get(iface, prop string) (dbus.Variant, *dbus.Error) {
	all, err := b.GetAll(iface)
	if err != nil {
		return dbus.Variant{}, err
	}

	v, ok := all[prop]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("unknown property: %s", prop))
	}
	return v, nil
}

func (b *Bridge) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	switch iface {
	case rootInterface:
		return rootProperties(), nil
	case playerInterface:
		return b.current().playerProperties(), nil
	}
	return nil, dbus.MakeFailedError(fmt.Errorf("unknown interface: %s", iface))
}

func (b *Bridge) Set(iface, prop string, value dbus.Variant) *dbus.Error {
	return dbus.MakeFailedError(fmt.Errorf("property %s.%s is read-only", iface, prop))
}
