// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sonata-cli/sonata/log"
)

// observed lists the properties an EventListener subscribes to.
var observed = []string{"pause", "idle-active", "metadata"}

// EventListener follows the engine's event stream on a dedicated connection.
// It never writes to the command connection, so it cannot disturb the
// request/reply pairing there.
type EventListener struct {
	socketPath string
	timeout    time.Duration
	callback   func(Event)

	mu        sync.Mutex
	conn      net.Conn
	stopCh    chan struct{}
	done      chan struct{}
	listening bool
}

// NewEventListener creates a listener for socketPath.
func NewEventListener(socketPath string, timeout time.Duration, callback func(Event)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		timeout:    timeout,
		callback:   callback,
	}
}

// Start connects, subscribes to property changes, and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.DialTimeout("unix", el.socketPath, el.timeout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	// Observers are per connection, so they must be registered on this one.
	// Their replies come back through the read loop and are dropped there.
	for i, name := range observed {
		payload, err := json.Marshal(NewCommand("observe_property", i+1, name))
		if err != nil {
			_ = conn.Close()
			return err
		}

		_ = conn.SetWriteDeadline(time.Now().Add(el.timeout))
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("%w: observe %s: %w", ErrIO, name, err)
		}
	}

	el.conn = conn
	el.stopCh = make(chan struct{})
	el.done = make(chan struct{})
	el.listening = true

	go el.readLoop(conn, el.stopCh, el.done)

	log.Infof("event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to return.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}

	close(el.stopCh)
	_ = el.conn.Close()
	el.listening = false
	done := el.done
	el.mu.Unlock()

	<-done
}

// Listening reports whether the read loop is running.
func (el *EventListener) Listening() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.listening
}

func (el *EventListener) readLoop(conn net.Conn, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		el.mu.Lock()
		if el.conn == conn {
			el.listening = false
		}
		el.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if event, ok := parseEvent(scanner.Bytes()); ok && el.callback != nil {
			el.callback(event)
		}
	}

	select {
	case <-stop:
	default:
		if err := scanner.Err(); err != nil {
			log.Warnf("event listener read error: %v", err)
		} else {
			log.Infof("event listener: engine closed the connection")
		}
	}
}
