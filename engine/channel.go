// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sonata-cli/sonata/log"
)

// Channel is a lazily (re)connected client for the engine's IPC socket.
//
// A Channel is not safe for concurrent use; Dispatcher serializes access.
type Channel struct {
	path           string
	connectTimeout time.Duration
	readTimeout    time.Duration

	conn   net.Conn
	reader *bufio.Reader
}

// NewChannel creates a channel for the socket at path. No connection is made
// until Connect or Send is called.
func NewChannel(path string, connectTimeout, readTimeout time.Duration) *Channel {
	return &Channel{
		path:           path,
		connectTimeout: connectTimeout,
		readTimeout:    readTimeout,
	}
}

// Path returns the socket path.
func (c *Channel) Path() string {
	return c.path
}

// Connected reports whether a live connection is held.
func (c *Channel) Connected() bool {
	return c.conn != nil
}

// Connect opens the socket if no connection is held. It does not retry.
func (c *Channel) Connect() error {
	if c.conn != nil {
		return nil
	}

	conn, err := net.DialTimeout("unix", c.path, c.connectTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	log.Debugf("ipc: connected to %s", c.path)
	return nil
}

// Invalidate drops the connection; the next Send reconnects.
func (c *Channel) Invalidate() {
	if c.conn == nil {
		return
	}

	_ = c.conn.Close()
	c.conn = nil
	c.reader = nil
}

// Close releases the connection.
func (c *Channel) Close() {
	c.Invalidate()
}

// Send writes cmd as one JSON line and waits for the matching reply,
// skipping event lines that arrive in between. Write and read share a single
// deadline of readTimeout. Timeouts and I/O errors drop the connection.
func (c *Channel) Send(cmd Command) (Response, error) {
	if err := c.Connect(); err != nil {
		return Response{}, err
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("marshal %s: %w", cmd.Name, err)
	}

	if err := c.conn.SetDeadline(time.Now().Add(c.readTimeout)); err != nil {
		c.Invalidate()
		return Response{}, fmt.Errorf("%w: set deadline: %w", ErrIO, err)
	}

	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		c.Invalidate()
		if isTimeout(err) {
			return Response{}, fmt.Errorf("%w: write %s", ErrTimeout, cmd.Name)
		}
		return Response{}, fmt.Errorf("%w: write %s: %w", ErrIO, cmd.Name, err)
	}

	return c.awaitReply(cmd.Name)
}

func (c *Channel) awaitReply(name string) (Response, error) {
	for {
		line, err := c.reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)

		if err != nil {
			// A reply may be complete but still missing its newline when the
			// deadline fires. The newline that follows later reads as a blank line.
			if resp, ok := parseReply(line); ok {
				if !isTimeout(err) {
					c.Invalidate()
				}
				log.Debugf("ipc: accepted unterminated reply to %s", name)
				return resp, nil
			}

			c.Invalidate()
			if isTimeout(err) {
				return Response{}, fmt.Errorf("%w: %s after %s", ErrTimeout, name, c.readTimeout)
			}
			return Response{}, fmt.Errorf("%w: read %s: %w", ErrIO, name, err)
		}

		if len(line) == 0 {
			continue
		}

		if resp, ok := parseReply(line); ok {
			return resp, nil
		}

		log.Tracef("ipc: skipped %s while awaiting %s", line, name)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
