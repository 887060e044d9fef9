// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/log"
)

// Supervisor owns the engine subprocess. Start and Terminate are serialized
// against each other; Running and Exited only take the short field lock and
// never wait on the process.
type Supervisor struct {
	opts Options

	lifecycle sync.Mutex

	mu     sync.Mutex
	cmd    *exec.Cmd
	exited chan struct{} // closed when the process has been reaped
}

// NewSupervisor creates a supervisor; nothing is spawned until Start.
func NewSupervisor(opts Options) *Supervisor {
	return &Supervisor{opts: opts}
}

// Args returns the engine command line (without the binary).
func (s *Supervisor) Args() []string {
	args := []string{
		"--idle=yes",
		"--no-video",
		"--force-window=no",
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + s.opts.SocketPath,
		fmt.Sprintf("--volume=%d", lo.Clamp(s.opts.Volume, 0, 100)),
		fmt.Sprintf("--audio-buffer=%d", s.opts.AudioBuffer),
		"--cache=yes",
		fmt.Sprintf("--demuxer-readahead-secs=%d", s.opts.ReadaheadSecs),
	}

	if s.opts.ReadaheadBytes != "" {
		args = append(args, "--demuxer-max-bytes="+s.opts.ReadaheadBytes)
	}

	if s.opts.Gapless {
		args = append(args, "--gapless-audio=yes")
	} else {
		args = append(args, "--gapless-audio=no")
	}

	return args
}

func (s *Supervisor) process() (*exec.Cmd, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd, s.exited
}

func alive(cmd *exec.Cmd, exited <-chan struct{}) bool {
	if cmd == nil {
		return false
	}

	select {
	case <-exited:
		return false
	default:
		return true
	}
}

// Running reports whether a spawned engine is still alive.
func (s *Supervisor) Running() bool {
	return alive(s.process())
}

// Exited returns a channel closed when the current engine process exits.
// It is nil before the first Start.
func (s *Supervisor) Exited() <-chan struct{} {
	_, exited := s.process()
	return exited
}

// Start spawns the engine unless one is already running, then waits for its
// socket to appear. A socket that never appears is logged, not returned:
// later commands will fail to connect and report it themselves.
func (s *Supervisor) Start() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.Running() {
		return nil
	}

	s.removeSocket()

	cmd := exec.Command(s.opts.Binary, s.Args()...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	log.Debugf("spawning %s %s", s.opts.Binary, strings.Join(cmd.Args[1:], " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEngineNotFound, s.opts.Binary, err)
	}

	exited := make(chan struct{})
	s.mu.Lock()
	s.cmd = cmd
	s.exited = exited
	s.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := s.waitForSocket(exited); err != nil {
		log.Warnf("engine started without a usable socket: %v", err)
	}

	return nil
}

func (s *Supervisor) waitForSocket(exited <-chan struct{}) error {
	for i := 0; i < s.opts.SocketWaitRetries; i++ {
		if _, err := os.Stat(s.opts.SocketPath); err == nil {
			return nil
		}

		select {
		case <-exited:
			return errors.New("engine exited before its socket appeared")
		case <-time.After(s.opts.SocketWaitDelay):
		}
	}

	return fmt.Errorf("socket %s not present after %d attempts", s.opts.SocketPath, s.opts.SocketWaitRetries)
}

// Terminate asks the engine to exit, kills it after ShutdownTimeout, and
// removes the socket file. It is safe to call repeatedly and before Start.
func (s *Supervisor) Terminate() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	cmd, exited := s.process()
	if alive(cmd, exited) {
		if err := terminateProcess(cmd); err != nil {
			log.Debugf("terminate engine: %v", err)
		}

		if !waitExit(exited, s.opts.ShutdownTimeout) {
			log.Warnf("engine still running after %s, killing it", s.opts.ShutdownTimeout)
			_ = killProcess(cmd)
			waitExit(exited, s.opts.ShutdownTimeout)
		}
	}

	s.mu.Lock()
	s.cmd = nil
	s.mu.Unlock()

	s.removeSocket()
}

func waitExit(exited <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-exited:
		return true
	case <-time.After(timeout):
		return false
	}
}

// removeSocket deletes a leftover socket file. The socket is a kernel object
// created by the engine, so this goes to the OS directly rather than through
// the swappable filesystem backend.
func (s *Supervisor) removeSocket() {
	if s.opts.SocketPath == "" {
		return
	}

	if err := os.Remove(s.opts.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("remove socket %s: %v", s.opts.SocketPath, err)
	}
}
