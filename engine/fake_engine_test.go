package engine

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// fakeEngine speaks enough of the IPC protocol to stand in for mpv.
type fakeEngine struct {
	path string
	dir  string
	ln   net.Listener

	mu       sync.Mutex
	props    map[string]any
	failures map[string]string
	commands [][]any
	conns    []net.Conn

	// noise is written before every reply.
	noise []string
	// silent swallows commands without replying.
	silent bool
	// unterminated writes replies without the trailing newline.
	unterminated bool
}

func newFakeEngine() *fakeEngine {
	// Short directory: socket paths are limited to ~100 bytes.
	dir, err := os.MkdirTemp("", "snt")
	if err != nil {
		panic(err)
	}

	path := filepath.Join(dir, "e.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		panic(err)
	}

	f := &fakeEngine{
		path:     path,
		dir:      dir,
		ln:       ln,
		props:    map[string]any{"idle-active": true, "pause": false, "volume": 70.0, "mute": false},
		failures: map[string]string{},
	}

	go f.accept()
	return f
}

func (f *fakeEngine) accept() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}

		f.mu.Lock()
		f.conns = append(f.conns, conn)
		f.mu.Unlock()

		go f.serve(conn)
	}
}

func (f *fakeEngine) serve(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req struct {
			Command []any `json:"command"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil || len(req.Command) == 0 {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		lines := append([]string{}, f.noise...)
		silent, unterminated := f.silent, f.unterminated
		reply := f.respond(req.Command)
		f.mu.Unlock()

		if silent {
			continue
		}

		for _, line := range lines {
			_, _ = conn.Write([]byte(line + "\n"))
		}

		if unterminated {
			_, _ = conn.Write([]byte(reply))
		} else {
			_, _ = conn.Write([]byte(reply + "\n"))
		}
	}
}

// respond must be called with f.mu held.
func (f *fakeEngine) respond(cmd []any) string {
	name, _ := cmd[0].(string)
	prop := ""
	if len(cmd) > 1 {
		prop, _ = cmd[1].(string)
	}

	if reason, ok := f.failures[name+" "+prop]; ok {
		return encode(map[string]any{"error": reason, "request_id": 0})
	}
	if reason, ok := f.failures[name]; ok {
		return encode(map[string]any{"error": reason, "request_id": 0})
	}

	switch name {
	case "get_property":
		v, ok := f.props[prop]
		if !ok {
			return encode(map[string]any{"error": "property unavailable", "request_id": 0})
		}
		return encode(map[string]any{"data": v, "error": "success", "request_id": 0})
	case "set_property":
		if len(cmd) > 2 {
			f.props[prop] = cmd[2]
		}
	case "loadfile":
		f.props["idle-active"] = false
	case "stop":
		f.props["idle-active"] = true
		delete(f.props, "time-pos")
		delete(f.props, "duration")
	case "cycle":
		if paused, ok := f.props["pause"].(bool); ok {
			f.props["pause"] = !paused
		}
	}

	return encode(map[string]any{"error": "success", "request_id": 0})
}

func (f *fakeEngine) set(name string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[name] = value
}

func (f *fakeEngine) unset(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.props, name)
}

func (f *fakeEngine) fail(command, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[command] = reason
}

func (f *fakeEngine) setNoise(lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noise = lines
}

func (f *fakeEngine) setSilent(silent bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.silent = silent
}

func (f *fakeEngine) setUnterminated(unterminated bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unterminated = unterminated
}

// broadcast pushes an unsolicited line to every open connection.
func (f *fakeEngine) broadcast(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, conn := range f.conns {
		_, _ = conn.Write([]byte(line + "\n"))
	}
}

// dropConnections closes every accepted connection, as a crashing engine would.
func (f *fakeEngine) dropConnections() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, conn := range f.conns {
		_ = conn.Close()
	}
	f.conns = nil
}

// sent returns every received command whose name matches.
func (f *fakeEngine) sent(name string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched [][]any
	for _, cmd := range f.commands {
		if cmd[0] == name {
			matched = append(matched, cmd)
		}
	}
	return matched
}

func (f *fakeEngine) connections() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

func (f *fakeEngine) close() {
	_ = f.ln.Close()
	f.dropConnections()
	_ = os.RemoveAll(f.dir)
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
