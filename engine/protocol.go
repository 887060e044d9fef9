// Package engine drives an external mpv process over its JSON IPC socket.
//
// The protocol carries no request ids, so replies are matched to requests
// purely by order. Everything in this package that talks to the socket goes
// through Dispatcher, which allows a single request in flight at a time.
package engine

import (
	"encoding/json"
)

// Command is a single IPC request: a command name followed by its arguments.
type Command struct {
	Name string
	Args []any
}

// NewCommand builds a Command from a name and its arguments.
func NewCommand(name string, args ...any) Command {
	return Command{Name: name, Args: args}
}

// MarshalJSON encodes the command as {"command": [name, args...]}.
func (c Command) MarshalJSON() ([]byte, error) {
	command := make([]any, 0, len(c.Args)+1)
	command = append(command, c.Name)
	command = append(command, c.Args...)

	return json.Marshal(struct {
		Command []any `json:"command"`
	}{command})
}

// Status classifies a reply.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

// Response is a parsed reply line.
type Response struct {
	Status Status

	// Reason holds the engine's error string when Status is StatusFailure.
	Reason string

	// Data is the decoded "data" member, nil when absent.
	Data any
}

// OK reports whether the engine accepted the command.
func (r Response) OK() bool {
	return r.Status == StatusSuccess
}

// Event is an asynchronous engine notification.
type Event struct {
	// Name is the event kind, e.g. "end-file" or "property-change".
	Name string

	// Property is set for property-change events.
	Property string

	Data any

	// Reason is carried by end-file events ("eof", "stop", "error", ...).
	Reason string
}

// parseReply recognizes a reply line. A reply is a JSON object whose "error"
// member is a string and which has no "event" member; anything else is not a
// reply, even when it happens to carry an "error" key of another type.
func parseReply(line []byte) (Response, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Response{}, false
	}

	if _, isEvent := raw["event"]; isEvent {
		return Response{}, false
	}

	rawStatus, ok := raw["error"]
	if !ok {
		return Response{}, false
	}

	var status string
	if err := json.Unmarshal(rawStatus, &status); err != nil {
		return Response{}, false
	}

	resp := Response{Status: StatusSuccess}
	if status != "success" {
		resp.Status = StatusFailure
		resp.Reason = status
	}

	if rawData, ok := raw["data"]; ok {
		var data any
		if err := json.Unmarshal(rawData, &data); err == nil {
			resp.Data = data
		}
	}

	return resp, true
}

// parseEvent recognizes an event line, the complement of parseReply.
func parseEvent(line []byte) (Event, bool) {
	var msg struct {
		Event  string `json:"event"`
		Name   string `json:"name"`
		Data   any    `json:"data"`
		Reason string `json:"reason"`
	}

	if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" {
		return Event{}, false
	}

	return Event{
		Name:     msg.Event,
		Property: msg.Name,
		Data:     msg.Data,
		Reason:   msg.Reason,
	}, true
}
