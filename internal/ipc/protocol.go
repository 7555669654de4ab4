package ipc

import "errors"

// Commands understood by a running daemon.
const (
	CommandStatus = "status"
	CommandSay    = "say"
)

// maxRequestBytes bounds one request; utterances are a handful of words.
const maxRequestBytes = 64 << 10

var errMissingCommand = errors.New("missing command")

// Request is one JSON message sent to the daemon over the control socket.
type Request struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
}

func (r Request) validate() error {
	if r.Command == "" {
		return errMissingCommand
	}
	return nil
}

// Response answers exactly one Request. State is the daemon's lock/mode pair.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failure(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
