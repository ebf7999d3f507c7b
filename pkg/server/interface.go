/*
Package server exposes a Composer over msgpack IPC on stdin/stdout.

A host editor that is not written in Go drives the engine through this
package: it forwards its buffer changes and popup keys as requests and
renders from the state carried back in every response.

# IPC

Clients write a stream of msgpack maps to stdin and read one response map per
request from stdout. Every request has an ID and an op:

	{"id": "1", "op": "edit", "pt": "", "pc": 0, "t": "al", "c": 2}
	{"id": "2", "op": "next"}
	{"id": "3", "op": "accept"}

Each response carries the full buffer state, so the client never has to
replay the engine's logic:

	{"id": "3", "status": "ok", "t": "alpha", "c": 5,
	 "e": [{"ty": "key", "id": "alpha", "s": 0, "e": 5}], "us": 41}

When a popup is open the response also has "s" with the ranked candidates,
the highlighted index and the anchor offset of the completed word.

Offsets are byte offsets into the UTF-8 text.

# Ops

	edit     buffer changed; "t" and "c" are required, "pt"/"pc" optional
	cursor   caret moved to "c"
	next     highlight the next candidate
	prev     highlight the previous candidate
	accept   apply the highlighted candidate
	pick     apply candidate "k"
	cancel   close the popup
	reset    replace the buffer with "t" and drop all entities
	refresh  re-fetch the key catalog
	state    no-op, returns the current state
	health   returns status and catalog size

A command that had nothing to act on, such as next without a popup, answers
with status "noop". Unknown ops and malformed frames answer with status
"error" and code 400. The server exits cleanly when stdin is closed.

Logs go to stderr; stdout only ever carries msgpack frames.
*/
package server

import (
	"github.com/bastiangx/keymark/pkg/entity"
)

// Request is one client message.
type Request struct {
	ID         string  `msgpack:"id"`
	Op         string  `msgpack:"op"`
	PrevText   *string `msgpack:"pt,omitempty"`
	PrevCursor *int    `msgpack:"pc,omitempty"`
	Text       string  `msgpack:"t,omitempty"`
	Cursor     *int    `msgpack:"c,omitempty"`
	Key        string  `msgpack:"k,omitempty"`
}

// Suggestion is one ranked candidate. Rank 1 is the first candidate.
type Suggestion struct {
	Word string `msgpack:"w"`
	Rank int    `msgpack:"r"`
}

// SessionInfo describes an open popup.
type SessionInfo struct {
	Matches  []Suggestion `msgpack:"m"`
	Selected int          `msgpack:"sel"`
	Anchor   int          `msgpack:"a"`
	Prefix   string       `msgpack:"p"`
	Tier     string       `msgpack:"tr"`
}

// Response answers a Request with the resulting buffer state.
type Response struct {
	ID        string          `msgpack:"id"`
	Status    string          `msgpack:"status"`
	Text      string          `msgpack:"t"`
	Cursor    int             `msgpack:"c"`
	Entities  []entity.Entity `msgpack:"e"`
	Session   *SessionInfo    `msgpack:"s,omitempty"`
	Keys      int             `msgpack:"k,omitempty"`
	TimeTaken int64           `msgpack:"us"`
	Error     string          `msgpack:"error,omitempty"`
	Code      int             `msgpack:"code,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusNoop  = "noop"
	StatusError = "error"
	StatusReady = "ready"
)
