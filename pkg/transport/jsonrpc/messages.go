// Package jsonrpc serves a Dispatcher over JSON-RPC 2.0 on HTTP POST.
package jsonrpc

import (
	"encoding/json"
)

const Version = "2.0"

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

const MaxBodyBytes int64 = 1 << 20 // 1 MiB

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports a request without an id; it gets no response body.
func (r Request) IsNotification() bool { return len(r.ID) == 0 }

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Coder is implemented by dispatch errors that map onto a JSON-RPC error.
type Coder interface {
	error
	RPCCode() int
	RPCMessage() string
}

var null = json.RawMessage("null")

func errorResponse(id json.RawMessage, code int, msg string) Response {
	if len(id) == 0 {
		id = null
	}
	return Response{JSONRPC: Version, ID: id, Error: &Error{Code: code, Message: msg}}
}
