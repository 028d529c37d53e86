// pkg/core/fault.go
package core

import (
	"errors"
	"fmt"
)

// Fault codes. They follow the JSON-RPC reserved range so transports can
// pass them through unchanged.
const (
	FaultUnknownMethod  = -32601
	FaultInvalidParams  = -32602
	FaultUnknownKeyword = -32001
)

var ErrUnknownKeyword = errors.New("unknown keyword")

// Fault is a protocol-level failure: the call could not be dispatched.
type Fault struct {
	Code    int
	Message string
	cause   error
}

func (f *Fault) Error() string { return fmt.Sprintf("fault %d: %s", f.Code, f.Message) }
func (f *Fault) Unwrap() error { return f.cause }

func newFault(code int, cause error, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

// AsFault extracts a *Fault from err, if any.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func (f *Fault) RPCCode() int       { return f.Code }
func (f *Fault) RPCMessage() string { return f.Message }
