// pkg/keyword/handler.go
package keyword

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Handler is a keyword implementation. Signature describes the positional
// arguments it accepts; Call receives values already marshalled to it.
type Handler interface {
	Signature() Signature
	Call(args []reflect.Value) Outcome
}

// Signature is the expected argument shape of a handler.
type Signature struct {
	Params   []reflect.Type
	Variadic reflect.Type // element type of a trailing ...T, nil if none
}

func (s Signature) MinArgs() int { return len(s.Params) }

// Accepts reports whether n positional arguments fit the signature.
func (s Signature) Accepts(n int) bool {
	if s.Variadic != nil {
		return n >= len(s.Params)
	}
	return n == len(s.Params)
}

func (s Signature) String() string {
	parts := make([]string, 0, len(s.Params)+1)
	for _, p := range s.Params {
		parts = append(parts, p.String())
	}
	if s.Variadic != nil {
		parts = append(parts, "..."+s.Variadic.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

var (
	outcomeType = reflect.TypeOf(Outcome{})
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

type funcHandler struct {
	fn      reflect.Value
	sig     Signature
	withErr bool
}

// Func adapts a Go function into a Handler. Accepted shapes:
//
//	func(T1, ..., Tn) Outcome
//	func(T1, ..., Tn) (Outcome, error)
//
// A trailing variadic parameter is allowed.
func Func(fn any) (Handler, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.New("keyword: handler must be a non-nil func")
	}
	t := v.Type()

	withErr := false
	switch {
	case t.NumOut() == 1 && t.Out(0) == outcomeType:
	case t.NumOut() == 2 && t.Out(0) == outcomeType && t.Out(1) == errorType:
		withErr = true
	default:
		return nil, fmt.Errorf("keyword: %v must return Outcome or (Outcome, error)", t)
	}

	sig := Signature{}
	n := t.NumIn()
	for i := 0; i < n; i++ {
		in := t.In(i)
		if t.IsVariadic() && i == n-1 {
			sig.Variadic = in.Elem()
			break
		}
		sig.Params = append(sig.Params, in)
	}
	return &funcHandler{fn: v, sig: sig, withErr: withErr}, nil
}

// MustFunc is Func for startup wiring; it panics on an invalid shape.
func MustFunc(fn any) Handler {
	h, err := Func(fn)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *funcHandler) Signature() Signature { return h.sig }

func (h *funcHandler) Call(args []reflect.Value) Outcome {
	out := h.fn.Call(args)
	o := out[0].Interface().(Outcome)
	if h.withErr {
		if err, _ := out[1].Interface().(error); err != nil {
			return Fail(o.Output, err.Error(), fmt.Sprintf("%+v", err))
		}
	}
	return o
}
