// pkg/keyword/registry.go
package keyword

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

var ErrInvalidKeyword = errors.New("keyword: name and handler required")

// Builder collects keyword registrations before serving starts.
// It is not safe for concurrent use; freeze it with Build.
type Builder struct {
	log      *zap.Logger
	order    []string
	handlers map[string]Handler
}

func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log, handlers: make(map[string]Handler)}
}

// Register binds name to h. Re-registering a name replaces the previous
// handler in place (its listing position is kept) and reports replaced=true.
// The handler's Signature is read once here and cached.
func (b *Builder) Register(name string, h Handler) (replaced bool, err error) {
	if name == "" || isNil(h) {
		return false, fmt.Errorf("%w (name %q)", ErrInvalidKeyword, name)
	}
	sig, err := signatureOf(h)
	if err != nil {
		return false, fmt.Errorf("%w (name %q): %v", ErrInvalidKeyword, name, err)
	}
	if _, replaced = b.handlers[name]; replaced {
		b.log.Warn("keyword replaced", zap.String("keyword", name))
	} else {
		b.order = append(b.order, name)
	}
	b.handlers[name] = boundHandler{Handler: h, sig: sig}
	return replaced, nil
}

func isNil(h Handler) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func signatureOf(h Handler) (sig Signature, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("signature panicked: %v", r)
		}
	}()
	return h.Signature(), nil
}

type boundHandler struct {
	Handler
	sig Signature
}

func (b boundHandler) Signature() Signature { return b.sig }

// RegisterFunc adapts fn with Func and registers it.
func (b *Builder) RegisterFunc(name string, fn any) (bool, error) {
	h, err := Func(fn)
	if err != nil {
		return false, fmt.Errorf("keyword %q: %w", name, err)
	}
	return b.Register(name, h)
}

// Build freezes the current registrations into a read-only Registry.
func (b *Builder) Build() *Registry {
	r := &Registry{
		order:    append([]string(nil), b.order...),
		handlers: make(map[string]Handler, len(b.handlers)),
	}
	for k, v := range b.handlers {
		r.handlers[k] = v
	}
	return r
}

// Registry is an immutable keyword table, safe for concurrent readers.
type Registry struct {
	order    []string
	handlers map[string]Handler
}

// Names returns keyword names in registration order, never nil.
func (r *Registry) Names() []string {
	return append(make([]string, 0, len(r.order)), r.order...)
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

func (r *Registry) Len() int { return len(r.order) }
