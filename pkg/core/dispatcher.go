// pkg/core/dispatcher.go
package core

import (
	"context"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
)

const (
	MethodGetKeywordNames = "get_keyword_names"
	MethodRunKeyword      = "run_keyword"
)

// Observer receives per-call measurements. pkg/middleware/metrics provides
// the Prometheus implementation.
type Observer interface {
	KeywordCall(name string, status keyword.Status, took time.Duration)
	Fault(method string, code int)
}

type nopObserver struct{}

func (nopObserver) KeywordCall(string, keyword.Status, time.Duration) {}
func (nopObserver) Fault(string, int)                                {}

// Dispatcher routes decoded RPC calls onto the keyword registry.
// It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	reg *keyword.Registry
	log *zap.Logger
	obs Observer
}

func NewDispatcher(reg *keyword.Registry, log *zap.Logger, obs Observer) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Dispatcher{reg: reg, log: log, obs: obs}
}

// Dispatch resolves one RPC call. The returned error, when set, is always
// a *Fault; keyword failures are returned as a FAIL RemoteResult instead.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, params []any) (any, error) {
	var (
		res any
		f   *Fault
	)
	switch method {
	case MethodGetKeywordNames:
		res = d.reg.Names()
	case MethodRunKeyword:
		res, f = d.runKeyword(ctx, params)
	default:
		f = newFault(FaultUnknownMethod, nil, "method %q not found", method)
	}
	if f != nil {
		d.obs.Fault(method, f.Code)
		d.log.Warn("rpc fault",
			zap.String("method", method),
			zap.String("requestId", chimd.GetReqID(ctx)),
			zap.Int("code", f.Code),
			zap.String("message", f.Message),
		)
		return nil, f
	}
	return res, nil
}

func (d *Dispatcher) runKeyword(ctx context.Context, params []any) (keyword.RemoteResult, *Fault) {
	name, args, f := splitRunKeyword(params)
	if f != nil {
		return nil, f
	}

	h, ok := d.reg.Lookup(name)
	if !ok {
		return nil, newFault(FaultUnknownKeyword, ErrUnknownKeyword, "No keyword with name '%s' found.", name)
	}

	typed, err := keyword.Marshal(name, h.Signature(), args)
	if err != nil {
		return nil, newFault(FaultInvalidParams, err, "%s", err.Error())
	}

	callID := uuid.NewString()
	start := time.Now()
	out := keyword.Invoke(h, typed)
	took := time.Since(start)

	d.obs.KeywordCall(name, out.Status, took)
	fields := []zap.Field{
		zap.String("keyword", name),
		zap.String("callId", callID),
		zap.String("requestId", chimd.GetReqID(ctx)),
		zap.String("status", string(out.Status)),
		zap.Duration("lat", took),
	}
	if out.Passed() {
		d.log.Info("keyword run", fields...)
	} else {
		d.log.Info("keyword run", append(fields, zap.String("error", out.Error))...)
	}
	return keyword.Encode(out), nil
}

// splitRunKeyword validates the (name, args[, kwargs]) envelope.
func splitRunKeyword(params []any) (string, []any, *Fault) {
	if len(params) < 2 || len(params) > 3 {
		return "", nil, newFault(FaultInvalidParams, nil,
			"run_keyword expects (name, args[, kwargs]), got %s", keyword.Shape(params))
	}
	name, ok := params[0].(string)
	if !ok || name == "" {
		return "", nil, newFault(FaultInvalidParams, nil, "keyword name must be a non-empty string")
	}

	var args []any
	switch a := params[1].(type) {
	case nil:
	case []any:
		args = a
	default:
		return "", nil, newFault(FaultInvalidParams, nil, "keyword arguments must be a list, got %s", keyword.Shape(params[1:2]))
	}

	if len(params) == 3 {
		switch kw := params[2].(type) {
		case nil:
		case map[string]any:
			if len(kw) > 0 {
				return "", nil, newFault(FaultInvalidParams, nil, "keyword %q: named arguments are not supported", name)
			}
		default:
			return "", nil, newFault(FaultInvalidParams, nil, "keyword named arguments must be a mapping")
		}
	}
	return name, args, nil
}
