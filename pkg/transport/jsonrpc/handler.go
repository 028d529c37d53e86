package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-remote/pkg/codec"
)

// Dispatcher resolves one decoded call.
type Dispatcher interface {
	Dispatch(ctx context.Context, method string, params []any) (any, error)
}

// FaultRecorder counts errors raised before a call reaches the Dispatcher.
type FaultRecorder interface {
	Fault(method string, code int)
}

type Handler struct {
	d     Dispatcher
	log   *zap.Logger
	rec   FaultRecorder
	codec codec.Codec
}

func NewHandler(d Dispatcher, log *zap.Logger, rec FaultRecorder) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{d: d, log: log, rec: rec, codec: codec.JSONStrict}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var req Request
	if err := h.codec.Decode(r.Body, &req); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, codec.ErrTrailingData), errors.As(err, &typeErr):
			h.reject(w, r, req.ID, "", CodeInvalidRequest, "invalid request")
		default:
			h.reject(w, r, nil, "", CodeParseError, "parse error")
		}
		return
	}
	if req.JSONRPC != Version || req.Method == "" {
		h.reject(w, r, req.ID, req.Method, CodeInvalidRequest, "invalid request")
		return
	}

	params, perr := decodeParams(h.codec, req.Params)
	if perr != nil {
		h.reject(w, r, req.ID, req.Method, CodeInvalidParams, perr.Error())
		return
	}

	h.log.Debug("rpc request",
		zap.String("requestId", chimd.GetReqID(r.Context())),
		zap.String("method", req.Method),
		zap.ByteString("rpcId", req.ID),
	)
	result, err := h.d.Dispatch(r.Context(), req.Method, params)
	if req.IsNotification() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.write(w, toErrorResponse(req.ID, err))
		return
	}
	h.write(w, Response{JSONRPC: Version, ID: req.ID, Result: result})
}

// decodeParams accepts a positional array or an absent/null params member.
func decodeParams(c codec.Codec, raw json.RawMessage) ([]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, null) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, errors.New("params must be a positional array")
	}
	var params []any
	if err := c.Decode(bytes.NewReader(trimmed), &params); err != nil {
		return nil, errors.New("params must be a positional array")
	}
	return params, nil
}

func toErrorResponse(id json.RawMessage, err error) Response {
	var c Coder
	if errors.As(err, &c) {
		return errorResponse(id, c.RPCCode(), c.RPCMessage())
	}
	return errorResponse(id, CodeInternalError, err.Error())
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, id json.RawMessage, method string, code int, msg string) {
	if h.rec != nil {
		h.rec.Fault(method, code)
	}
	h.log.Warn("rpc rejected",
		zap.String("requestId", chimd.GetReqID(r.Context())),
		zap.String("method", method),
		zap.Int("code", code),
		zap.String("message", msg),
	)
	h.write(w, errorResponse(id, code, msg))
}

func (h *Handler) write(w http.ResponseWriter, resp Response) {
	b, err := h.codec.Marshal(resp)
	if err != nil {
		h.log.Error("rpc encode", zap.Error(err))
		b, _ = h.codec.Marshal(errorResponse(resp.ID, CodeInternalError, "result is not encodable"))
	}
	w.Header().Set("Content-Type", h.codec.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
