package logger

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Middleware writes one access line per HTTP request.
type Middleware struct {
	access *zap.Logger

	bodyMu    sync.RWMutex
	bodyPaths map[string]struct{}
}

func NewMiddleware(access *zap.Logger) *Middleware {
	if access == nil {
		access = zap.NewNop()
	}
	return &Middleware{access: access, bodyPaths: make(map[string]struct{})}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

		// Read and RESTORE request body so downstream can consume it
		var body []byte
		if r.Body != nil && m.hasBodyPaths() {
			// Bytes read before an error are replayed too; the error resurfaces
			// downstream from r.Body.
			b, err := io.ReadAll(io.LimitReader(r.Body, 1<<16+1))
			r.Body = readCloser{io.MultiReader(bytes.NewReader(b), r.Body), r.Body}
			if err == nil {
				body = b
			}
		}

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}

		start := time.Now()
		defer func() {
			lat := time.Since(start)
			log := m.access.With(
				zap.String("dateTime", start.UTC().Format(time.RFC1123)),
				zap.String("requestId", chimd.GetReqID(r.Context())),
				zap.String("httpScheme", scheme),
				zap.String("httpProto", r.Proto),
				zap.String("httpMethod", r.Method),
				zap.String("remoteAddr", r.RemoteAddr),
				zap.String("uri", r.URL.Path),
				zap.Duration("lat", lat),
				zap.Int("responseSize", ww.BytesWritten()),
				zap.Int("status", ww.Status()),
			)

			// Redact by default; allowlist small JSON bodies only.
			if m.shouldLogBody(r, body) {
				log.Info("", zap.ByteString("requestData", body))
			} else {
				log.Info("")
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

func (m *Middleware) hasBodyPaths() bool {
	m.bodyMu.RLock()
	defer m.bodyMu.RUnlock()
	return len(m.bodyPaths) > 0
}

type readCloser struct {
	io.Reader
	io.Closer
}
