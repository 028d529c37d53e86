package core

import (
	"context"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	manifest "github.com/joeydtaylor/steeze-remote/pkg/manifest"
	httpx "github.com/joeydtaylor/steeze-remote/pkg/transport/httpx"
	"github.com/joeydtaylor/steeze-remote/pkg/transport/jsonrpc"
)

// BuildRouter mounts the RPC endpoint at cfg.Server.Path plus /metrics and /ping.
func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	r := d.Router
	if r == nil {
		r = httpx.NewChi()
	}
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware)
	}
	if d.Collect != nil {
		r.Use(d.Collect)
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}

	var rpc http.Handler = jsonrpc.NewHandler(d.Dispatcher, d.Dispatcher.log.Named("rpc"), d.Faults)
	if t := cfg.Server.WriteTimeout(); t > 0 {
		rpc = withTimeout(rpc, t)
	}
	rpc = d.Limiter.Middleware(rpc)
	r.Post(cfg.Server.Path, rpc)

	d.Dispatcher.log.Info("rpc endpoint mounted",
		zap.String("path", cfg.Server.Path),
		zap.Int("keywords", d.Dispatcher.reg.Len()),
		zap.Bool("rateLimit", d.Limiter != nil),
	)
	return r.Mux()
}

func withTimeout(next http.Handler, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
