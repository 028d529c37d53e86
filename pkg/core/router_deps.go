package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-remote/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-remote/pkg/middleware/ratelimit"
	httpx "github.com/joeydtaylor/steeze-remote/pkg/transport/httpx"
	"github.com/joeydtaylor/steeze-remote/pkg/transport/jsonrpc"
)

type BuildDeps struct {
	Dispatcher *Dispatcher
	LogMW      *logger.Middleware
	Limiter    *ratelimit.Limiter
	Metrics    http.Handler
	Faults     jsonrpc.FaultRecorder
	Collect    func(http.Handler) http.Handler
	Router     httpx.Router
}
