// bundlefx/bundlefx.go
package bundlefx

import (
	"go.uber.org/fx"

	manifest "github.com/joeydtaylor/steeze-remote/pkg/manifest"
	"github.com/joeydtaylor/steeze-remote/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-remote/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-remote/pkg/middleware/ratelimit"
)

func provideLimiter(cfg manifest.Config) *ratelimit.Limiter { return ratelimit.New(cfg.RateLimit) }

// Module provided to fx; it needs a manifest.Config in the graph.
var Module = fx.Options(
	logger.Module,
	metrics.Module,
	fx.Provide(provideLimiter),
)
