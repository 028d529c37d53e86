package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	manifest "github.com/joeydtaylor/steeze-remote/pkg/manifest"
)

// ProvideLoggerMiddleware logs request bodies on the RPC path only at debug level.
func ProvideLoggerMiddleware(cfg manifest.Config) *Middleware {
	m := NewMiddleware(newAccessLog(cfg.Logging.Dir))
	if cfg.Logging.ZapLevel() == zapcore.DebugLevel {
		m.AllowBodies(cfg.Server.Path)
	}
	return m
}

func ProvideLogger(cfg manifest.Config) *zap.Logger {
	return NewLog(cfg.Logging.Dir, "system.log", cfg.Logging.ZapLevel())
}
