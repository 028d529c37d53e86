package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func ensureLogDir(dir string) string {
	if dir == "" {
		dir = "log"
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// NewLog writes JSON lines to dir/name (rotated) and to stdout.
func NewLog(dir, name string, level zapcore.Level) *zap.Logger {
	return newLog(dir, name, level, zap.NewProductionEncoderConfig())
}

// newAccessLog omits the message key; access lines are all fields.
func newAccessLog(dir string) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = zapcore.OmitKey
	return newLog(dir, "http-access.log", zap.InfoLevel, cfg)
}

func newLog(dir, name string, level zapcore.Level, cfg zapcore.EncoderConfig) *zap.Logger {
	dir = ensureLogDir(dir)
	console := zapcore.Lock(os.Stdout)

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, level),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), console, level),
	)
	return zap.New(core)
}
