package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Validate normalizes the manifest in place and rejects invalid values.
func (c *Config) Validate() error {
	if err := c.Server.normalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	if err := c.Logging.validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Library.validate(); err != nil {
		return fmt.Errorf("library: %w", err)
	}
	return nil
}

func (s *Server) normalize() error {
	s.Listen = strings.TrimSpace(s.Listen)
	if s.Listen == "" {
		return errors.New("listen is required")
	}
	s.Path = strings.TrimSpace(s.Path)
	if s.Path == "" {
		s.Path = DefaultPath
	}
	if !strings.HasPrefix(s.Path, "/") {
		s.Path = "/" + s.Path
	}
	if s.Path != "/" {
		s.Path = path.Clean(s.Path)
	}
	switch s.Path {
	case "/metrics", "/ping":
		return fmt.Errorf("path %q is reserved", s.Path)
	}
	if (s.TLSCert == "") != (s.TLSKey == "") {
		return errors.New("tls_cert and tls_key must be set together")
	}
	if s.ReadTimeoutMS < 0 || s.WriteTimeoutMS < 0 || s.IdleTimeoutMS < 0 {
		return errors.New("timeouts must be >= 0")
	}
	return nil
}

func (r *RateLimit) validate() error {
	if !r.Enabled {
		return nil
	}
	if r.RPS <= 0 {
		return errors.New("rps must be > 0 when enabled")
	}
	if r.Burst <= 0 {
		return errors.New("burst must be > 0 when enabled")
	}
	return nil
}

func (l *Logging) validate() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return err
	}
	return nil
}

// ZapLevel returns the parsed level; call after Validate.
func (l Logging) ZapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func (l *Library) validate() error {
	if l.MaxDirectoryEntries < 0 {
		return errors.New("max_directory_entries must be >= 0")
	}
	seen := make(map[string]struct{}, len(l.Disabled))
	for i, n := range l.Disabled {
		if n == "" {
			return fmt.Errorf("disabled[%d] is empty", i)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("disabled keyword %q listed twice", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}
