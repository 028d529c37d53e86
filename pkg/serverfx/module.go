package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-remote/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-remote/pkg/core"
	"github.com/joeydtaylor/steeze-remote/pkg/keyword"
	"github.com/joeydtaylor/steeze-remote/pkg/keywords"
	"github.com/joeydtaylor/steeze-remote/pkg/manifest"
	"github.com/joeydtaylor/steeze-remote/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-remote/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-remote/pkg/middleware/ratelimit"
	"github.com/joeydtaylor/steeze-remote/pkg/transport/httpx"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only
	ManifestPath    string // explicit path; wins over ManifestEnv
	ManifestEnv     string // REMOTE_MANIFEST
	DefaultManifest string // used only when the file exists
	Listen          string // explicit listen address; wins over ListenEnv
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifest(path string) Option        { return func(c *Config) { c.ManifestPath = path } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListen(addr string) Option          { return func(c *Config) { c.Listen = addr } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

func defaultConfig() Config {
	return Config{
		Service:         "steeze-remote",
		ManifestEnv:     "REMOTE_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
	}
}

// NewConfig applies opts over the default env keys.
func NewConfig(opts ...Option) Config {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Module returns a complete Fx option set serving the keyword library.
func Module(opts ...Option) fx.Option {
	cfg := NewConfig(opts...)
	return fx.Options(
		fx.Provide(func() Config { return cfg }),
		fx.Provide(ProvideManifest),
		// Logger, metrics, rate limiter
		bundlefx.Module,
		// Keywords
		fx.Provide(ProvideLibrary),
		fx.Provide(ProvideRegistry),
		fx.Provide(provideDispatcher),
		// Router impl
		fx.Provide(httpx.NewChi),
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),
		// Lifecycle
		fx.Provide(newServer),
		fx.Invoke(func(*Server) {}),
	)
}

// ---------- Manifest ----------

// manifestPath picks the manifest file to load; "" means defaults only.
func (c Config) manifestPath() string {
	if c.ManifestPath != "" {
		return c.ManifestPath
	}
	if v := envOr(c.ManifestEnv, ""); v != "" {
		return v
	}
	if fileExists(c.DefaultManifest) {
		return c.DefaultManifest
	}
	return ""
}

// ProvideManifest loads the manifest and applies flag and env overrides.
func ProvideManifest(c Config) (manifest.Config, error) {
	path := c.manifestPath()
	man, err := core.LoadConfig(path)
	if err != nil {
		return manifest.Config{}, err
	}
	switch {
	case c.Listen != "":
		man.Server.Listen = c.Listen
	case os.Getenv(c.ListenEnv) != "":
		man.Server.Listen = os.Getenv(c.ListenEnv)
	}
	if cert, key := os.Getenv(c.TLSCertEnv), os.Getenv(c.TLSKeyEnv); cert != "" || key != "" {
		man.Server.TLSCert, man.Server.TLSKey = cert, key
	}
	if err := man.Validate(); err != nil {
		return manifest.Config{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return man, nil
}

// ---------- Keywords ----------

func ProvideLibrary(man manifest.Config) *keywords.Library {
	return keywords.New(keywords.Settings{
		CounterStart:        man.Library.CounterStart,
		MaxDirectoryEntries: man.Library.MaxDirectoryEntries,
		Disabled:            man.Library.Disabled,
	})
}

// ProvideRegistry registers the library and freezes the registry.
func ProvideRegistry(lib *keywords.Library, zl *zap.Logger) (*keyword.Registry, error) {
	b := keyword.NewBuilder(zl.Named("registry"))
	if err := lib.Register(b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func provideDispatcher(reg *keyword.Registry, zl *zap.Logger, obs metrics.Keywords) *core.Dispatcher {
	return core.NewDispatcher(reg, zl.Named("dispatch"), obs)
}

// ---------- Router ----------

type routerDeps struct {
	fx.In

	Manifest   manifest.Config
	Dispatcher *core.Dispatcher
	LogMW      *logger.Middleware
	Limiter    *ratelimit.Limiter
	Metrics    http.Handler `name:"metrics"`
	Observer   metrics.Keywords
	Router     httpx.Router
}

func provideRouter(d routerDeps) http.Handler {
	return core.BuildRouter(d.Manifest, core.BuildDeps{
		Dispatcher: d.Dispatcher,
		LogMW:      d.LogMW,
		Limiter:    d.Limiter,
		Metrics:    d.Metrics,
		Faults:     d.Observer,
		Collect:    metrics.Collect,
		Router:     d.Router,
	})
}

// ---------- Lifecycle (HTTP server) ----------

// Server owns the HTTP listener for the lifetime of the fx app.
type Server struct {
	srv  *http.Server
	log  *zap.Logger
	cert string
	key  string

	mu   sync.Mutex
	addr net.Addr
}

type serverDeps struct {
	fx.In
	Lifecycle fx.Lifecycle
	Config    Config
	Manifest  manifest.Config
	Logger    *zap.Logger
	App       http.Handler `name:"app"`
}

func newServer(d serverDeps) *Server {
	sc := d.Manifest.Server
	s := &Server{
		srv: &http.Server{
			Addr:         sc.Listen,
			Handler:      d.App,
			ReadTimeout:  sc.ReadTimeout(),
			WriteTimeout: sc.WriteTimeout(),
			IdleTimeout:  sc.IdleTimeout(),
			TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
		},
		log:  d.Logger.With(zap.String("service", d.Config.Service)),
		cert: sc.TLSCert,
		key:  sc.TLSKey,
	}
	d.Lifecycle.Append(fx.Hook{OnStart: s.start, OnStop: s.stop})
	return s
}

func (s *Server) start(context.Context) error {
	useTLS := s.cert != "" && s.key != ""
	if useTLS && !(fileExists(s.cert) && fileExists(s.key)) {
		return fmt.Errorf("tls: certificate %q or key %q not found", s.cert, s.key)
	}

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	if useTLS {
		s.log.Info("server starting (TLS)", zap.Stringer("addr", ln.Addr()), zap.String("cert", s.cert))
		go s.serve(func() error { return s.srv.ServeTLS(ln, s.cert, s.key) })
	} else {
		s.log.Info("server starting (PLAINTEXT)", zap.Stringer("addr", ln.Addr()))
		s.srv.TLSConfig = nil
		go s.serve(func() error { return s.srv.Serve(ln) })
	}
	return nil
}

func (s *Server) serve(run func() error) {
	if err := run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("server failed", zap.Error(err))
	}
}

func (s *Server) stop(ctx context.Context) error {
	s.log.Info("server stopping")
	return s.srv.Shutdown(ctx)
}

// Addr is the bound listen address, or nil before start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if k == "" {
		return def
	}
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
