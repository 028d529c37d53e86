package manifest

import (
	"time"
)

const (
	DefaultListen = ":8270"
	DefaultPath   = "/RPC2"
)

// Config is the top-level manifest of a remote keyword server.
type Config struct {
	Server    Server    `toml:"server" yaml:"server"`
	RateLimit RateLimit `toml:"rate_limit" yaml:"rate_limit"`
	Logging   Logging   `toml:"logging" yaml:"logging"`
	Library   Library   `toml:"library" yaml:"library"`
}

type Server struct {
	Listen         string `toml:"listen" yaml:"listen"`
	Path           string `toml:"path" yaml:"path"` // RPC endpoint, e.g. "/RPC2"
	TLSCert        string `toml:"tls_cert" yaml:"tls_cert"`
	TLSKey         string `toml:"tls_key" yaml:"tls_key"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms" yaml:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms" yaml:"write_timeout_ms"`
	IdleTimeoutMS  int    `toml:"idle_timeout_ms" yaml:"idle_timeout_ms"`
}

type RateLimit struct {
	Enabled bool    `toml:"enabled" yaml:"enabled"`
	RPS     float64 `toml:"rps" yaml:"rps"`
	Burst   int     `toml:"burst" yaml:"burst"`
}

type Logging struct {
	Dir   string `toml:"dir" yaml:"dir"`
	Level string `toml:"level" yaml:"level"` // debug | info | warn | error
}

type Library struct {
	CounterStart        int64    `toml:"counter_start" yaml:"counter_start"`
	MaxDirectoryEntries int      `toml:"max_directory_entries" yaml:"max_directory_entries"`
	Disabled            []string `toml:"disabled" yaml:"disabled"`
}

// Default returns the manifest used when no file overrides a value.
func Default() Config {
	return Config{
		Server: Server{
			Listen:         DefaultListen,
			Path:           DefaultPath,
			ReadTimeoutMS:  15_000,
			WriteTimeoutMS: 30_000,
			IdleTimeoutMS:  60_000,
		},
		RateLimit: RateLimit{Enabled: false, RPS: 50, Burst: 100},
		Logging:   Logging{Dir: "log", Level: "info"},
		Library:   Library{MaxDirectoryEntries: 100_000},
	}
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (s Server) ReadTimeout() time.Duration  { return ms(s.ReadTimeoutMS) }
func (s Server) WriteTimeout() time.Duration { return ms(s.WriteTimeoutMS) }
func (s Server) IdleTimeout() time.Duration  { return ms(s.IdleTimeoutMS) }
