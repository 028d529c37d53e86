// pkg/core/load.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	manifest "github.com/joeydtaylor/steeze-remote/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a TOML (default) or YAML manifest on top of
// manifest.Default and validates it. An empty path yields the defaults.
func LoadConfig(path string) (manifest.Config, error) {
	cfg := manifest.Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return manifest.Config{}, err
		}
		if err := decode(path, b, &cfg); err != nil {
			return manifest.Config{}, fmt.Errorf("manifest %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *manifest.Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return toml.Unmarshal(b, cfg)
	}
}
