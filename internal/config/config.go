// Package config handles site configuration for the publications tooling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fleury/bibsite/internal/publist"
)

// DefaultFile is the config file name looked up in the site root.
const DefaultFile = "bibsite.yml"

// Config is the site configuration read from bibsite.yml.
type Config struct {
	// PublicationsSrc is the path to the BibTeX source file. Empty means
	// the publications feature is disabled.
	PublicationsSrc string `yaml:"publications_src,omitempty"`
	// AssetRoot is the directory local pdf/slides/poster paths are
	// resolved against. Defaults to the current directory.
	AssetRoot string `yaml:"asset_root,omitempty"`
	// Output is the path the built publications list is written to.
	Output string `yaml:"output,omitempty"`
	// Deploy configures the remote host the output is uploaded to.
	Deploy Deploy `yaml:"deploy,omitempty"`
}

// Deploy holds SSH deployment settings.
type Deploy struct {
	Host           string `yaml:"host,omitempty"`
	RemotePath     string `yaml:"remote_path,omitempty"`
	ProxyJump      string `yaml:"proxy_jump,omitempty"`
	ConnectTimeout int    `yaml:"connect_timeout,omitempty"` // seconds, 0 means default
}

// Load reads configuration from the given path. A missing file yields an
// empty config, not an error, so every command works in an unconfigured
// directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv overlays BIBSITE_* environment variables onto the config.
// Environment wins over the file, matching the .env workflow.
func (c *Config) applyEnv() {
	if v := os.Getenv("BIBSITE_PUBLICATIONS_SRC"); v != "" {
		c.PublicationsSrc = v
	}
	if v := os.Getenv("BIBSITE_ASSET_ROOT"); v != "" {
		c.AssetRoot = v
	}
	if v := os.Getenv("BIBSITE_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("BIBSITE_DEPLOY_HOST"); v != "" {
		c.Deploy.Host = v
	}
	if v := os.Getenv("BIBSITE_DEPLOY_PATH"); v != "" {
		c.Deploy.RemotePath = v
	}
}

// Settings converts the config into generator settings. PublicationsSrc is
// only present when configured, so an unset value disables the plugin rather
// than pointing it at an empty path.
func (c *Config) Settings() map[string]any {
	settings := make(map[string]any)
	if c.PublicationsSrc != "" {
		settings[publist.SourceKey] = c.PublicationsSrc
	}
	return settings
}
