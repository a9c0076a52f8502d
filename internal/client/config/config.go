package config

import (
	"fmt"
	"time"

	"github.com/civicops/drconsole/internal/common"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the console.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	ReconcileInterval   time.Duration
	RequestTimeout      time.Duration
	Verbose             bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.ReconcileInterval = 30 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.Verbose = false
}

// Load builds a Config from defaults, then the JSON file at path (if any),
// then every flag in fs that was set on the command line. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	if fs != nil {
		if err := applyFlags(cfg, fs); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects intervals a ticker cannot run with.
func (c *Config) validate() error {
	if c.ReconcileInterval <= 0 {
		return fmt.Errorf("reconcile interval %s must be positive: %w", c.ReconcileInterval, common.ErrorValidation)
	}
	if c.OnlineCheckInterval < 0 {
		return fmt.Errorf("check interval %s must not be negative: %w", c.OnlineCheckInterval, common.ErrorValidation)
	}
	return nil
}
