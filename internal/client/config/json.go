package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/civicops/drconsole/internal/timex"
)

// JsonConfig is the on-disk shape of Config.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ReconcileInterval   timex.Duration `json:"reconcile_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	Verbose             bool           `json:"verbose"`
}

// parseJson overlays the file at path onto cfg. Keys missing from the file
// keep their current value. An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	jc := &JsonConfig{
		ServerEndpointAddr:  cfg.ServerEndpointAddr,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		ReconcileInterval:   timex.Duration{Duration: cfg.ReconcileInterval},
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		Verbose:             cfg.Verbose,
	}
	if err := json.Unmarshal(data, jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.ReconcileInterval = jc.ReconcileInterval.Duration
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.Verbose = jc.Verbose
	return nil
}
