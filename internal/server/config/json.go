package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/civicops/drconsole/internal/flagx"
	"github.com/civicops/drconsole/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept "90s" style
// strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	MetricsAddr                  string         `json:"metrics_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	PresignTTL                   timex.Duration `json:"presign_ttl"`
	Debug                        bool           `json:"debug"`
}

// parseJson overlays the JSON file named by -c/-config onto config. Keys
// missing from the file keep their current value. No flag, no change.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{
		EndpointAddrGRPC:             config.EndpointAddrGRPC,
		MetricsAddr:                  config.MetricsAddr,
		DatabaseDSN:                  config.DatabaseDSN,
		SecretKey:                    config.SecretKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: config.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: config.RefreshTokenValidityDuration},
		S3RootUser:                   config.S3RootUser,
		S3RootPassword:               config.S3RootPassword,
		S3Bucket:                     config.S3Bucket,
		S3Region:                     config.S3Region,
		S3BaseEndpoint:               config.S3BaseEndpoint,
		PresignTTL:                   timex.Duration{Duration: config.PresignTTL},
		Debug:                        config.Debug,
	}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.MetricsAddr = c.MetricsAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PresignTTL = c.PresignTTL.Duration
	config.Debug = c.Debug
	return nil
}
