package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/expensetracker/internal/flagx"
	"github.com/dmitrijs2005/expensetracker/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "1m" strings
// or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string          `json:"endpoint_addr_grpc"`
	MetricsAddr                 *string         `json:"metrics_addr"`
	Storage                     string          `json:"storage"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SQLitePath                  string          `json:"sqlite_path"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string          `json:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3Region                    string          `json:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint"`
	LogLevel                    string          `json:"log_level"`
	LogFormat                   string          `json:"log_format"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Keys absent from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var c JsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&cfg.Storage, c.Storage)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SQLitePath, c.SQLitePath)
	setString(&cfg.SecretKey, c.SecretKey)
	setString(&cfg.S3RootUser, c.S3RootUser)
	setString(&cfg.S3RootPassword, c.S3RootPassword)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&cfg.LogLevel, c.LogLevel)
	setString(&cfg.LogFormat, c.LogFormat)
	if c.MetricsAddr != nil {
		cfg.MetricsAddr = *c.MetricsAddr
	}
	if c.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
