package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvGRPCAddress   = "EXPENSES_GRPC_ADDRESS"
	EnvMetricsAddr   = "EXPENSES_METRICS_ADDRESS"
	EnvStorage       = "EXPENSES_STORAGE"
	EnvDatabaseDSN   = "EXPENSES_DATABASE_DSN"
	EnvSQLitePath    = "EXPENSES_SQLITE_PATH"
	EnvSecretKey     = "EXPENSES_SECRET_KEY"
	EnvTokenValidity = "EXPENSES_TOKEN_VALIDITY"
	EnvS3User        = "EXPENSES_S3_USER"
	EnvS3Password    = "EXPENSES_S3_PASSWORD"
	EnvS3Bucket      = "EXPENSES_S3_BUCKET"
	EnvS3Region      = "EXPENSES_S3_REGION"
	EnvS3Endpoint    = "EXPENSES_S3_ENDPOINT"
	EnvLogLevel      = "EXPENSES_LOG_LEVEL"
	EnvLogFormat     = "EXPENSES_LOG_FORMAT"
)

// parseEnv overlays cfg with EXPENSES_* variables. envFile is read with
// godotenv when it exists; lookup (the process environment) takes
// precedence over it.
func parseEnv(cfg *Config, envFile string, lookup func(string) (string, bool)) error {
	fileVars := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read env file %s: %w", envFile, err)
		}
	}

	get := func(key string) string {
		v, _ := lookupEither(lookup, fileVars, key)
		return v
	}

	setString(&cfg.EndpointAddrGRPC, get(EnvGRPCAddress))
	if v, ok := lookupEither(lookup, fileVars, EnvMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	setString(&cfg.Storage, get(EnvStorage))
	setString(&cfg.DatabaseDSN, get(EnvDatabaseDSN))
	setString(&cfg.SQLitePath, get(EnvSQLitePath))
	setString(&cfg.SecretKey, get(EnvSecretKey))
	setString(&cfg.S3RootUser, get(EnvS3User))
	setString(&cfg.S3RootPassword, get(EnvS3Password))
	setString(&cfg.S3Bucket, get(EnvS3Bucket))
	setString(&cfg.S3Region, get(EnvS3Region))
	setString(&cfg.S3BaseEndpoint, get(EnvS3Endpoint))
	setString(&cfg.LogLevel, get(EnvLogLevel))
	setString(&cfg.LogFormat, get(EnvLogFormat))

	if v := get(EnvTokenValidity); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTokenValidity, err)
		}
		cfg.AccessTokenValidityDuration = d
	}
	return nil
}

// lookupEither prefers the process environment over the env file.
func lookupEither(lookup func(string) (string, bool), fileVars map[string]string, key string) (string, bool) {
	if v, ok := lookup(key); ok {
		return v, true
	}
	v, ok := fileVars[key]
	return v, ok
}
