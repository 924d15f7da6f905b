package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	BackendGRPC   = "grpc"
	BackendMemory = "memory"
)

// Config holds runtime settings for the client.
type Config struct {
	ServerAddr       string
	RequestTimeout   time.Duration
	Backend          string
	ResortOnMutation bool
	ExportDir        string
	LogLevel         string
	LogFormat        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.Backend = BackendGRPC
	c.ResortOnMutation = false
	c.ExportDir = "exports"
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend != BackendGRPC && c.Backend != BackendMemory {
		errs = append(errs, fmt.Errorf("backend must be %q or %q, got %q", BackendGRPC, BackendMemory, c.Backend))
	}
	if c.Backend == BackendGRPC && c.ServerAddr == "" {
		errs = append(errs, errors.New("server address is required for the grpc backend"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.ExportDir == "" {
		errs = append(errs, errors.New("export directory is required"))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, then the JSON file named in args (if
// any), then the flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on invalid input.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
