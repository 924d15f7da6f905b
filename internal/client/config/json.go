package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/expensetracker/internal/flagx"
	"github.com/dmitrijs2005/expensetracker/internal/timex"
)

// JsonConfig is the on-disk form of Config. Pointer fields distinguish a
// missing key from a zero value.
type JsonConfig struct {
	ServerAddr       string          `json:"server_address"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	Backend          string          `json:"backend"`
	ResortOnMutation *bool           `json:"resort_on_mutation"`
	ExportDir        string          `json:"export_dir"`
	LogLevel         string          `json:"log_level"`
	LogFormat        string          `json:"log_format"`
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
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerAddr, jc.ServerAddr)
	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ResortOnMutation != nil {
		cfg.ResortOnMutation = *jc.ResortOnMutation
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
