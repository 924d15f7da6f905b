package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/flagx"
)

// parseFlags overlays cfg with the client flags found in args. Unknown
// flags are ignored so other components can share the command line.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "address and port of the document store")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: grpc or memory")
	fs.BoolVar(&cfg.ResortOnMutation, "r", cfg.ResortOnMutation, "re-sort after add and update")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := flagx.ParseKnown(fs, args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
