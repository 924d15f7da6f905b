package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/flagx"
)

// parseFlags overlays cfg with the server flags found in args.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, empty disables (e.g., ":9090")
//	-k string   storage backend: memory, sqlite or postgres
//	-d string   PostgreSQL DSN
//	-f string   SQLite database file
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "address and port of the metrics endpoint")
	fs.StringVar(&cfg.Storage, "k", cfg.Storage, "storage backend")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SQLitePath, "f", cfg.SQLitePath, "sqlite database file")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	validity := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := flagx.ParseKnown(fs, args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.AccessTokenValidityDuration = time.Duration(*validity) * time.Minute
		}
	})
	return nil
}
