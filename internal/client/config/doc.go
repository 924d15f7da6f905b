// Package config loads runtime configuration for the expense tracker client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the document store
//	-t int      per-request timeout (seconds)
//	-b string   backend: grpc or memory
//	-r          re-sort the collection after every add and update
//	-o string   directory for CSV exports
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "server_address": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "backend": "grpc",
//	  "resort_on_mutation": false,
//	  "export_dir": "exports",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
