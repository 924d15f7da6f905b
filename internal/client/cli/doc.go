// Package cli provides the interactive expense tracker client.
//
// It wires configuration, the remote gateway (gRPC or in-memory), the expense
// store, the session manager and the exporter behind a line-oriented REPL.
//
// Commands:
//   - register / login / logout
//   - list, add, edit <id>, update, cancel, delete <id>
//   - total, premium, export [file|upload]
//   - status, clear, help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends. See runREPL for dispatch.
package cli
