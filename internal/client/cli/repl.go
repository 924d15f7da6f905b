package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Update(ctx context.Context) error
	Cancel(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Total(ctx context.Context) error
	Premium(ctx context.Context) error
	Theme(ctx context.Context) error
	Export(ctx context.Context, target string) error
	Status(ctx context.Context) error
	Clear(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: (l)ist, add, edit <id>, update, cancel, delete <id>, total, premium, theme, export [file|upload], status, clear, logout, help, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// Handler errors are printed and the loop carries on. The loop exits on end
// of input or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "expenses %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(out, "Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args, out); err != nil {
			fmt.Fprintln(out, "Error:", describe(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(out, helpLoggedIn)
		} else {
			fmt.Fprintln(out, helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !isKnown(cmd) {
		fmt.Fprintln(out, "Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		fmt.Fprintln(out, "Please log in first.")
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "l", "list":
		return a.List(ctx)
	case "add":
		return a.Add(ctx)
	case "edit":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: edit <id>")
			return nil
		}
		return a.Edit(ctx, args[0])
	case "update":
		return a.Update(ctx)
	case "cancel":
		return a.Cancel(ctx)
	case "delete":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: delete <id>")
			return nil
		}
		return a.Delete(ctx, args[0])
	case "total":
		return a.Total(ctx)
	case "premium":
		return a.Premium(ctx)
	case "theme":
		return a.Theme(ctx)
	case "export":
		target := "file"
		if len(args) > 0 {
			target = args[0]
		}
		return a.Export(ctx, target)
	case "status":
		return a.Status(ctx)
	case "clear":
		return a.Clear(ctx)
	}
	return nil
}

var loggedInCommands = map[string]struct{}{
	"logout": {}, "l": {}, "list": {}, "add": {}, "edit": {}, "update": {}, "cancel": {},
	"delete": {}, "total": {}, "premium": {}, "theme": {}, "export": {}, "status": {}, "clear": {},
}

func isKnown(cmd string) bool {
	_, ok := loggedInCommands[cmd]
	return ok
}
