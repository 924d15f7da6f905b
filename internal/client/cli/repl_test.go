package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	err      error

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.loggedIn = true
	return f.record("register")
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) List(context.Context) error              { return f.record("list") }
func (f *fakeExec) Add(context.Context) error               { return f.record("add") }
func (f *fakeExec) Edit(_ context.Context, id string) error { return f.record("edit " + id) }
func (f *fakeExec) Update(context.Context) error            { return f.record("update") }
func (f *fakeExec) Cancel(context.Context) error            { return f.record("cancel") }
func (f *fakeExec) Delete(_ context.Context, id string) error {
	return f.record("delete " + id)
}
func (f *fakeExec) Total(context.Context) error   { return f.record("total") }
func (f *fakeExec) Premium(context.Context) error { return f.record("premium") }
func (f *fakeExec) Theme(context.Context) error   { return f.record("theme") }
func (f *fakeExec) Export(_ context.Context, target string) error {
	return f.record("export " + target)
}
func (f *fakeExec) Status(context.Context) error { return f.record("status") }
func (f *fakeExec) Clear(context.Context) error  { return f.record("clear") }

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestRunREPL_Dispatch(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer

	in := script(
		"help",
		"list",
		"login",
		"help",
		"l",
		"add",
		"edit abc",
		"update",
		"cancel",
		"delete abc",
		"total",
		"premium",
		"theme",
		"export",
		"export upload",
		"status",
		"clear",
		"foobar",
		"",
		"logout",
		"exit",
		"list",
	)
	runREPL(context.Background(), exec, func() string { return "(s)" }, rdr(in), &out)

	assert.Equal(t, []string{
		"login", "list", "add", "edit abc", "update", "cancel", "delete abc",
		"total", "premium", "theme", "export file", "export upload", "status", "clear", "logout",
	}, exec.calls)

	o := out.String()
	assert.Contains(t, o, helpLoggedOut)
	assert.Contains(t, o, helpLoggedIn)
	assert.Contains(t, o, "Please log in first.")
	assert.Contains(t, o, "Unknown command: foobar")
	assert.Contains(t, o, "expenses (s)> ")
	assert.True(t, strings.HasSuffix(o, "Bye!\n"))
}

func TestRunREPL_Usage(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr(script("edit", "delete a b", "quit")), &out)

	assert.Empty(t, exec.calls)
	assert.Contains(t, out.String(), "Usage: edit <id>")
	assert.Contains(t, out.String(), "Usage: delete <id>")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr(script("list", "total")), &out)

	assert.Equal(t, []string{"list", "total"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "Error: boom"))
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{loggedIn: true}
	var out bytes.Buffer

	runREPL(ctx, exec, func() string { return "" }, rdr(script("list")), &out)
	assert.Empty(t, exec.calls)
}
