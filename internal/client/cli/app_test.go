package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/expensetracker/internal/client/asyncop"
	"github.com/dmitrijs2005/expensetracker/internal/client/config"
	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/client/store"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*App
	gw  *gateway.MemoryGateway
	out *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	old := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { getPassword = old })

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Backend = config.BackendMemory
	cfg.ExportDir = filepath.Join(t.TempDir(), "exports")

	gw := gateway.NewMemoryGateway()
	out := &bytes.Buffer{}
	return &testApp{App: newApp(&cfg, gw, rdr(""), out, logging.NopLogger{}), gw: gw, out: out}
}

// run feeds lines to the REPL and returns everything it printed.
func (a *testApp) run(lines ...string) string {
	a.out.Reset()
	a.reader = rdr(script(lines...))
	runREPL(context.Background(), a.App, a.getStatus, a.reader, a.out)
	return a.out.String()
}

func TestApp_RegisterAddListTotal(t *testing.T) {
	a := newTestApp(t)

	out := a.run(
		"register", "alice",
		"add", "50", "coffee", "Food",
		"list",
		"total",
		"export",
	)

	assert.Contains(t, out, "Registered and logged in as alice")
	assert.Contains(t, out, "Loaded 0 expense(s)")
	assert.Contains(t, out, "Added ")
	assert.Contains(t, out, "coffee")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "Expenses: 1\nTotal: 50.00")
	assert.NotContains(t, out, "You qualify for premium")
	assert.Contains(t, out, "Error: export is a premium feature")
	assert.Contains(t, out, "expenses (alice)> ")
}

func TestApp_ValidationErrorShown(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "bob")

	out := a.run("add", "-5", "", "Pets")
	assert.Contains(t, out, "Error: invalid")
	assert.Empty(t, a.store.Snapshot().Expenses)
}

func TestApp_LoginFailures(t *testing.T) {
	a := newTestApp(t)

	out := a.run("login", "ghost")
	assert.Contains(t, out, "Error: invalid username or password")
	assert.False(t, a.isLoggedIn())

	a.run("register", "carol", "logout")
	out = a.run("register", "carol")
	assert.Contains(t, out, "Error: username is already taken")
}

func TestApp_EditUpdateCancel(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "dave", "add", "10", "taxi", "Transportation")
	id := a.store.Snapshot().Expenses[0].ID

	out := a.run("edit "+id, "update", "", "night taxi", "")
	assert.Contains(t, out, "Editing "+id+": 10.00 Transportation taxi")
	assert.Contains(t, out, "Updated "+id)

	snap := a.store.Snapshot()
	assert.Nil(t, snap.Editing)
	assert.Equal(t, "night taxi", snap.Expenses[0].Description)
	assert.Equal(t, "10.00", snap.Expenses[0].Amount.StringFixed(2))

	out = a.run("update")
	assert.Contains(t, out, "Error: no expense is being edited")

	out = a.run("edit "+id, "cancel", "edit nope")
	assert.Contains(t, out, "Editing cancelled")
	assert.Contains(t, out, "Error: expense not in collection")
}

func TestApp_AddWhileEditingUpdates(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "hank", "add", "10", "taxi", "Transportation")
	id := a.store.Snapshot().Expenses[0].ID

	out := a.run("edit "+id, "add", "12", "", "")
	assert.Contains(t, out, "Updated "+id)
	assert.NotContains(t, out, "Added ")

	snap := a.store.Snapshot()
	require.Len(t, snap.Expenses, 1)
	assert.Nil(t, snap.Editing)
	assert.Equal(t, "12.00", snap.Expenses[0].Amount.StringFixed(2))
	assert.Equal(t, "taxi", snap.Expenses[0].Description)
}

func TestApp_EditSlotClearedBeforeShown(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "iris", "add", "1", "gum", "Food")
	id := a.store.Snapshot().Expenses[0].ID

	// Empties the slot as soon as it is filled, like a delete finishing in between.
	unsubscribe := a.store.Subscribe(func(snap store.Snapshot) {
		if snap.Editing != nil {
			a.store.CancelEdit()
		}
	})
	defer unsubscribe()

	out := a.run("edit " + id)
	assert.Contains(t, out, "Error: no expense is being edited")
	assert.NotContains(t, out, "Editing "+id)
}

func TestApp_ThemeRequiresPremium(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "jill", "add", "1", "gum", "Food")

	out := a.run("theme", "list")
	assert.Contains(t, out, "The dark theme is a premium feature.")
	assert.NotContains(t, out, darkStart)
	assert.Equal(t, themeLight, a.theme)

	a.run("add", "10000", "car", "Transportation", "premium")
	require.True(t, a.store.Snapshot().IsPremium)

	out = a.run("theme", "list")
	assert.Contains(t, out, "Theme: dark")
	assert.Contains(t, out, darkStart)
	assert.Contains(t, out, darkEnd+"\n")

	out = a.run("theme", "list")
	assert.Contains(t, out, "Theme: light")
	assert.NotContains(t, out, darkStart)
}

func TestApp_DeleteAndFailureMessages(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "erin", "add", "3", "tea", "Food")
	id := a.store.Snapshot().Expenses[0].ID

	out := a.run("delete missing", "status")
	assert.Contains(t, out, "Error: Failed to delete expense. Please try again later.")
	assert.Contains(t, out, "Last error: Failed to delete expense. Please try again later.")

	out = a.run("clear", "status")
	assert.NotContains(t, out, "Last error")

	a.gw.FailWith("list", gateway.ErrUnavailable)
	out = a.run("list")
	assert.Contains(t, out, "tea", "previous collection still shown")
	assert.Contains(t, out, "Failed to fetch expenses. Please try again later.")
	a.gw.FailWith("list", nil)

	out = a.run("delete " + id)
	assert.Contains(t, out, "Deleted "+id)
	assert.Equal(t, asyncop.Succeeded, a.store.Snapshot().Status(asyncop.OpDelete).Phase)
}

func TestApp_PremiumAndExport(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "frank")

	out := a.run("premium")
	assert.Contains(t, out, "Premium becomes available once your total exceeds 10000.00.")

	out = a.run("add", "10000.01", "laptop", "Shopping", "total", "premium", "premium")
	assert.Contains(t, out, "You qualify for premium.")
	assert.Contains(t, out, "Premium activated")
	assert.Contains(t, out, "Premium is already active.")
	assert.True(t, a.store.Snapshot().IsPremium)
	assert.Contains(t, a.getStatus(), "premium")

	out = a.run("export file", "export upload", "export fax")
	assert.Contains(t, out, "Exported to ")
	assert.Contains(t, out, "Error: upload is not available for this backend")
	assert.Contains(t, out, "Usage: export [file|upload]")

	entries, err := os.ReadDir(a.config.ExportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(a.config.ExportDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date,Description,Amount,Category\n")
	assert.Contains(t, string(data), ",laptop,10000.01,Shopping\n")
}

func TestApp_LogoutResetsStatus(t *testing.T) {
	a := newTestApp(t)
	a.run("register", "gina", "add", "1", "gum", "Food")

	out := a.run("logout", "list")
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, "Please log in first.")
	assert.Empty(t, a.store.Snapshot().Expenses)
	assert.Equal(t, "", a.getStatus())
}
