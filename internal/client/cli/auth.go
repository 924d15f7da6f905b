package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/expensetracker/internal/client/derived"
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/client/session"
	"github.com/dmitrijs2005/expensetracker/internal/client/store"
	"github.com/dmitrijs2005/expensetracker/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	if userName == "" {
		return "", nil, errors.New("username must not be empty")
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register creates an account and signs it in.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.sessions.Register(ctx, userName, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", id.Username)
	a.printLoaded()
	return nil
}

// Login authenticates and loads the user's expenses. A failed load leaves
// the user signed in with the failure shown.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.sessions.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", id.Username)
	a.printLoaded()
	return nil
}

func (a *App) printLoaded() {
	snap := a.store.Snapshot()
	if printFailures(a.out, snap) {
		return
	}
	fmt.Fprintf(a.out, "Loaded %d expense(s)\n", len(snap.Expenses))
}

// Logout signs out and clears the local collection.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Premium activates premium when the spend threshold has been crossed.
func (a *App) Premium(ctx context.Context) error {
	id := a.sessions.Current()
	if id != nil && id.IsPremium {
		fmt.Fprintln(a.out, "Premium is already active.")
		return nil
	}

	_, err := a.sessions.ActivatePremium(ctx)
	if errors.Is(err, session.ErrNotEligible) {
		fmt.Fprintf(a.out, "Premium becomes available once your total exceeds %s.\n", models.FormatAmount(derived.PremiumThreshold))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Premium activated: dark theme and CSV export unlocked.")
	return nil
}

// Theme switches the expense table between light and dark. Only premium
// users can leave the light theme.
func (a *App) Theme(_ context.Context) error {
	if !a.store.Snapshot().Derived.Features.Theme {
		fmt.Fprintln(a.out, "The dark theme is a premium feature.")
		return nil
	}
	if a.theme == themeDark {
		a.theme = themeLight
	} else {
		a.theme = themeDark
	}
	fmt.Fprintf(a.out, "Theme: %s\n", a.theme)
	return nil
}

// themeFor is the theme snap is rendered in. A dark choice falls back to
// light once the feature is no longer unlocked.
func (a *App) themeFor(snap store.Snapshot) theme {
	if !snap.Derived.Features.Theme {
		return themeLight
	}
	return a.theme
}
