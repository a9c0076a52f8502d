package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/civicops/drconsole/internal/client/client"
	"github.com/civicops/drconsole/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.auth.Register(ctx, userName, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created, you can log in now.")
	return nil
}

// Login prompts for credentials, authenticates and loads every collection.
// A failed initial load is reported but keeps the session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.login(ctx, userName, password)
}

func (a *App) login(ctx context.Context, userName string, password []byte) error {
	lctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.auth.Login(lctx, userName, password); err != nil {
		switch {
		case errors.Is(err, client.ErrUnavailable):
			a.setMode(ModeOffline)
			fmt.Fprintln(a.out, "Server unavailable, try again later.")
		case errors.Is(err, client.ErrUnauthorized):
			fmt.Fprintln(a.out, "Wrong username or password.")
		}
		return err
	}
	a.setMode(ModeOnline)
	a.setUser(a.auth.Username())
	fmt.Fprintf(a.out, "Logged in as %s.\n", a.auth.Username())

	if err := a.refresh(ctx); err != nil {
		fmt.Fprintln(a.out, "Some collections failed to load:", err)
	}
	return nil
}

// Logout drops the token pair. The mirrors stay as they are until the next
// login refreshes them.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.console.AdvisoryView.ClearSelection()
	a.setUser("")
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) refresh(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.console.Refresh(ctx)
}
