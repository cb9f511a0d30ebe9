package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stockkeeper/internal/client/api"
	"github.com/dmitrijs2005/stockkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errInvalidCredentials = errors.New("invalid credentials")

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a user name and password and creates the account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, userName, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "User registered, you can log in now")
	return nil
}

// Login prompts for credentials and keeps the issued token in memory.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, string(password)); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return errInvalidCredentials
		}
		return err
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the token.
func (a *App) Logout(_ context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	name, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, name)
	return nil
}
