package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authclient/internal/client/models"
	"github.com/dmitrijs2005/authclient/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. The
// password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	var reg models.Registration
	prompts := []struct {
		prompt string
		dst    *string
	}{
		{"Enter username", &reg.Username},
		{"Enter phone", &reg.Phone},
		{"Enter email", &reg.Email},
		{"Enter full name", &reg.FullName},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.prompt, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	reg.Password = string(password)

	user, err := a.session.Register(ctx, reg)
	if err != nil {
		return err
	}
	a.printf("Registered %s (id %d)\n", user.Username, user.ID)
	return nil
}

// Login prompts for credentials and stores the issued token.
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

	user, err := a.session.Login(ctx, userName, password)
	if err != nil {
		return err
	}
	a.printf("Logged in as %s\n", user.Username)
	return nil
}

// Logout forgets the stored token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	user, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	a.printf("ID:        %d\n", user.ID)
	a.printf("Username:  %s\n", user.Username)
	a.printf("Full name: %s\n", user.FullName)
	a.printf("Email:     %s\n", user.Email)
	a.printf("Status:    %s\n", user.Status)
	a.printf("Roles:     %s\n", strings.Join(user.Roles, ", "))
	return nil
}

func (a *App) Validate(ctx context.Context) error {
	v, err := a.session.Validate(ctx)
	if err != nil {
		return err
	}
	if !v.Valid {
		a.printf("Token is not valid\n")
		return nil
	}
	a.printf("Token is valid for %s", v.Username)
	if v.ExpiresAt != nil {
		a.printf(" until %s", formatTime(time.UnixMilli(*v.ExpiresAt)))
	}
	a.printf("\n")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	t, err := a.session.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printf("Token refreshed, expires %s\n", formatTime(t.ExpiresAt))
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st, err := a.session.Status(ctx)
	if err != nil {
		return err
	}
	if !st.LoggedIn {
		a.printf("Not logged in\n")
		return nil
	}
	state := "valid"
	switch {
	case !st.Valid:
		state = "expired"
	case st.ExpiringSoon:
		state = "expiring soon"
	}
	a.printf("Token %s, expires %s\n", state, formatTime(st.Token.ExpiresAt))
	return nil
}

func (a *App) Check(ctx context.Context, kind, value string) error {
	res, err := a.session.CheckAvailability(ctx, kind, value)
	if err != nil {
		return err
	}
	verdict := "available"
	if !res.Available {
		verdict = "taken"
	}
	a.printf("%s %q is %s: %s\n", kind, res.Value, verdict, res.Message)
	return nil
}

func formatTime(t time.Time) string {
	return t.Local().Format(time.DateTime)
}

// describe turns handler errors into a short user-facing line.
func describe(err error) string {
	var apiErr *models.APIError
	switch {
	case errors.Is(err, common.ErrNotLoggedIn):
		return "not logged in, use 'login' first"
	case errors.Is(err, common.ErrTransport):
		return fmt.Sprintf("server unreachable (%v)", err)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("%s (code %d)", apiErr.Message, apiErr.Code)
	default:
		return err.Error()
	}
}
