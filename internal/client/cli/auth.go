package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/orbiter/internal/client/client"
	"github.com/dmitrijs2005/orbiter/internal/client/services"
	"github.com/dmitrijs2005/orbiter/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for username, email and password and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Register(ctx, userName, email, string(password))
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Registered %s (id %d). Use 'login' to sign in.", u.Username, u.ID))
	return nil
}

// Login prompts for credentials and caches the issued token.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Login(ctx, userName, string(password))
	if err != nil {
		a.logger.Debug(ctx, "login failed", "username", userName, "error", err)
		return err
	}

	a.userName = u.Username
	printlnFn("Logged in as", u.Username)
	return nil
}

// Me prints the current user. A rejected token logs the user out.
func (a *App) Me(ctx context.Context) error {
	u, err := a.authService.Me(ctx)
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) || errors.Is(err, services.ErrNotLoggedIn) {
			a.userName = ""
		}
		return err
	}

	printlnFn(fmt.Sprintf("id:       %d", u.ID))
	printlnFn(fmt.Sprintf("username: %s", u.Username))
	printlnFn(fmt.Sprintf("email:    %s", u.Email))
	printlnFn(fmt.Sprintf("created:  %s", u.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	return nil
}

// Logout drops the cached session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	printlnFn("Logged out")
	return nil
}

// Health prints the server's health report.
func (a *App) Health(ctx context.Context) error {
	h, err := a.authService.Ping(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(h.Services))
	for name := range h.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+h.Services[name])
	}

	printlnFn(fmt.Sprintf("server %s (version %s) %s", h.Status, h.Version, strings.Join(parts, " ")))
	return nil
}

// describeError renders err for the user.
func describeError(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		if len(apiErr.Fields) == 0 {
			return apiErr.Message
		}
		keys := make([]string, 0, len(apiErr.Fields))
		for k := range apiErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		details := make([]string, 0, len(keys))
		for _, k := range keys {
			details = append(details, k+" "+apiErr.Fields[k])
		}
		return apiErr.Message + ": " + strings.Join(details, ", ")
	}

	switch {
	case errors.Is(err, services.ErrSessionExpired):
		return "session expired, please login again"
	case errors.Is(err, services.ErrNotLoggedIn):
		return "not logged in, use 'login'"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	}
	return err.Error()
}
