// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"github.com/pterm/pterm"

	"forcecursor/cli/internal/auth"
	"forcecursor/cli/internal/backend"
	"forcecursor/cli/internal/cursor"
	"forcecursor/cli/internal/httperrors"
	"forcecursor/cli/internal/keychain"
	"forcecursor/cli/internal/logging"
	"forcecursor/cli/internal/rest"
)

// newBackend builds the HTTP transport from the loaded config.
func newBackend() *backend.HTTP {
	return backend.New(backend.Options{
		Timeout: cfg.Timeout(),
		Charset: cfg.Charset,
		Logger:  logger,
	})
}

// authService wires the password flow and the OS keychain. Without a usable
// keychain only environment credentials work.
func authService() *auth.Service {
	var store auth.Store
	if km, err := keychain.GetManager(); err == nil {
		store = km
	} else {
		logger.Debug("keychain unavailable", logger.Args("error", err.Error()))
	}
	return auth.NewService(auth.PasswordFlow{Issuer: newBackend()}, store, logger)
}

// openConn returns a connection bound to the current credential.
func openConn() (*cursor.Conn, rest.Credential, error) {
	cred, src, err := authService().Credential()
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			printNotLoggedIn()
			return nil, rest.Credential{}, &shownError{err}
		}
		return nil, rest.Credential{}, err
	}
	logger.Debug("using credential", logger.Args("source", string(src), "instance", cred.InstanceURL))
	return cursor.NewConn(newBackend(), cred, cfg.APIVersion, logger), cred, nil
}

func printNotLoggedIn() {
	pterm.Println("🔒 You're not logged in yet!")
	pterm.Println("   Run 'forcecursor login' to get started.")
}

// report prints err for the user and marks it as shown.
func report(err error, action, instanceURL string) error {
	if err == nil {
		return nil
	}
	if httperrors.IsNetworkError(err) {
		return &shownError{httperrors.FormatNetworkError(err, action, instanceURL)}
	}
	pterm.Error.Println(logging.PresentError(action, err))
	return &shownError{err}
}
