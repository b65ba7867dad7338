// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend talks HTTP to the remote object store.
// It executes the RemoteCalls built by the router, classifies failures into
// RemoteErrors and exchanges login settings for an access token.
package backend

import (
	"context"

	"forcecursor/cli/internal/rest"
)

// API defines the remote operations the CLI depends on.
// Implementations may call the real REST endpoints or provide stubs for tests.
type API interface {
	// Invoke performs one call and returns the decoded records.
	// NotFound and Gone responses yield no rows and no error.
	Invoke(ctx context.Context, call rest.RemoteCall) ([]rest.Record, error)
	// PasswordToken runs the OAuth2 username-password grant.
	PasswordToken(ctx context.Context, login Login) (rest.Credential, error)
}

// Login holds the settings for the username-password grant.
type Login struct {
	// LoginURL is the authorization server, e.g. "https://login.salesforce.com".
	LoginURL     string
	ClientID     string
	ClientSecret string
	Username     string
	// Password is the account password with the security token appended, when
	// the org requires one.
	Password string
}
