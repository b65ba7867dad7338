// Package auth turns login settings into a Credential and keeps it between runs.
// The credential lives in the OS keychain; a non-secret record of who logged in
// is kept next to it so whoami works offline.
package auth

import (
	"context"
	"errors"
	"strings"

	"forcecursor/cli/internal/backend"
	"forcecursor/cli/internal/rest"
)

// Settings are the connection settings handed to an Authenticator.
type Settings struct {
	LoginURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Authenticator exchanges settings for a Credential.
type Authenticator interface {
	Authenticate(ctx context.Context, s Settings) (rest.Credential, error)
}

// TokenIssuer performs the OAuth2 username-password grant.
type TokenIssuer interface {
	PasswordToken(ctx context.Context, login backend.Login) (rest.Credential, error)
}

// PasswordFlow authenticates with the username-password grant.
type PasswordFlow struct {
	Issuer TokenIssuer
}

// Authenticate validates s and requests a token.
func (p PasswordFlow) Authenticate(ctx context.Context, s Settings) (rest.Credential, error) {
	if p.Issuer == nil {
		return rest.Credential{}, errors.New("no token issuer configured")
	}
	if strings.TrimSpace(s.Username) == "" || s.Password == "" {
		return rest.Credential{}, errors.New("username and password are required")
	}
	if strings.TrimSpace(s.ClientID) == "" {
		return rest.Credential{}, errors.New("client id is required")
	}
	return p.Issuer.PasswordToken(ctx, backend.Login{
		LoginURL:     s.LoginURL,
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		Username:     s.Username,
		Password:     s.Password,
	})
}
