// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"forcecursor/cli/internal/config"
	"forcecursor/cli/internal/keychain"
	"forcecursor/cli/internal/logging"
	"forcecursor/cli/internal/rest"
)

// ErrNotLoggedIn is returned when no credential is available.
var ErrNotLoggedIn = errors.New("not logged in")

// Source says where a credential came from.
type Source string

const (
	SourceEnv      Source = "environment"
	SourceKeychain Source = "keychain"
)

// Service centralizes login, logout and credential lookup.
type Service struct {
	authn Authenticator
	store Store
	log   *pterm.Logger
	now   func() time.Time
}

// NewService builds a Service. store may be nil when only environment
// credentials are used.
func NewService(authn Authenticator, store Store, log *pterm.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{authn: authn, store: store, log: log, now: time.Now}
}

// Login authenticates and stores the credential and login record.
func (s *Service) Login(ctx context.Context, settings Settings) (rest.Credential, error) {
	if s.store == nil {
		return rest.Credential{}, errors.New("no credential store available")
	}
	cred, err := s.authn.Authenticate(ctx, settings)
	if err != nil {
		return rest.Credential{}, err
	}
	if err := s.store.SaveCredential(cred); err != nil {
		return rest.Credential{}, fmt.Errorf("save credential: %w", err)
	}
	st := State{
		Username:    settings.Username,
		ClientID:    settings.ClientID,
		LoginURL:    settings.LoginURL,
		InstanceURL: cred.InstanceURL,
		LoggedInAt:  s.now().UTC(),
	}
	if err := saveState(s.store, st); err != nil {
		s.log.Warn("could not save login record", s.log.Args("error", err.Error()))
	}
	s.log.Debug("logged in", s.log.Args("instance", cred.InstanceURL, "username", settings.Username))
	return cred, nil
}

// Credential returns the credential to use: the environment wins over the
// keychain.
func (s *Service) Credential() (rest.Credential, Source, error) {
	if cred, ok := config.EnvCredential(); ok {
		return cred, SourceEnv, nil
	}
	if s.store == nil {
		return rest.Credential{}, "", ErrNotLoggedIn
	}
	cred, err := s.store.LoadCredential()
	if err != nil {
		if errors.Is(err, keychain.ErrNotFound) {
			return rest.Credential{}, "", ErrNotLoggedIn
		}
		return rest.Credential{}, "", err
	}
	return cred, SourceKeychain, nil
}

// WhoAmI returns the login record and the credential in use.
func (s *Service) WhoAmI() (State, rest.Credential, Source, error) {
	cred, src, err := s.Credential()
	if err != nil {
		return State{}, rest.Credential{}, "", err
	}
	if src == SourceEnv || s.store == nil {
		return State{InstanceURL: cred.InstanceURL}, cred, src, nil
	}
	st, err := loadState(s.store)
	if err != nil {
		s.log.Debug("login record unreadable", s.log.Args("error", err.Error()))
		st = State{}
	}
	if st.InstanceURL == "" {
		st.InstanceURL = cred.InstanceURL
	}
	return st, cred, src, nil
}

// Logout clears the stored credential and login record.
// There is no remote revocation.
func (s *Service) Logout() error {
	if s.store == nil {
		return nil
	}
	return errors.Join(s.store.ClearCredential(), s.store.ClearAuthState())
}
