// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"errors"
	"time"

	"forcecursor/cli/internal/keychain"
	"forcecursor/cli/internal/rest"
)

// Store is the keychain surface used by the auth service.
type Store interface {
	SaveCredential(cred rest.Credential) error
	LoadCredential() (rest.Credential, error)
	ClearCredential() error
	SaveAuthState(data []byte) error
	LoadAuthState() ([]byte, error)
	ClearAuthState() error
}

var _ Store = (*keychain.Manager)(nil)

// State is the non-secret record of the current login.
type State struct {
	Username    string    `json:"username"`
	ClientID    string    `json:"client_id"`
	LoginURL    string    `json:"login_url"`
	InstanceURL string    `json:"instance_url"`
	LoggedInAt  time.Time `json:"logged_in_at"`
}

// loadState reads the login record. Missing state yields the zero value.
func loadState(st Store) (State, error) {
	var s State
	data, err := st.LoadAuthState()
	if err != nil {
		if errors.Is(err, keychain.ErrNotFound) {
			return s, nil
		}
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}
	return s, nil
}

// saveState writes the login record.
func saveState(st Store, s State) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return st.SaveAuthState(b)
}
