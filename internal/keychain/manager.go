// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain keeps the CLI's secrets in the OS credential store.
// The access credential and the login settings are stored as JSON items under
// the forcecursor service name; nothing secret is written to the config file.
package keychain

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"forcecursor/cli/internal/rest"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when the requested item is not stored.
var ErrNotFound = errors.New("not found in keychain")

// Manager provides thread-safe operations on one keyring.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "forcecursor"

// Keys used for storing items in the OS keychain.
const (
	KeyCredential = "credential"
	KeyAuthState  = "auth_state"
)

// NewManager creates a manager on the native OS keyring.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// allowedBackends lists the native backends for the running OS.
func allowedBackends(goos string) []keyring.BackendType {
	switch goos {
	case "darwin":
		// pass is the fallback where the login keychain is locked down
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.KeyCtlBackend,
		}
	default:
		return nil
	}
}

// openRing opens the OS keyring using native platform backends only.
// There is no file fallback.
func openRing() (keyring.Keyring, error) {
	backends := allowedBackends(runtime.GOOS)
	if len(backends) == 0 {
		return nil, fmt.Errorf("secure storage not supported on %s", runtime.GOOS)
	}

	cfg := keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          backends,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  "login",
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
		KeyCtlScope:              "user",
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// SaveCredential stores cred as a JSON item.
// This method is thread-safe.
func (m *Manager) SaveCredential(cred rest.Credential) error {
	if !cred.Valid() {
		return errors.New("refusing to store an incomplete credential")
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return m.set(KeyCredential, "forcecursor access token", data)
}

// LoadCredential returns the stored credential, or ErrNotFound.
// This method is thread-safe.
func (m *Manager) LoadCredential() (rest.Credential, error) {
	var cred rest.Credential
	data, err := m.get(KeyCredential)
	if err != nil {
		return cred, err
	}
	if err := json.Unmarshal(data, &cred); err != nil {
		return rest.Credential{}, fmt.Errorf("stored credential is corrupt: %w", err)
	}
	if !cred.Valid() {
		return rest.Credential{}, ErrNotFound
	}
	return cred, nil
}

// ClearCredential removes the stored credential. Missing items are ignored.
func (m *Manager) ClearCredential() error {
	return m.remove(KeyCredential)
}

// SaveAuthState stores serialized auth state in the keychain.
func (m *Manager) SaveAuthState(data []byte) error {
	return m.set(KeyAuthState, "forcecursor login settings", data)
}

// LoadAuthState retrieves serialized auth state, or ErrNotFound.
func (m *Manager) LoadAuthState() ([]byte, error) {
	return m.get(KeyAuthState)
}

// ClearAuthState removes the stored auth state from the keychain.
func (m *Manager) ClearAuthState() error {
	return m.remove(KeyAuthState)
}

// ClearAll removes every item this CLI stores.
func (m *Manager) ClearAll() error {
	return errors.Join(m.remove(KeyCredential), m.remove(KeyAuthState))
}

func (m *Manager) set(key, label string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: key, Data: data, Label: label})
}

func (m *Manager) get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(it.Data) == 0 {
		return nil, ErrNotFound
	}
	return it.Data, nil
}

func (m *Manager) remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
