package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forcecursor/cli/internal/rest"
)

func TestCredentialRoundTrip(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))

	_, err := m.LoadCredential()
	assert.ErrorIs(t, err, ErrNotFound)

	cred := rest.Credential{AccessToken: "00D!abc", InstanceURL: "https://na1.example.com"}
	require.NoError(t, m.SaveCredential(cred))

	got, err := m.LoadCredential()
	require.NoError(t, err)
	assert.Equal(t, cred, got)

	require.NoError(t, m.ClearCredential())
	_, err = m.LoadCredential()
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing twice is fine.
	assert.NoError(t, m.ClearCredential())
}

func TestSaveCredential_Incomplete(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))
	assert.Error(t, m.SaveCredential(rest.Credential{AccessToken: "x"}))
}

func TestLoadCredential_Corrupt(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: KeyCredential, Data: []byte("{not json")}})
	m := NewManagerWithRing(ring)

	_, err := m.LoadCredential()
	assert.ErrorContains(t, err, "corrupt")
}

func TestAuthState(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))

	_, err := m.LoadAuthState()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SaveAuthState([]byte(`{"username":"a"}`)))
	data, err := m.LoadAuthState()
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"a"}`, string(data))

	require.NoError(t, m.SaveCredential(rest.Credential{AccessToken: "t", InstanceURL: "https://x"}))
	require.NoError(t, m.ClearAll())

	_, err = m.LoadAuthState()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.LoadCredential()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllowedBackends(t *testing.T) {
	assert.Equal(t, []keyring.BackendType{keyring.WinCredBackend}, allowedBackends("windows"))
	assert.Contains(t, allowedBackends("darwin"), keyring.KeychainBackend)
	assert.Contains(t, allowedBackends("linux"), keyring.SecretServiceBackend)
	assert.NotContains(t, allowedBackends("linux"), keyring.FileBackend)
	assert.Empty(t, allowedBackends("plan9"))
}
