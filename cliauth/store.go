package cliauth

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"
)

const defaultKeychainAccount = "default"

// KeychainStore persists credentials using the OS keychain
// (macOS Keychain, Windows Credential Manager, Linux Secret Service).
//
// Sessions are keyed by (service, account) where account is derived from the
// API host, so sessions against different backends do not clobber each other.
type KeychainStore struct {
	serviceName string
	account     string
}

// NewKeychainStore creates a KeychainStore that stores credentials under the
// given application name as the keychain service name. account scopes the
// entry to one backend; pass "" for the default account.
func NewKeychainStore(appName, account string) *KeychainStore {
	if account == "" {
		account = defaultKeychainAccount
	}
	return &KeychainStore{serviceName: appName, account: account}
}

// Save persists a session token to the keychain.
func (s *KeychainStore) Save(_ context.Context, token []byte) error {
	return keyring.Set(s.serviceName, s.account, string(token))
}

// Load retrieves the stored session token from the keychain.
// Returns ErrNotFound if no credential is stored.
func (s *KeychainStore) Load(_ context.Context) ([]byte, error) {
	secret, err := keyring.Get(s.serviceName, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(secret), nil
}

// Delete removes the stored session token from the keychain.
// Returns ErrNotFound if no credential is stored.
func (s *KeychainStore) Delete(_ context.Context) error {
	err := keyring.Delete(s.serviceName, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
