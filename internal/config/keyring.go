package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "phonebook"

// ResolvePassword fills in the profile password from the OS keyring when the
// profile asks for it and none is configured. A missing keyring entry is an error.
func ResolvePassword(conn *Connection) error {
	if !conn.Keyring || conn.Password != "" {
		return nil
	}
	secret, err := keyring.Get(keyringService, conn.Name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no password stored in keyring for %q", conn.Name)
		}
		return fmt.Errorf("keyring: %w", err)
	}
	conn.Password = secret
	return nil
}

// StorePassword saves the password for the profile in the OS keyring.
func StorePassword(conn Connection, password string) error {
	if conn.Name == "" {
		return fmt.Errorf("keyring: connection has no name")
	}
	if err := keyring.Set(keyringService, conn.Name, password); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	return nil
}
