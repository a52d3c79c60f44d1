// Stored client credentials for the locker CLI.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const credFileName = "credentials.json"

// tokenInfo is the login state the client commands keep between runs.
type tokenInfo struct {
	Token     string    `json:"token"`
	Login     string    `json:"login,omitempty"`
	Source    string    `json:"source"` // "env" | "file"
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func credFilePath() (string, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// loadToken returns the saved token. The LOCKER_TOKEN environment variable
// wins over the credentials file. A nil result means not logged in.
func loadToken() (*tokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv("LOCKER_TOKEN")); env != "" {
		return &tokenInfo{Token: env, Source: "env"}, nil
	}

	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var ti tokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &ti, nil
}

// saveToken writes the credentials file with owner-only permissions.
func saveToken(login, token string, expires time.Time) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty token")
	}

	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	ti := tokenInfo{
		Token:     token,
		Login:     login,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	p := filepath.Join(dir, credFileName)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// deleteToken removes the credentials file. A missing file is fine.
func deleteToken() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// requireToken returns the saved token or an error telling the user to log
// in. The expiry stamp is computed from the local token_ttl at login time;
// the server remains the authority either way.
func requireToken() (string, error) {
	ti, err := loadToken()
	if err != nil {
		return "", err
	}
	if ti == nil || ti.Token == "" {
		return "", errors.New(`not logged in: run "locker login" first (or set LOCKER_TOKEN)`)
	}
	if ti.Source == "file" && !ti.ExpiresAt.IsZero() && time.Now().After(ti.ExpiresAt) {
		return "", errors.New(`saved token has expired: run "locker login" again`)
	}
	return ti.Token, nil
}
