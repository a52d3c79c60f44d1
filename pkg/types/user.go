package types

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account.
type User struct {
	ID             int64     `json:"id"`               // Autoincrement, assigned on creation.
	Login          string    `json:"login"`            // Unique across all users.
	PasswordHash   string    `json:"password_hash"`    // bcrypt hash, never the plaintext.
	Token          string    `json:"token"`            // Current auth token, empty before first login.
	TokenExpiresAt time.Time `json:"token_expires_at"` // Zero when no token has been issued.
}

// SetPassword hashes plain with bcrypt and stores the hash.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// TokenValid reports whether the user holds a token that has not expired
// as of now.
func (u *User) TokenValid(now time.Time) bool {
	return u.Token != "" && now.Before(u.TokenExpiresAt)
}
