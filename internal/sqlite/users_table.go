// This file implements the users table accessor for the SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lockerhq/locker/pkg/types"
)

// Compile-time interface check: usersTable must implement UserStore.
var _ types.UserStore = (*usersTable)(nil)

// usersTable implements the UserStore interface. Each operation hydrates
// between SQLite rows and *types.User structs. Token expiry is stored as
// RFC3339 text and compared in Go.
type usersTable struct {
	backend *Backend
}

// Create inserts a new user. The login must be unique; Create returns
// ErrLoginTaken when a user with the same login already exists.
func (ut *usersTable) Create(ctx context.Context, user *types.User) error {
	tx, err := ut.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE login = ?", user.Login,
	).Scan(&exists)
	if err == nil {
		return types.ErrLoginTaken
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking login: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (login, password_hash, token, token_expires_at) VALUES (?, ?, ?, ?)",
		user.Login, user.PasswordHash, nullableToken(user.Token), nullableTime(user.TokenExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user: %w", err)
	}

	user.ID = id
	return nil
}

// GetByLogin retrieves a user by login.
func (ut *usersTable) GetByLogin(ctx context.Context, login string) (*types.User, error) {
	row := ut.backend.db.QueryRowContext(ctx,
		"SELECT id, login, password_hash, token, token_expires_at FROM users WHERE login = ?",
		login,
	)
	user, err := hydrateUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %s: %w", login, err)
	}
	return user, nil
}

// GetByToken retrieves the user holding token. Unknown tokens and tokens
// past their expiry both return ErrNotFound.
func (ut *usersTable) GetByToken(ctx context.Context, token string, now time.Time) (*types.User, error) {
	if token == "" {
		return nil, types.ErrNotFound
	}

	row := ut.backend.db.QueryRowContext(ctx,
		"SELECT id, login, password_hash, token, token_expires_at FROM users WHERE token = ?",
		token,
	)
	user, err := hydrateUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting user by token: %w", err)
	}
	if !user.TokenValid(now) {
		return nil, types.ErrNotFound
	}
	return user, nil
}

// SetToken stores a fresh token and expiry for the user.
func (ut *usersTable) SetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	res, err := ut.backend.db.ExecContext(ctx,
		"UPDATE users SET token = ?, token_expires_at = ? WHERE id = ?",
		token, expiresAt.UTC().Format(time.RFC3339), userID,
	)
	if err != nil {
		return fmt.Errorf("updating token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// List returns all users ordered by ID.
func (ut *usersTable) List(ctx context.Context) ([]*types.User, error) {
	rows, err := ut.backend.db.QueryContext(ctx,
		"SELECT id, login, password_hash, token, token_expires_at FROM users ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []*types.User{}
	for rows.Next() {
		user, err := hydrateUserFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// hydrateUser converts a single SQLite row into a *types.User.
func hydrateUser(row *sql.Row) (*types.User, error) {
	var u types.User
	var token, expiresAt sql.NullString
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &token, &expiresAt); err != nil {
		return nil, err
	}
	return fillUserToken(&u, token, expiresAt)
}

// hydrateUserFromRows converts a row from sql.Rows into a *types.User.
func hydrateUserFromRows(rows *sql.Rows) (*types.User, error) {
	var u types.User
	var token, expiresAt sql.NullString
	if err := rows.Scan(&u.ID, &u.Login, &u.PasswordHash, &token, &expiresAt); err != nil {
		return nil, err
	}
	return fillUserToken(&u, token, expiresAt)
}

// fillUserToken applies the nullable token columns to the user.
func fillUserToken(u *types.User, token, expiresAt sql.NullString) (*types.User, error) {
	if token.Valid {
		u.Token = token.String
	}
	if expiresAt.Valid && expiresAt.String != "" {
		t, err := time.Parse(time.RFC3339, expiresAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing token_expires_at: %w", err)
		}
		u.TokenExpiresAt = t
	}
	return u, nil
}

// nullableToken maps an empty token to NULL so the UNIQUE constraint on
// users.token ignores users that never logged in.
func nullableToken(token string) any {
	if token == "" {
		return nil
	}
	return token
}

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
