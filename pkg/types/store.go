package types

import (
	"context"
	"errors"
	"time"
)

// Store defines backend-agnostic access to Locker state. Callers attach to a
// backend, work through the typed accessors, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, accessors return ErrStoreDetached.
	Detach() error

	// Users returns the user accessor, or ErrStoreDetached.
	Users() (UserStore, error)

	// Items returns the item accessor, or ErrStoreDetached.
	Items() (ItemStore, error)

	// Sendings returns the sending accessor, or ErrStoreDetached.
	Sendings() (SendingStore, error)
}

// UserStore persists user accounts and their auth tokens.
type UserStore interface {
	// Create inserts a new user. Returns ErrLoginTaken when the login
	// already exists.
	Create(ctx context.Context, user *User) error

	// GetByLogin returns the user with the given login, or ErrNotFound.
	GetByLogin(ctx context.Context, login string) (*User, error)

	// GetByToken returns the user holding token, provided the token has not
	// expired as of now. Returns ErrNotFound for unknown and expired tokens
	// alike.
	GetByToken(ctx context.Context, token string, now time.Time) (*User, error)

	// SetToken stores a fresh token and its expiry for the user.
	SetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]*User, error)
}

// ItemStore persists items and their ownership.
type ItemStore interface {
	// Create inserts a new item and fills in its ID.
	Create(ctx context.Context, item *Item) error

	// Get returns the item with the given ID, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Item, error)

	// Delete removes the item and every pending sending that references it,
	// in one transaction. Returns ErrNotFound when the item does not exist.
	Delete(ctx context.Context, id int64) error

	// ListByUser returns the items owned by userID, ordered by ID.
	ListByUser(ctx context.Context, userID int64) ([]*Item, error)

	// List returns all items ordered by ID.
	List(ctx context.Context) ([]*Item, error)
}

// SendingStore persists pending item transfers.
type SendingStore interface {
	// Initiate records a pending transfer and returns its confirmation
	// token. Idempotent per (item, from, to): repeating an identical send
	// returns the token recorded the first time.
	Initiate(ctx context.Context, itemID, fromUserID, toUserID int64) (*Sending, error)

	// GetByToken returns the sending with the given confirmation token,
	// or ErrNotFound.
	GetByToken(ctx context.Context, token string) (*Sending, error)

	// Complete transfers the item to the sending's recipient and removes
	// every pending sending of that item, in one transaction. Returns
	// ErrNotFound when no sending carries token, ErrSendingStale when the
	// item is no longer owned by the sender.
	Complete(ctx context.Context, token string) error

	// List returns all pending sendings ordered by ID.
	List(ctx context.Context) ([]*Sending, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Accessor operation errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrLoginTaken   = errors.New("login already taken")
	ErrSendingStale = errors.New("sending no longer matches item ownership")
)
