// Package sqlite implements the SQLite storage backend for Locker.
// The database file is the source of truth; the schema is applied on
// Attach and survives restarts.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lockerhq/locker/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "locker.db"

// maxOpenConns caps the connection pool. WAL mode allows readers to
// proceed while a single writer holds the lock.
const maxOpenConns = 20

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on a SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	users    *usersTable
	items    *itemsTable
	sendings *sendingsTable
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, opens the database, applies the
// schema, and creates the typed accessors.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(filepath.Join(dataDir, dbFileName)))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	if err := applySchema(db); err != nil {
		db.Close()
		return fmt.Errorf("applying schema: %w", err)
	}

	b.db = db
	b.config = config
	b.users = &usersTable{backend: b}
	b.items = &itemsTable{backend: b}
	b.sendings = &sendingsTable{backend: b}
	b.attached = true

	return nil
}

// Detach releases all resources held by the backend. After Detach,
// accessors return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}

	b.attached = false
	b.users = nil
	b.items = nil
	b.sendings = nil

	return nil
}

// Users returns the user accessor, or ErrStoreDetached.
func (b *Backend) Users() (types.UserStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.users, nil
}

// Items returns the item accessor, or ErrStoreDetached.
func (b *Backend) Items() (types.ItemStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.items, nil
}

// Sendings returns the sending accessor, or ErrStoreDetached.
func (b *Backend) Sendings() (types.SendingStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.sendings, nil
}

// dsn builds the database connection string. busy_timeout keeps concurrent
// writers queued instead of failing, foreign_keys enforces the schema's
// references, and WAL lets readers run alongside a writer.
func dsn(path string) string {
	return "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)"
}
