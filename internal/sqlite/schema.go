package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables. IF NOT EXISTS keeps Attach idempotent across
// restarts; the database file is the source of truth.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    login TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    token TEXT UNIQUE,
    token_expires_at TEXT
);`

	createItems = `CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);`

	createSendings = `CREATE TABLE IF NOT EXISTS sendings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id INTEGER NOT NULL,
    from_user_id INTEGER NOT NULL,
    to_user_id INTEGER NOT NULL,
    token TEXT NOT NULL UNIQUE,
    FOREIGN KEY (item_id) REFERENCES items(id),
    FOREIGN KEY (from_user_id) REFERENCES users(id),
    FOREIGN KEY (to_user_id) REFERENCES users(id)
);`
)

// Index DDL for common queries.
const (
	idxUsersToken      = `CREATE INDEX IF NOT EXISTS idx_users_token ON users(token);`
	idxItemsUser       = `CREATE INDEX IF NOT EXISTS idx_items_user ON items(user_id);`
	idxSendingsItem    = `CREATE INDEX IF NOT EXISTS idx_sendings_item ON sendings(item_id);`
	idxSendingsUnique  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_sendings_unique ON sendings(item_id, from_user_id, to_user_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createUsers,
	createItems,
	createSendings,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxUsersToken,
	idxItemsUser,
	idxSendingsItem,
	idxSendingsUnique,
}

// applySchema executes all table and index DDL against db.
func applySchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
