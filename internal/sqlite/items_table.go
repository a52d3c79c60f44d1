// This file implements the items table accessor for the SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lockerhq/locker/pkg/types"
)

// Compile-time interface check: itemsTable must implement ItemStore.
var _ types.ItemStore = (*itemsTable)(nil)

// itemsTable implements the ItemStore interface.
type itemsTable struct {
	backend *Backend
}

// Create inserts a new item owned by item.UserID and fills in its ID.
func (it *itemsTable) Create(ctx context.Context, item *types.Item) error {
	res, err := it.backend.db.ExecContext(ctx,
		"INSERT INTO items (user_id, name) VALUES (?, ?)",
		item.UserID, item.Name,
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading item id: %w", err)
	}
	item.ID = id
	return nil
}

// Get retrieves an item by ID.
func (it *itemsTable) Get(ctx context.Context, id int64) (*types.Item, error) {
	row := it.backend.db.QueryRowContext(ctx,
		"SELECT id, user_id, name FROM items WHERE id = ?", id,
	)
	var item types.Item
	if err := row.Scan(&item.ID, &item.UserID, &item.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting item %d: %w", id, err)
	}
	return &item, nil
}

// Delete removes an item and every pending sending that references it,
// in one transaction.
func (it *itemsTable) Delete(ctx context.Context, id int64) error {
	tx, err := it.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM items WHERE id = ?", id,
	).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking item existence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM sendings WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("deleting item sendings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// ListByUser returns the items owned by userID, ordered by ID.
func (it *itemsTable) ListByUser(ctx context.Context, userID int64) ([]*types.Item, error) {
	return it.list(ctx,
		"SELECT id, user_id, name FROM items WHERE user_id = ? ORDER BY id ASC", userID)
}

// List returns all items ordered by ID.
func (it *itemsTable) List(ctx context.Context) ([]*types.Item, error) {
	return it.list(ctx, "SELECT id, user_id, name FROM items ORDER BY id ASC")
}

func (it *itemsTable) list(ctx context.Context, query string, args ...any) ([]*types.Item, error) {
	rows, err := it.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []*types.Item{}
	for rows.Next() {
		var item types.Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name); err != nil {
			return nil, fmt.Errorf("hydrating item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}
