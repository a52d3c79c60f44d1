// This file implements the sendings table accessor for the SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lockerhq/locker/pkg/types"
)

// Compile-time interface check: sendingsTable must implement SendingStore.
var _ types.SendingStore = (*sendingsTable)(nil)

// sendingsTable implements the SendingStore interface. A sending row exists
// from initiation until any transfer of its item completes or the item is
// deleted.
type sendingsTable struct {
	backend *Backend
}

// Initiate records a pending transfer and returns it. Repeating an identical
// (item, from, to) send returns the sending recorded the first time, so the
// confirmation URL is stable across retries.
func (st *sendingsTable) Initiate(ctx context.Context, itemID, fromUserID, toUserID int64) (*types.Sending, error) {
	tx, err := st.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, item_id, from_user_id, to_user_id, token FROM sendings WHERE item_id = ? AND from_user_id = ? AND to_user_id = ?",
		itemID, fromUserID, toUserID,
	)
	existing, err := hydrateSending(row)
	if err == nil {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing sending lookup: %w", err)
		}
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking existing sending: %w", err)
	}

	sending := &types.Sending{
		ItemID:     itemID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Token:      types.NewToken(),
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO sendings (item_id, from_user_id, to_user_id, token) VALUES (?, ?, ?, ?)",
		sending.ItemID, sending.FromUserID, sending.ToUserID, sending.Token,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting sending: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading sending id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sending: %w", err)
	}

	sending.ID = id
	return sending, nil
}

// GetByToken retrieves a sending by its confirmation token.
func (st *sendingsTable) GetByToken(ctx context.Context, token string) (*types.Sending, error) {
	if token == "" {
		return nil, types.ErrNotFound
	}

	row := st.backend.db.QueryRowContext(ctx,
		"SELECT id, item_id, from_user_id, to_user_id, token FROM sendings WHERE token = ?",
		token,
	)
	sending, err := hydrateSending(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting sending by token: %w", err)
	}
	return sending, nil
}

// Complete transfers the item to the sending's recipient and removes every
// pending sending of that item, in one transaction. The ownership update is
// conditional on the sender still owning the item; when the condition fails
// the transaction is rolled back and ErrSendingStale is returned.
func (st *sendingsTable) Complete(ctx context.Context, token string) error {
	tx, err := st.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, item_id, from_user_id, to_user_id, token FROM sendings WHERE token = ?",
		token,
	)
	sending, err := hydrateSending(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		return fmt.Errorf("getting sending: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE items SET user_id = ? WHERE id = ? AND user_id = ?",
		sending.ToUserID, sending.ItemID, sending.FromUserID,
	)
	if err != nil {
		return fmt.Errorf("transferring item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return types.ErrSendingStale
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sendings WHERE item_id = ?", sending.ItemID,
	); err != nil {
		return fmt.Errorf("clearing item sendings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}
	return nil
}

// List returns all pending sendings ordered by ID.
func (st *sendingsTable) List(ctx context.Context) ([]*types.Sending, error) {
	rows, err := st.backend.db.QueryContext(ctx,
		"SELECT id, item_id, from_user_id, to_user_id, token FROM sendings ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("listing sendings: %w", err)
	}
	defer rows.Close()

	sendings := []*types.Sending{}
	for rows.Next() {
		var s types.Sending
		if err := rows.Scan(&s.ID, &s.ItemID, &s.FromUserID, &s.ToUserID, &s.Token); err != nil {
			return nil, fmt.Errorf("hydrating sending: %w", err)
		}
		sendings = append(sendings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sendings: %w", err)
	}
	return sendings, nil
}

// hydrateSending converts a single SQLite row into a *types.Sending.
func hydrateSending(row *sql.Row) (*types.Sending, error) {
	var s types.Sending
	if err := row.Scan(&s.ID, &s.ItemID, &s.FromUserID, &s.ToUserID, &s.Token); err != nil {
		return nil, err
	}
	return &s, nil
}
