// This file provides the JSONL export with atomic file writes.
package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Export file names, one per table.
const (
	usersJSONL    = "users.jsonl"
	itemsJSONL    = "items.jsonl"
	sendingsJSONL = "sendings.jsonl"
)

// ExportJSONL writes the full database contents to dir as one JSONL file per
// table. Each file is written atomically, so a crash mid-export never leaves
// a truncated file behind.
func (b *Backend) ExportJSONL(ctx context.Context, dir string) error {
	users, err := b.Users()
	if err != nil {
		return err
	}
	items, err := b.Items()
	if err != nil {
		return err
	}
	sendings, err := b.Sendings()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	allUsers, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	records, err := marshalRecords(allUsers)
	if err != nil {
		return fmt.Errorf("marshaling users: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, usersJSONL), records); err != nil {
		return fmt.Errorf("writing %s: %w", usersJSONL, err)
	}

	allItems, err := items.List(ctx)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	records, err = marshalRecords(allItems)
	if err != nil {
		return fmt.Errorf("marshaling items: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, itemsJSONL), records); err != nil {
		return fmt.Errorf("writing %s: %w", itemsJSONL, err)
	}

	allSendings, err := sendings.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sendings: %w", err)
	}
	records, err = marshalRecords(allSendings)
	if err != nil {
		return fmt.Errorf("marshaling sendings: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, sendingsJSONL), records); err != nil {
		return fmt.Errorf("writing %s: %w", sendingsJSONL, err)
	}

	return nil
}

// marshalRecords converts a slice of entities into one JSON record per entry.
func marshalRecords[T any](entities []T) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(entities))
	for _, e := range entities {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		records = append(records, data)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
