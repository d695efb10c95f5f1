package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"FilingWatch/internal/ports"
)

// ledgerState is the on-disk document shape.
type ledgerState struct {
	SeenKeys []string `json:"seenKeys"`
}

// JSONStore persists seen keys as a single JSON document. Writes go through
// a temp file in the same directory followed by a rename, so a crash leaves
// either the old or the new document intact.
type JSONStore struct {
	path string
}

var _ ports.LedgerStore = (*JSONStore)(nil)

// NewJSONStore points the store at its document path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the persisted keys; a missing document is an empty ledger.
func (s *JSONStore) Load(_ context.Context) ([]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.path, err)
	}

	var state ledgerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", s.path, err)
	}
	return state.SeenKeys, nil
}

// Save atomically replaces the document with the given keys.
func (s *JSONStore) Save(_ context.Context, keys []string) error {
	payload, err := json.MarshalIndent(ledgerState{SeenKeys: keys}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace ledger %s: %w", s.path, err)
	}
	return nil
}
