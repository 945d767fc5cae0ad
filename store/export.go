package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ExportJSON renders the current data, without backups, as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.data, "", "  ")
}

// ImportJSON merges raw over the current data one top-level key at a time.
// Invalid input leaves the store unchanged.
func (s *Store) ImportJSON(ctx context.Context, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged, err := mergeTopLevel(s.data, raw)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.data = merged
	s.resetCounter()
	return s.commit(ctx, "Data imported successfully")
}
