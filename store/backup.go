package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// CreateBackup snapshots the current data before the "Backup created"
// activity is logged, so a later restore brings back exactly this state.
func (s *Store) CreateBackup(ctx context.Context) (Backup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	b := Backup{
		ID:        s.nextID(),
		Name:      fmt.Sprintf("Backup_%s_%d", now.Format("2006-01-02"), now.UnixMilli()),
		Data:      s.data.clone(),
		CreatedAt: now,
	}
	s.backups = append(s.backups, b)
	// The backups key is written even when the data write fails, so the
	// snapshot held in memory survives the next Load.
	dataErr := s.commit(ctx, "Backup created: "+b.Name)
	if err := s.saveBackups(ctx); err != nil {
		return b, errors.Join(dataErr, err)
	}
	return b, dataErr
}

// RestoreBackup replaces the live data with the backup's snapshot. It
// reports false when id is unknown.
func (s *Store) RestoreBackup(ctx context.Context, id ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.backups, id)
	if i < 0 {
		return false, nil
	}
	b := s.backups[i]
	s.data = b.Data.clone()
	s.resetCounter()
	if err := s.saveData(ctx); err != nil {
		s.log.Error().Err(err).Str("backup", b.Name).Msg("persist restored data")
		return true, err
	}
	s.log.Info().Str("backup", b.Name).Msg("backup restored")
	return true, nil
}

func (s *Store) Backups() []Backup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Backup, len(s.backups))
	for i, b := range s.backups {
		b.Data = b.Data.clone()
		out[i] = b
	}
	return out
}

// BackupJSON renders a backup's data the way it is offered for download.
func (s *Store) BackupJSON(id ID) (Backup, []byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.backups, id)
	if i < 0 {
		return Backup{}, nil, false, nil
	}
	b := s.backups[i]
	raw, err := json.MarshalIndent(b.Data, "", "  ")
	if err != nil {
		return b, nil, true, fmt.Errorf("encode backup %s: %w", b.Name, err)
	}
	return b, raw, true, nil
}

func (s *Store) DeleteBackup(ctx context.Context, id ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.backups, id)
	if i < 0 {
		return false, nil
	}
	s.backups = append(s.backups[:i], s.backups[i+1:]...)
	return true, s.saveBackups(ctx)
}
