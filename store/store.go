// Package store is the admin console's record store: company profile,
// directors, divisions, partnerships, members and the activity log, plus
// backups kept beside (never inside) that data. Every mutating call rewrites
// the whole data blob.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"jkwi-ims/store/blob"

	"github.com/rs/zerolog"
)

const (
	DataKey    = "jkwi_data"
	BackupsKey = "jkwi_backups"

	maxActivities = 50
)

type Store struct {
	mu      sync.Mutex
	blobs   blob.Store
	now     func() time.Time
	log     zerolog.Logger
	data    Data
	backups []Backup
	lastID  ID
}

type Option func(*Store)

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// New returns a store holding the defaults; nothing is read or written.
func New(blobs blob.Store, opts ...Option) *Store {
	s := &Store{blobs: blobs, now: time.Now, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	s.data = Defaults(s.now().UTC())
	s.resetCounter()
	return s
}

// Open is New followed by Load.
func Open(ctx context.Context, blobs blob.Store, opts ...Option) (*Store, error) {
	s := New(blobs, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load rehydrates from the blob store. A missing data key keeps the
// defaults; a present one replaces the defaults key by key.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.blobs.Get(ctx, DataKey)
	switch {
	case errors.Is(err, blob.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load data: %w", err)
	default:
		merged, err := mergeTopLevel(Defaults(s.now().UTC()), raw)
		if err != nil {
			return fmt.Errorf("decode %s: %w", DataKey, err)
		}
		s.data = merged
	}

	raw, err = s.blobs.Get(ctx, BackupsKey)
	switch {
	case errors.Is(err, blob.ErrNotFound):
		s.backups = nil
	case err != nil:
		return fmt.Errorf("load backups: %w", err)
	default:
		var backups []Backup
		if err := json.Unmarshal(raw, &backups); err != nil {
			return fmt.Errorf("decode %s: %w", BackupsKey, err)
		}
		s.backups = backups
	}
	s.resetCounter()
	s.log.Debug().Int("members", len(s.data.Members)).Int("backups", len(s.backups)).Msg("store loaded")
	return nil
}

// Save writes the data blob.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveData(ctx)
}

func (s *Store) saveData(ctx context.Context) error {
	b, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	if err := s.blobs.Put(ctx, DataKey, b); err != nil {
		return fmt.Errorf("persist data: %w", err)
	}
	return nil
}

func (s *Store) saveBackups(ctx context.Context) error {
	b, err := json.Marshal(s.backups)
	if err != nil {
		return fmt.Errorf("encode backups: %w", err)
	}
	if err := s.blobs.Put(ctx, BackupsKey, b); err != nil {
		return fmt.Errorf("persist backups: %w", err)
	}
	return nil
}

// mergeTopLevel decodes raw over base one top-level key at a time: a key
// present in raw fully replaces the base value (an empty list stays empty),
// an absent key keeps the base value. Nested fields are never merged.
func mergeTopLevel(base Data, raw []byte) (Data, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Data{}, err
	}
	out := base.clone()
	var (
		company      Company
		directors    []Director
		divisions    []Division
		partnerships []Partnership
		members      []Member
		activities   []Activity
	)
	steps := []struct {
		key    string
		dst    any
		assign func()
	}{
		{"company", &company, func() { out.Company = company }},
		{"directors", &directors, func() { out.Directors = orEmpty(directors) }},
		{"divisions", &divisions, func() { out.Divisions = orEmpty(divisions) }},
		{"partnerships", &partnerships, func() { out.Partnerships = orEmpty(partnerships) }},
		{"members", &members, func() { out.Members = orEmpty(members) }},
		{"activities", &activities, func() { out.Activities = orEmpty(activities) }},
	}
	for _, st := range steps {
		v, ok := fields[st.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, st.dst); err != nil {
			return Data{}, fmt.Errorf("%s: %w", st.key, err)
		}
		st.assign()
	}
	return out, nil
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// resetCounter moves the id counter past every id the store knows about. It
// never moves backwards, so ids stay unique across restores.
func (s *Store) resetCounter() {
	m := s.lastID
	consider := func(d Data) {
		for _, id := range []ID{maxID(d.Directors), maxID(d.Divisions), maxID(d.Partnerships), maxID(d.Members), maxID(d.Activities)} {
			if id > m {
				m = id
			}
		}
	}
	consider(s.data)
	for _, b := range s.backups {
		if b.ID > m {
			m = b.ID
		}
		consider(b.Data)
	}
	s.lastID = m
}

func (s *Store) nextID() ID {
	s.lastID++
	return s.lastID
}

// logActivity prepends an entry and trims the log to the newest 50.
func (s *Store) logActivity(desc string) {
	a := Activity{ID: s.nextID(), Description: desc, Timestamp: s.now().UTC()}
	s.data.Activities = append([]Activity{a}, s.data.Activities...)
	if len(s.data.Activities) > maxActivities {
		s.data.Activities = s.data.Activities[:maxActivities]
	}
}

// commit records the activity and persists. The in-memory change is kept
// even if the write fails.
func (s *Store) commit(ctx context.Context, activity string) error {
	s.logActivity(activity)
	if err := s.saveData(ctx); err != nil {
		s.log.Error().Err(err).Str("activity", activity).Msg("persist failed")
		return err
	}
	return nil
}

func (s *Store) Activities() []Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.data.Activities)
}

func (s *Store) Partnerships() []Partnership {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.data.Partnerships)
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalMembers:    len(s.data.Members),
		TotalDirectors:  len(s.data.Directors),
		TotalDivisions:  len(s.data.Divisions),
		TotalActivities: len(s.data.Activities),
	}
}

// Snapshot returns a deep copy of the current data.
func (s *Store) Snapshot() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}
