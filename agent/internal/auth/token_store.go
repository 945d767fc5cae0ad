package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps the bearer token in memory and mirrors it to a 0600 file
// so it survives restarts.
type FileStore struct {
	path string
	mu   sync.Mutex
	tok  string
}

// Open loads the token saved at path, if any.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read token: %w", err)
	default:
		s.tok = strings.TrimSpace(string(b))
	}
	return s, nil
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	s.tok = token
	return nil
}

// Clear forgets the token and removes the file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
