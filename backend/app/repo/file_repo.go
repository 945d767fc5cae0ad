package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jkwi-ims/backend/app/models"
)

// ErrCorrupt marks a record file that exists but does not decode.
var ErrCorrupt = errors.New("corrupt record file")

// FileRepository stores one JSON document per file in a single directory.
// Writes go straight to the final name; the last writer wins.
type FileRepository struct{ dir string }

func NewFileRepository(dir string) *FileRepository { return &FileRepository{dir: dir} }

func (r *FileRepository) Dir() string { return r.dir }

func (r *FileRepository) Ensure() error { return os.MkdirAll(r.dir, 0o755) }

func (r *FileRepository) Write(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Read decodes one file into v. A decode failure wraps ErrCorrupt.
func (r *FileRepository) Read(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w %s: %v", ErrCorrupt, name, err)
	}
	return nil
}

// Names lists the *.json files starting with prefix, in directory order.
func (r *FileRepository) Names(prefix string) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", r.dir, err)
	}
	var out []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, prefix) || !strings.HasSuffix(n, ".json") {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Records decodes every file Names(prefix) returns. When skip is nil the
// first corrupt file aborts the whole listing; otherwise skip is told about
// each corrupt file and the listing goes on.
func (r *FileRepository) Records(prefix string, skip func(name string, err error)) ([]models.Record, error) {
	names, err := r.Names(prefix)
	if err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(names))
	for _, n := range names {
		var rec models.Record
		if err := r.Read(n, &rec); err != nil {
			if skip != nil && errors.Is(err, ErrCorrupt) {
				skip(n, err)
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
