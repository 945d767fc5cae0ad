package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"jkwi-ims/store/blob"
)

// QueueKey is the blob key holding the pending requests.
const QueueKey = "jkwi_offline_queue"

// Entry is one request waiting for connectivity. ID is only a display
// handle; replay does not deduplicate on it.
type Entry struct {
	ID        string          `json:"id"`
	Endpoint  string          `json:"endpoint"`
	Method    string          `json:"method"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Queue is a FIFO of entries, written through to a blob store on every
// change.
type Queue struct {
	mu      sync.Mutex
	blobs   blob.Store
	entries []Entry
}

// LoadQueue restores the queue saved under QueueKey, or starts empty.
func LoadQueue(ctx context.Context, blobs blob.Store) (*Queue, error) {
	q := &Queue{blobs: blobs}
	raw, err := blobs.Get(ctx, QueueKey)
	switch {
	case errors.Is(err, blob.ErrNotFound):
		return q, nil
	case err != nil:
		return nil, fmt.Errorf("load queue: %w", err)
	}
	if err := json.Unmarshal(raw, &q.entries); err != nil {
		return nil, fmt.Errorf("decode queue: %w", err)
	}
	return q, nil
}

func (q *Queue) Push(ctx context.Context, e Entry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, e)
	return q.persist(ctx)
}

// Take empties the queue and returns what it held, oldest first.
func (q *Queue) Take(ctx context.Context) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.entries
	q.entries = nil
	return out, q.persist(ctx)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *Queue) persist(ctx context.Context) error {
	entries := q.entries
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}
	if err := q.blobs.Put(ctx, QueueKey, b); err != nil {
		return fmt.Errorf("persist queue: %w", err)
	}
	return nil
}
