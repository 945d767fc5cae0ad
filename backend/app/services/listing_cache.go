package services

import (
	"context"
	"sync"

	"jkwi-ims/backend/app/models"
	"jkwi-ims/backend/global"

	"github.com/fsnotify/fsnotify"
)

// ListingCache holds decoded listings per directory until something in
// that directory changes.
type ListingCache struct {
	mu      sync.Mutex
	entries map[string][]models.Record
	gen     map[string]uint64
}

func NewListingCache() *ListingCache {
	return &ListingCache{entries: map[string][]models.Record{}, gen: map[string]uint64{}}
}

// Get returns the cached listing and the generation it belongs to. Pass the
// generation back to Put so a listing that raced an invalidation is dropped.
func (c *ListingCache) Get(dir string) ([]models.Record, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rs, ok := c.entries[dir]
	return rs, c.gen[dir], ok
}

func (c *ListingCache) Put(dir string, gen uint64, rs []models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[dir] != gen {
		return
	}
	c.entries[dir] = rs
}

func (c *ListingCache) Invalidate(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, dir)
	c.gen[dir]++
}

// Watch invalidates a directory's entry on any change inside it, until ctx
// ends.
func (c *ListingCache) Watch(ctx context.Context, dirs ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return err
		}
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				for _, d := range dirs {
					if isIn(d, ev.Name) {
						c.Invalidate(d)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				global.Logger.Warn().Err(err).Msg("listing watcher")
				for _, d := range dirs {
					c.Invalidate(d)
				}
			}
		}
	}()
	return nil
}
