package blob

import (
	"context"
	"fmt"
	"io"
)

// Config selects and parameterizes a backend.
type Config struct {
	Driver        string // memory | file | sqlite | mysql | redis
	Path          string // directory for file, database path for sqlite
	DSN           string // mysql dsn
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the configured backend. The returned closer is never nil.
func Open(ctx context.Context, cfg Config) (Store, io.Closer, error) {
	switch cfg.Driver {
	case "", "file":
		s, err := NewFile(cfg.Path)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return s, nopCloser{}, nil
	case "memory":
		return NewMemory(), nopCloser{}, nil
	case "sqlite":
		s, err := OpenSQL("sqlite", cfg.Path)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return s, s, nil
	case "mysql":
		s, err := OpenSQL("mysql", cfg.DSN)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return s, s, nil
	case "redis":
		s, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return s, s, nil
	}
	return nil, nopCloser{}, fmt.Errorf("blob: unknown driver %q", cfg.Driver)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
