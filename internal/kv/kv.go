package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inovacc/journal/internal/model"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// UpdateFunc receives the current value (nil when absent) and returns the value to store.
// Returning an error aborts the update and leaves the stored value untouched.
type UpdateFunc func(old []byte) ([]byte, error)

// Store is a persistent string-keyed byte store.
type Store interface {
	// Get returns the value for key, or nil, nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update runs fn and stores its result under key as one atomic step.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	Ping(ctx context.Context) error
	Close() error
}

// Open creates the backend named by cfg.Backend.
func Open(ctx context.Context, cfg model.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "bolt", "bbolt":
		return NewBolt(cfg.Path)
	case "sqlite":
		return NewSQLite(ctx, cfg.Path)
	case "postgres", "postgresql":
		return NewPostgres(ctx, cfg.DSN)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
