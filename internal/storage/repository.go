// Package storage contains the storage-agnostic repository contract for the
// warehouse sink plus a small factory keyed by backend kind. Backends register
// themselves at init time; callers select one through configuration without
// importing backend packages directly.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the minimal surface the warehouse build needs from a backend:
// executing DDL and bulk-loading rows into a named table.
type Repository interface {
	// Exec executes an arbitrary SQL statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// CopyFrom inserts rows (aligned to the columns order) into table and
	// returns the number of rows inserted. Implementations should use their
	// most efficient bulk primitive and insert transactionally: either the
	// whole row set lands or none of it does.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Close releases the underlying connection resources.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind names a registered backend, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is the backend connection string.
	DSN string
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a backend factory for kind. It is called
// from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// Open constructs the Repository for cfg.Kind.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}
