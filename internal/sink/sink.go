// Package sink contains the backend-agnostic output contracts for transformed
// rows, plus a factory keyed by sink kind. Concrete backends (csvfile,
// sqlite) register themselves at init time; importing sink/all (even blank)
// makes every built-in backend available.
package sink

import (
	"context"
	"fmt"
	"sync"
)

// Config carries everything a backend needs to open its destination. Fields
// are a union across backends; each backend reads only its own.
type Config struct {
	// Kind selects the backend: "csv" or "sqlite".
	Kind string

	// Path is the destination file for the csv backend.
	Path string

	// DSN is the database/sql connection string for the sqlite backend.
	DSN string

	// Table is the destination table for the sqlite backend.
	Table string

	// Columns is the resolved output column order. The csv backend writes it
	// as the header row; the sqlite backend uses it for INSERT and DDL.
	Columns []string

	// AutoCreateTable makes the sqlite backend create the destination table
	// before the first write.
	AutoCreateTable bool
}

// Sink receives batches of transformed rows, aligned to the configured
// columns. Implementations must flush and release their destination on Close,
// on error paths included.
type Sink interface {
	// WriteRows writes one batch and returns the number of rows written.
	WriteRows(ctx context.Context, columns []string, rows [][]string) (int64, error)

	// Close flushes pending output and releases the destination. A flush
	// failure is reported here, not swallowed.
	Close() error
}

// Factory constructs a Sink for one kind.
type Factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind. It is called from
// backend packages' init functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New opens a Sink for cfg.Kind. Unknown kinds are an error naming the
// registered ones, which usually means the caller forgot the sink/all blank
// import.
func New(ctx context.Context, cfg Config) (Sink, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no sink registered for kind %q (registered: %v)", cfg.Kind, registeredKinds())
	}
	return fn(ctx, cfg)
}

func registeredKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	return kinds
}
