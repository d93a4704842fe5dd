// Package backend selects and assembles the data backend the API serves
// from: an in-memory store for development, or the SQLite cache kept warm by
// the sync worker.
package backend

import (
	"fmt"
	"log/slog"

	"ledgerview/internal/adapters"
	"ledgerview/internal/config"
	"ledgerview/internal/source"
	"ledgerview/internal/source/memory"
	"ledgerview/internal/storage"
)

// Backend bundles the two source ports the report service needs.
type Backend interface {
	source.LineItemSource
	source.VoucherPager
}

type CleanupFunc func() error

// Result carries the assembled backend and its cleanup. Store is non-nil
// only for the sqlite backend, for callers that also write (the worker).
type Result struct {
	Backend Backend
	Store   *storage.SQLiteRepository
	Cleanup CleanupFunc
}

// Create assembles the backend named by the config.
func Create(cfg *config.Config) (*Result, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		slog.Info("Initialized memory backend")
		return &Result{
			Backend: memory.New(),
			Cleanup: func() error { return nil },
		}, nil

	case config.BackendSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("create sqlite backend: %w", err)
		}
		slog.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
		return &Result{
			Backend: adapters.NewSQLiteAdapter(repo),
			Store:   repo,
			Cleanup: repo.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
