// Package backend wires configuration to a concrete store
// implementation. It is the single place that knows which persistence
// strategies exist.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/config"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store/memory"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store/sqlite"
)

type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) IsValid() bool {
	return t == SQLite || t == Memory
}

// Open creates the store named by cfg.DataBackend. The caller owns the
// returned store and must Close it.
func Open(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = log.WithComponent(logger, log.ComponentStore)

	switch Type(cfg.DataBackend) {
	case SQLite:
		st, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		logger.Info("initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return st, nil
	case Memory:
		logger.Info("initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %q", cfg.DataBackend)
	}
}
