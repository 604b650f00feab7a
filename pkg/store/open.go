package store

import (
	"context"
	"fmt"

	"github.com/example/agbado/pkg/config"
)

// Open returns the configured storage engine, seeded when cfg.Seed is set.
func Open(ctx context.Context, cfg *config.StoreConfig, mysqlCfg *config.MySQLConfig) (Storage, error) {
	var st Storage
	switch cfg.Driver {
	case "", "memory":
		st = NewMemStore()
	case "mysql":
		gs, err := OpenMySQL(mysqlCfg)
		if err != nil {
			return nil, err
		}
		st = gs
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.Seed {
		if err := Seed(ctx, st); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}
	return st, nil
}
