package db

import (
	"context"
	"fmt"

	"github.com/hpungsan/callsnap/internal/config"
	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/store"
)

// OpenStore opens the backend selected by cfg.Store. baseDir holds the
// SQLite file and the exports directory.
func OpenStore(ctx context.Context, cfg *config.Config, baseDir string) (store.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Infof("using in-memory meeting store")
		return store.NewMemory(), nil
	case config.StorePostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN, cfg)
		if err != nil {
			return nil, err
		}
		logger.Infof("using postgres meeting store")
		return s, nil
	case config.StoreSQLite, "":
		database, err := Init(baseDir)
		if err != nil {
			return nil, err
		}
		ConfigurePool(database, cfg)
		logger.Infof("using sqlite meeting store at %s", baseDir)
		return NewSQLiteStore(database), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
