package history

import (
	"context"
	"fmt"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/repository/common"
)

// Open connects to the history store named by cfg.DatabaseURL: sqlite:// opens
// (and migrates) a local file, anything else is treated as a Postgres URL.
func Open(ctx context.Context, cfg *config.Config) (Repository, error) {
	if cfg.IsSQLite() {
		db, err := config.NewSQLiteDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := common.RunSQLiteMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLiteRepository(db), nil
	}

	pool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	return NewPostgresRepository(pool), nil
}
