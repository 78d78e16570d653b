package cmd

import (
	"fmt"

	"datajoin/core/config"
	"datajoin/core/database"
	"datajoin/core/reconcile"
	"datajoin/core/storage"
	"datajoin/feature/assets"
	"datajoin/feature/tables"

	"go.uber.org/zap"
)

// buildSyncer creates the tracker for one configured source kind.
func buildSyncer(kind string, cfg *config.Config, logg *zap.Logger) (reconcile.Syncer, error) {
	switch kind {
	case "assets":
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		return assets.NewService(client, cfg.Storage.Bucket, cfg.Reconcile, logg).Tracker(), nil
	case "table":
		if cfg.Reconcile.Table == "" {
			return nil, fmt.Errorf("no table configured (set RECONCILE_TABLE)")
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		svc, err := tables.NewService(db, cfg.Reconcile, logg)
		if err != nil {
			return nil, err
		}
		return svc.Tracker(), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want assets or table)", kind)
	}
}
