package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Poll syncs s immediately and then on every interval until ctx is done.
// Sync failures are logged and polling continues. onReport may be nil.
func Poll(ctx context.Context, s Syncer, interval time.Duration, logger *zap.Logger, onReport func(*Report)) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		report, err := s.Sync(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			logger.Warn("Sync failed", zap.String("source", s.Name()), zap.Error(err))
		case onReport != nil:
			onReport(report)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
