package tables

import (
	"context"
	"reflect"
	"time"

	"datajoin/core/join"
	"datajoin/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service tracks one table and builds Row views for it.
type Service struct {
	logger  *zap.Logger
	source  *Source
	tracker *reconcile.Tracker[string, map[string]any]
	rows    *join.Objects[string, map[string]any, *Row]
	removed int
}

// NewService creates a service tracking cfg.Table keyed by cfg.TableKey.
func NewService(db *gorm.DB, cfg reconcile.Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src, err := NewSource(db, cfg.Table, cfg.TableKey)
	if err != nil {
		return nil, err
	}

	s := &Service{logger: logger, source: src}
	s.tracker = reconcile.NewTracker(src, join.Func(src.Identity), logger,
		join.WithEqual[string](sameRow))
	s.rows = reconcile.WithObjects(s.tracker, s.build, s.remove)
	return s, nil
}

// sameRow compares rows by content; every load scans fresh maps.
func sameRow(a, b map[string]any) bool {
	return reflect.DeepEqual(a, b)
}

func (s *Service) build(row map[string]any) (*Row, error) {
	key, err := s.source.Identity(row)
	if err != nil {
		return nil, err
	}
	return &Row{Key: key, Columns: row, LoadedAt: time.Now()}, nil
}

func (s *Service) remove(r *Row) error {
	s.removed++
	s.logger.Debug("Row removed", zap.String("table", s.source.table), zap.String("key", r.Key))
	return nil
}

// Tracker returns the service's tracker.
func (s *Service) Tracker() reconcile.Syncer {
	return s.tracker
}

// Sync reconciles the table.
func (s *Service) Sync(ctx context.Context) (*reconcile.Report, error) {
	return s.tracker.Sync(ctx)
}

// Rows returns the views of the current rows.
func (s *Service) Rows() ([]*Row, error) {
	var out []*Row
	err := s.tracker.View(func(*join.Join[string, map[string]any]) error {
		var err error
		out, err = s.rows.All()
		return err
	})
	return out, err
}

// Row returns the view for one key of the current or exiting rows.
func (s *Service) Row(key string) (*Row, error) {
	var out *Row
	err := s.tracker.View(func(*join.Join[string, map[string]any]) error {
		var err error
		out, err = s.rows.Get(key)
		return err
	})
	return out, err
}

// Removed returns how many rows have been removed since the service started.
func (s *Service) Removed() int {
	var n int
	_ = s.tracker.View(func(*join.Join[string, map[string]any]) error {
		n = s.removed
		return nil
	})
	return n
}
