package assets

import (
	"context"
	"path"
	"time"

	"datajoin/core/join"
	"datajoin/core/reconcile"
	"datajoin/core/storage"

	"go.uber.org/zap"
)

// Service tracks a bucket listing and builds Asset views for it.
type Service struct {
	logger  *zap.Logger
	tracker *reconcile.Tracker[string, Object]
	assets  *join.Objects[string, Object, *Asset]
	removed int
}

// NewService creates a service tracking bucket under cfg.StoragePrefix.
func NewService(client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	src := NewSource(client, bucket, cfg.StoragePrefix, cfg.StorageExtension)
	s := &Service{logger: logger}
	s.tracker = reconcile.NewTracker(src, join.Field[string, Object]("Key"), logger,
		join.WithEqual[string](sameContent))
	s.assets = reconcile.WithObjects(s.tracker, s.build, s.remove)
	return s
}

// sameContent ignores LastModified, which changes on metadata-only copies.
func sameContent(a, b Object) bool {
	return a.ETag == b.ETag && a.Size == b.Size
}

func (s *Service) build(obj Object) (*Asset, error) {
	return &Asset{
		Key:       obj.Key,
		Name:      path.Base(obj.Key),
		Extension: path.Ext(obj.Key),
		Size:      obj.Size,
		ETag:      obj.ETag,
		BuiltAt:   time.Now(),
	}, nil
}

func (s *Service) remove(a *Asset) error {
	s.removed++
	s.logger.Debug("Asset removed", zap.String("key", a.Key), zap.String("etag", a.ETag))
	return nil
}

// Tracker returns the service's tracker.
func (s *Service) Tracker() reconcile.Syncer {
	return s.tracker
}

// Sync reconciles the bucket listing.
func (s *Service) Sync(ctx context.Context) (*reconcile.Report, error) {
	return s.tracker.Sync(ctx)
}

// Assets returns the views of the current listing.
func (s *Service) Assets() ([]*Asset, error) {
	var out []*Asset
	err := s.tracker.View(func(*join.Join[string, Object]) error {
		var err error
		out, err = s.assets.All()
		return err
	})
	return out, err
}

// Removed returns how many assets have been removed since the service started.
func (s *Service) Removed() int {
	var n int
	_ = s.tracker.View(func(*join.Join[string, Object]) error {
		n = s.removed
		return nil
	})
	return n
}
