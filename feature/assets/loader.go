package assets

import (
	"datajoin/core/reconcile"
	"datajoin/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new assets feature.
func NewFeature(client storage.Client, bucket string, cfg reconcile.Config, logger *zap.Logger) *Feature {
	svc := NewService(client, bucket, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "assets"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's asset service.
func (f *Feature) Service() *Service {
	return f.service
}
