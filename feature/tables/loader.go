package tables

import (
	"datajoin/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new tables feature. It fails when the key column is missing.
func NewFeature(db *gorm.DB, cfg reconcile.Config, logger *zap.Logger) (*Feature, error) {
	svc, err := NewService(db, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Feature{service: svc, handler: NewHandler(svc)}, nil
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "tables"
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

// Service returns the feature's table service.
func (f *Feature) Service() *Service {
	return f.service
}
