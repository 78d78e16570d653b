package assets

import (
	"datajoin/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for tracked assets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the asset routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/assets")
	group.Get("/", h.HandleList)
	group.Get("/sync", h.HandleSync)
}

// HandleSync reconciles the bucket listing and returns the report.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Sync(c.Context())
	if err != nil {
		l.Error("Asset sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleList returns the asset views of the last sync.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	assets, err := h.service.Assets()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"last":   h.service.tracker.Last(),
		"assets": assets,
	})
}
