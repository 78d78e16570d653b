package tables

import (
	"errors"

	"datajoin/core/join"
	"datajoin/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the tracked table.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the table routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/tables")
	group.Get("/", h.HandleList)
	group.Get("/sync", h.HandleSync)
	group.Get("/rows/:key", h.HandleRow)
}

// HandleSync reconciles the table and returns the report.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Sync(c.Context())
	if err != nil {
		l.Error("Table sync failed", zap.String("table", h.service.source.table), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleList returns the row views of the last sync.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	rows, err := h.service.Rows()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"table": h.service.source.table,
		"last":  h.service.tracker.Last(),
		"rows":  rows,
	})
}

// HandleRow returns one row view by key.
func (h *Handler) HandleRow(c *fiber.Ctx) error {
	row, err := h.service.Row(c.Params("key"))
	if errors.Is(err, join.ErrUnknownIdentity) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(row)
}
