package session

import (
	"encoding/json"
	"errors"

	"datajoin/core/join"
	"datajoin/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sessions")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleData)
	group.Post("/:id/bind", h.HandleBind)
	group.Get("/:id/records", h.HandleRecords)
	group.Delete("/:id", h.HandleDelete)
}

// HandleCreate creates a session.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sess, err := h.service.Create(req.Key)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess.Info())
}

// HandleList lists sessions.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

// HandleData returns the bound objects of a session.
func (h *Handler) HandleData(c *fiber.Ctx) error {
	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"session": sess.Info(),
		"data":    sess.Data(),
	})
}

// HandleBind binds a JSON array of objects to a session.
func (h *Handler) HandleBind(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(c.Body(), &objects); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "body must be a JSON array of objects",
			"details": err.Error(),
		})
	}

	report, err := sess.Bind(objects)
	if err != nil {
		l.Warn("Bind rejected", zap.String("session", sess.ID()), zap.Error(err))
		return h.fail(c, err)
	}

	l.Info("Session bound",
		zap.String("session", sess.ID()),
		zap.Uint64("version", report.Version),
		zap.Int("entered", report.Summary.Entered),
		zap.Int("exited", report.Summary.Exited),
	)
	return c.JSON(report)
}

// HandleRecords returns a record selection.
func (h *Handler) HandleRecords(c *fiber.Ctx) error {
	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	records, err := sess.Records(Selection(c.Query("selection", string(SelectAll))))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(records)
}

// HandleDelete releases and removes a session.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	info, err := h.service.Delete(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(info)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrClosed):
		status = fiber.StatusGone
	case errors.Is(err, ErrMissingKey), errors.Is(err, ErrInvalidSelection):
		status = fiber.StatusBadRequest
	case errors.Is(err, join.ErrFieldNotFound), errors.Is(err, join.ErrIdentityType):
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
