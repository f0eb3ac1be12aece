package handler

import (
	"context"
	"time"

	"folio/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	status := fiber.StatusOK

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			data["database"] = "down"
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// The cache degrades to bypass mode, the service stays up.
			data["cache"] = "bypassed"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "degraded", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
