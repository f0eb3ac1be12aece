package handler

import (
	"errors"
	"strings"
	"time"

	"folio/internal/delivery/http/dto"
	"folio/internal/delivery/http/middleware"
	"folio/internal/pkg/response"
	"folio/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ReportHandler struct {
	uc usecase.ReportUsecase
}

func NewReportHandler(uc usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/reports")
	grp.Get("/engagement", h.Engagement)
}

func (h *ReportHandler) Engagement(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	in := usecase.EngagementReportInput{
		Source: strings.TrimSpace(c.Query("source", usecase.ReportSourceEntries)),
	}

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		in.From = &from
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		in.To = &to
	}

	res, err := h.uc.EngagementReport(c.Context(), userID, in)
	if err != nil {
		return mapReportUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEngagementReportResponse(res))
}

func mapReportUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
