package handler

import (
	"errors"
	"time"

	"folio/internal/delivery/http/dto"
	"folio/internal/delivery/http/middleware"
	"folio/internal/pkg/response"
	"folio/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type PlacementHandler struct {
	uc usecase.PlacementUsecase
}

type createPlacementRequest struct {
	Title     string     `json:"title"`
	Location  string     `json:"location"`
	StartedOn time.Time  `json:"started_on"`
	EndedOn   *time.Time `json:"ended_on"`
}

func NewPlacementHandler(uc usecase.PlacementUsecase) *PlacementHandler {
	return &PlacementHandler{uc: uc}
}

func (h *PlacementHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/placements")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Delete("/:id", h.Delete)
}

func (h *PlacementHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListPlacements(c.Context(), userID)
	if err != nil {
		return mapPlacementUsecaseError(err)
	}

	res := make([]dto.PlacementResponse, 0, len(items))
	for _, p := range items {
		res = append(res, dto.NewPlacementResponse(p))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *PlacementHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createPlacementRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreatePlacement(c.Context(), userID, usecase.CreatePlacementInput{
		Title:     req.Title,
		Location:  req.Location,
		StartedOn: req.StartedOn,
		EndedOn:   req.EndedOn,
	})
	if err != nil {
		return mapPlacementUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Placement created successfully", dto.NewPlacementResponse(created))
}

func (h *PlacementHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	placementID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.DeletePlacement(c.Context(), userID, placementID); err != nil {
		return mapPlacementUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapPlacementUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrPlacementNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Placement not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
