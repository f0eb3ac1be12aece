package handler

import (
	"errors"
	"strings"

	"folio/internal/delivery/http/dto"
	"folio/internal/delivery/http/middleware"
	"folio/internal/pkg/response"
	"folio/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SkillSetHandler struct {
	uc usecase.SkillSetUsecase
}

func NewSkillSetHandler(uc usecase.SkillSetUsecase) *SkillSetHandler {
	return &SkillSetHandler{uc: uc}
}

func (h *SkillSetHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skill-sets")
	grp.Get("/", h.List)
	grp.Get("/:id/tree", h.Tree)

	r.Get("/scales/:id", h.Scale)
}

func (h *SkillSetHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListSkillSets(c.Context())
	if err != nil {
		return mapSkillSetUsecaseError(err)
	}

	res := make([]dto.SkillSetResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.SkillSetResponse{ID: it.ID, Name: it.Name, Description: it.Description})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// Tree returns the filtered skill tree for the calling user. Facet
// selection arrives as a comma separated facets query param, search
// terms as repeated words in q.
func (h *SkillSetHandler) Tree(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	skillSetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.FilterInput{
		SearchTerms: strings.Fields(c.Query("q")),
	}
	for _, raw := range strings.Split(c.Query("facets"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		facetID, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
		in.FacetIDs = append(in.FacetIDs, facetID)
	}

	res, err := h.uc.GetTree(c.Context(), userID, skillSetID, in)
	if err != nil {
		return mapSkillSetUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SkillTreeResponse{
		Groups: res.Groups,
		Facets: res.Facets,
	})
}

func (h *SkillSetHandler) Scale(c fiber.Ctx) error {
	scaleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	sc, err := h.uc.GetScale(c.Context(), scaleID)
	if err != nil {
		return mapSkillSetUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewScaleResponse(sc))
}

func mapSkillSetUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrSkillSetNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill set not found", nil, err)
	case errors.Is(err, usecase.ErrScaleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Scale not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
