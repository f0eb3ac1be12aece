package handler

import (
	"errors"

	"folio/internal/delivery/http/middleware"
	"folio/internal/domain/skill"
	"folio/internal/pkg/response"
	"folio/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SelfAssessmentHandler struct {
	uc usecase.AssessmentUsecase
}

type saveBundleItem struct {
	LevelID uuid.UUID `json:"level_id"`
	Score   int       `json:"score"`
}

type saveBundleRequest struct {
	Items map[uuid.UUID]saveBundleItem `json:"items"`
}

func NewSelfAssessmentHandler(uc usecase.AssessmentUsecase) *SelfAssessmentHandler {
	return &SelfAssessmentHandler{uc: uc}
}

func (h *SelfAssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skill-sets/:id/self-assessments")
	grp.Get("/", h.List)
	grp.Post("/", h.Save)
	grp.Delete("/:skillId", h.Remove)
}

func (h *SelfAssessmentHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	skillSetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	dict, err := h.uc.GetSelfAssessments(c.Context(), userID, skillSetID)
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dict)
}

func (h *SelfAssessmentHandler) Save(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	skillSetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req saveBundleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items := make(map[uuid.UUID]*skill.SelfAssessment, len(req.Items))
	for skillID, it := range req.Items {
		items[skillID] = &skill.SelfAssessment{
			SkillID: skillID,
			LevelID: it.LevelID,
			Score:   it.Score,
		}
	}

	if err := h.uc.SaveBundle(c.Context(), userID, skillSetID, items); err != nil {
		return mapAssessmentUsecaseError(err)
	}

	dict, err := h.uc.GetSelfAssessments(c.Context(), userID, skillSetID)
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Self assessments saved successfully", dict)
}

func (h *SelfAssessmentHandler) Remove(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	skillSetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	skillID, err := uuid.Parse(c.Params("skillId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RemoveSelfAssessment(c.Context(), userID, skillSetID, skillID); err != nil {
		return mapAssessmentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapAssessmentUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrSelfAssessmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Self assessment not found", nil, err)
	case errors.Is(err, usecase.ErrSkillSetNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill set not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
