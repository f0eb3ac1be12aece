package handler

import (
	"errors"
	"strconv"

	"folio/internal/delivery/http/dto"
	"folio/internal/delivery/http/middleware"
	"folio/internal/domain/skill"
	"folio/internal/pkg/response"
	"folio/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type EntryHandler struct {
	uc usecase.EntryUsecase
}

type createEntryRequest struct {
	Title       string                              `json:"title"`
	Body        string                              `json:"body"`
	SkillIDs    []uuid.UUID                         `json:"skill_ids"`
	SkillSetID  uuid.UUID                           `json:"skill_set_id"`
	Assessments map[uuid.UUID]*skill.SelfAssessment `json:"assessments"`
}

type updateEntryRequest struct {
	Title       *string                             `json:"title"`
	Body        *string                             `json:"body"`
	SkillIDs    []uuid.UUID                         `json:"skill_ids"`
	SkillSetID  uuid.UUID                           `json:"skill_set_id"`
	Assessments map[uuid.UUID]*skill.SelfAssessment `json:"assessments"`
}

type shareEntryRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

type addCommentRequest struct {
	Body string `json:"body"`
}

func NewEntryHandler(uc usecase.EntryUsecase) *EntryHandler {
	return &EntryHandler{uc: uc}
}

func (h *EntryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/entries")
	grp.Get("/", h.List)
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
	grp.Post("/:id/share", h.Share)
	grp.Get("/:id/comments", h.ListComments)
	grp.Post("/:id/comments", h.AddComment)
}

func (h *EntryHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	items, err := h.uc.ListEntries(c.Context(), userID, limit, offset)
	if err != nil {
		return mapEntryUsecaseError(err)
	}

	res := make([]dto.EntryResponse, 0, len(items))
	for _, e := range items {
		res = append(res, dto.NewEntryResponse(e))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *EntryHandler) Create(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createEntryRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.CreateEntry(c.Context(), userID, usecase.CreateEntryInput{
		Title:       req.Title,
		Body:        req.Body,
		SkillIDs:    req.SkillIDs,
		SkillSetID:  req.SkillSetID,
		Assessments: req.Assessments,
	})
	if err != nil {
		return mapEntryUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Entry created successfully", dto.NewEntryResponse(created))
}

func (h *EntryHandler) Get(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	e, err := h.uc.GetEntry(c.Context(), userID, entryID)
	if err != nil {
		return mapEntryUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEntryResponse(e))
}

func (h *EntryHandler) Update(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req updateEntryRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateEntry(c.Context(), userID, entryID, usecase.UpdateEntryInput{
		Title:       req.Title,
		Body:        req.Body,
		SkillIDs:    req.SkillIDs,
		SkillSetID:  req.SkillSetID,
		Assessments: req.Assessments,
	})
	if err != nil {
		return mapEntryUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEntryResponse(updated))
}

func (h *EntryHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.DeleteEntry(c.Context(), userID, entryID); err != nil {
		return mapEntryUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *EntryHandler) Share(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req shareEntryRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.ShareEntry(c.Context(), userID, entryID, req.UserIDs); err != nil {
		return mapEntryUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Entry shared successfully", nil)
}

func (h *EntryHandler) ListComments(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.ListComments(c.Context(), userID, entryID)
	if err != nil {
		return mapEntryUsecaseError(err)
	}

	res := make([]dto.EntryCommentResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.NewEntryCommentResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *EntryHandler) AddComment(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req addCommentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.AddComment(c.Context(), userID, entryID, req.Body)
	if err != nil {
		return mapEntryUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Comment added successfully", dto.NewEntryCommentResponse(created))
}

func mapEntryUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrEntryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Entry not found", nil, err)
	case errors.Is(err, usecase.ErrSkillSetNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill set not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
