package dto

import (
	"time"

	"folio/internal/repository"

	"github.com/google/uuid"
)

type EntryResponse struct {
	ID           uuid.UUID   `json:"id"`
	AuthorID     uuid.UUID   `json:"author_id"`
	AuthorName   string      `json:"author_name"`
	Title        string      `json:"title"`
	Body         string      `json:"body,omitempty"`
	SkillIDs     []uuid.UUID `json:"skill_ids,omitempty"`
	SharedCount  int         `json:"shared_count"`
	CommentCount int         `json:"comment_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func NewEntryResponse(e repository.Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		AuthorID:     e.AuthorID,
		AuthorName:   e.AuthorName,
		Title:        e.Title,
		Body:         e.Body,
		SkillIDs:     e.SkillIDs,
		SharedCount:  e.SharedCount,
		CommentCount: e.CommentCount,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

type EntryCommentResponse struct {
	ID         uuid.UUID `json:"id"`
	EntryID    uuid.UUID `json:"entry_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewEntryCommentResponse(c repository.EntryComment) EntryCommentResponse {
	return EntryCommentResponse{
		ID:         c.ID,
		EntryID:    c.EntryID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}
