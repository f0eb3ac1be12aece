package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleStaff   = "staff"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
