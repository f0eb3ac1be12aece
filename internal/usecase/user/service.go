package user

import (
	"context"
	"errors"
	"strings"

	"folio/internal/domain/report"
	"folio/internal/domain/user"
	"folio/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

type UpdateMeInput struct {
	Email    *string
	Password *string
	Name     *string
}

type Service struct {
	users    user.Repository
	tutoring repository.TutoringRepository
}

func NewService(users user.Repository, tutoring repository.TutoringRepository) *Service {
	return &Service{users: users, tutoring: tutoring}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInternal
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return user.User{}, ErrInvalidInput
		}
		usr.Email = email
	}

	if in.Password != nil {
		pw := strings.TrimSpace(*in.Password)
		if !isValidPassword(pw) {
			return user.User{}, ErrInvalidInput
		}
		hash, err := hashPassword(pw)
		if err != nil {
			return user.User{}, ErrInternal
		}
		usr.PasswordHash = hash
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return user.User{}, ErrInvalidInput
		}
		usr.Name = name
	}

	if err := s.users.UpdateUser(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}

	updated, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(updated), nil
}

// Tutees lists the students linked to a tutor. Tutors see their own
// tutees, staff see any tutor's.
func (s *Service) Tutees(ctx context.Context, callerID, tutorID uuid.UUID) ([]report.RosterUser, error) {
	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, ErrInternal
	}
	if caller.Role != user.RoleStaff && callerID != tutorID {
		return nil, ErrForbidden
	}

	tutees, err := s.tutoring.ListTutees(ctx, tutorID)
	if err != nil {
		return nil, ErrInternal
	}
	return tutees, nil
}

// Roster lists every user in the system. Staff only.
func (s *Service) Roster(ctx context.Context, callerID uuid.UUID) ([]report.RosterUser, error) {
	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, ErrInternal
	}
	if caller.Role != user.RoleStaff {
		return nil, ErrForbidden
	}

	roster, err := s.tutoring.ListRoster(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return roster, nil
}

func (s *Service) LinkTutee(ctx context.Context, callerID, tutorID, tuteeID uuid.UUID) error {
	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return ErrInternal
	}
	if caller.Role != user.RoleStaff {
		return ErrForbidden
	}
	if tutorID == tuteeID {
		return ErrInvalidInput
	}
	if err := s.tutoring.AddLink(ctx, tutorID, tuteeID); err != nil {
		return ErrInternal
	}
	return nil
}

func (s *Service) UnlinkTutee(ctx context.Context, callerID, tutorID, tuteeID uuid.UUID) error {
	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return ErrInternal
	}
	if caller.Role != user.RoleStaff {
		return ErrForbidden
	}
	if err := s.tutoring.RemoveLink(ctx, tutorID, tuteeID); err != nil {
		return ErrInternal
	}
	return nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	pw = strings.TrimSpace(pw)
	if len(pw) < 8 {
		return false
	}
	return true
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrInternal
	}
	return string(hash), nil
}
