package auth

import (
	"context"
	"errors"
	"testing"

	"folio/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]user.User
	byEmail map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]user.User),
		byEmail: make(map[string]user.User),
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u user.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, u user.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func TestRegister_NormalizesEmailAndDefaultsRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Alice@Example.COM ",
		Password: "correct horse",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != user.RoleStudent {
		t.Fatalf("expected default role student, got %q", u.Role)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash leaked through the service")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	in := RegisterInput{Email: "bob@example.com", Password: "correct horse", Name: "Bob"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestRegister_RejectsShortPasswordAndUnknownRole(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short", Name: "A"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "correct horse", Name: "A", Role: "admin",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestLogin_WrongPasswordAndUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	u := user.User{ID: uuid.New(), Email: "carol@example.com", PasswordHash: string(hash), Role: user.RoleStudent}
	repo.byID[u.ID] = u
	repo.byEmail[u.Email] = u

	svc := NewService(repo)

	if _, err := svc.Login(context.Background(), LoginInput{Email: "carol@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	got, err := svc.Login(context.Background(), LoginInput{Email: "Carol@Example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != "" {
		t.Fatalf("unexpected login result: %+v", got)
	}
}
