package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"placeprep/internal/domain/user"
)

type memUsers struct {
	byID map[uuid.UUID]user.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uuid.UUID]user.User{}} }

func (m *memUsers) CreateUser(_ context.Context, u user.User) error {
	for _, v := range m.byID {
		if v.Email == u.Email {
			return user.ErrEmailAlreadyTaken
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, v := range m.byID {
		if v.Email == email {
			return v, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func newTestService() *Service {
	s := NewService(newMemUsers())
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Email: " Acme@Example.com ", Password: "supersecret", Name: "Acme", Role: "company"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != user.RoleCompany || u.Email != "acme@example.com" || u.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, err := s.Login(ctx, LoginInput{Email: "acme@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login returned %s, want %s", got.ID, u.ID)
	}

	if _, err := s.Login(ctx, LoginInput{Email: "acme@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	u, err := newTestService().Register(context.Background(), RegisterInput{Email: "s@example.com", Password: "password1", Name: "S"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != user.RoleStudent {
		t.Fatalf("role = %s", u.Role)
	}
}

func TestRegisterRejects(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	if _, err := s.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "password1", Name: "A"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"duplicate", RegisterInput{Email: "DUP@example.com", Password: "password1", Name: "B"}, ErrEmailAlreadyRegistered},
		{"short password", RegisterInput{Email: "x@example.com", Password: "short", Name: "X"}, ErrInvalidInput},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "password1", Name: "X"}, ErrInvalidInput},
		{"missing name", RegisterInput{Email: "y@example.com", Password: "password1"}, ErrInvalidInput},
		{"admin", RegisterInput{Email: "z@example.com", Password: "password1", Name: "Z", Role: user.RoleAdmin}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Register(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	s := newTestService()
	if _, err := s.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(s.decoy) == 0 {
		t.Fatalf("expected decoy hash to be compared")
	}
}

type failingUsers struct {
	memUsers
	err error
}

func (f *failingUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, f.err }

func TestRegisterWrapsStorageFailure(t *testing.T) {
	cause := errors.New("connection reset")
	s := NewService(&failingUsers{memUsers: *newMemUsers(), err: cause})
	s.cost = bcrypt.MinCost
	_, err := s.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "password1", Name: "A"})
	if !errors.Is(err, ErrInternal) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrInternal wrapping cause, got %v", err)
	}
}
