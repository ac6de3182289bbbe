package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"placeprep/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLen = 8

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     user.Role
}

type LoginInput struct {
	Email    string
	Password string
}

// Service owns account creation and password checks. Tokens are issued by
// the caller once a user is returned.
type Service struct {
	users user.Repository
	cost  int

	// decoy is compared against when the email is unknown so both login
	// failure paths pay one bcrypt comparison.
	decoyOnce sync.Once
	decoy     []byte
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost}
}

// Register creates a STUDENT (the default) or COMPANY account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	u, err := newAccount(in)
	if err != nil {
		return user.User{}, err
	}

	taken, err := s.users.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return user.User{}, internal(err)
	}
	if taken {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.User{}, internal(err)
	}
	u.PasswordHash = string(hash)

	switch err := s.users.CreateUser(ctx, u); {
	case errors.Is(err, user.ErrEmailAlreadyTaken):
		return user.User{}, ErrEmailAlreadyRegistered
	case err != nil:
		return user.User{}, internal(err)
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.User{}, internal(err)
	}
	return withoutHash(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email, err := canonicalEmail(in.Email)
	if err != nil || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.decoyHash(), []byte(in.Password))
		return user.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return withoutHash(u), nil
}

func (s *Service) decoyHash() []byte {
	s.decoyOnce.Do(func() {
		s.decoy, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
	})
	return s.decoy
}

// newAccount validates the registration fields and returns the user to
// insert, without a password hash.
func newAccount(in RegisterInput) (user.User, error) {
	email, err := canonicalEmail(in.Email)
	if err != nil {
		return user.User{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return user.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	role := user.Role(strings.ToUpper(strings.TrimSpace(string(in.Role))))
	switch role {
	case "":
		role = user.RoleStudent
	case user.RoleStudent, user.RoleCompany:
	default:
		return user.User{}, fmt.Errorf("%w: role %q cannot be registered", ErrInvalidInput, in.Role)
	}

	return user.User{ID: uuid.New(), Email: email, Name: name, Role: role}, nil
}

func canonicalEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	return email, nil
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func withoutHash(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
