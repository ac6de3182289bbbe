package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleCompany Role = "COMPANY"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated caller of a single request. It is passed
// explicitly into every usecase call.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

func (i Identity) IsZero() bool { return i.UserID == uuid.Nil }

func (i Identity) Is(r Role) bool { return !i.IsZero() && i.Role == r }

type StudentProfile struct {
	UserID         uuid.UUID
	Name           string
	Email          string
	CGPA           *float64
	Skills         []string
	Branch         *string
	GraduationYear *int
}
