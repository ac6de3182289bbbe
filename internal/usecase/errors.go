package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrJobNotFound          = errors.New("job not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrTopicNotFound        = errors.New("topic not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("already applied for this job")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")

	// ErrStorage wraps every persistence failure; the cause stays reachable
	// through errors.Is / errors.As, including context cancellation.
	ErrStorage = errors.New("storage failure")
)

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
