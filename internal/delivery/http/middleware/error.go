package middleware

import (
	"errors"
	"fmt"
	"log"

	"placeprep/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError carries the status and client-facing message a handler chose for
// a failure. Cause is kept for logs only.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Cause == nil:
		return e.Message
	default:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ErrorMiddleware turns every error returned down the chain, and any panic,
// into the response envelope. Server-side failures are logged with their
// cause and reach the client as a bare 500.
type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = m.render(c, fmt.Errorf("panic: %v", r))
			}
		}()

		if err = c.Next(); err != nil {
			return m.render(c, err)
		}
		return nil
	}
}

func (m *ErrorMiddleware) render(c fiber.Ctx, err error) error {
	status, msg, data := classify(err)
	if status == fiber.StatusInternalServerError {
		rid, _ := c.Locals(CtxRequestIDKey).(string)
		m.logger.Printf("[HTTP] error rid=%s %s %s: %v", rid, c.Method(), c.Path(), err)
	}
	return response.Error(c, status, msg, data)
}

// classify picks the status, message and payload the client sees.
func classify(err error) (int, string, any) {
	var (
		status int
		msg    string
		data   any
	)

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status, msg, data = appErr.StatusCode, appErr.Message, appErr.Data
	case errors.As(err, &fiberErr):
		status, msg = fiberErr.Code, fiberErr.Message
	}

	if status < fiber.StatusBadRequest || status >= fiber.StatusInternalServerError {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}
	if msg == "" {
		msg = response.DefaultMessage(status)
	}
	return status, msg, data
}
