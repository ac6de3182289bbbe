package handler

import (
	"context"
	"time"

	"placeprep/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck is one dependency probed by /health. An Optional dependency
// that is down is reported but does not fail the check.
type HealthCheck struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

type HealthHandler struct {
	checks []HealthCheck
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	out := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if chk.Pinger == nil {
			continue
		}
		if err := chk.Pinger.Ping(ctx); err != nil {
			out[chk.Name] = "down"
			if !chk.Optional {
				status = fiber.StatusServiceUnavailable
			}
			continue
		}
		out[chk.Name] = "up"
	}

	msg := response.MessageOK
	if status != fiber.StatusOK {
		msg = "degraded"
	}
	return response.Success(c, status, msg, out)
}
