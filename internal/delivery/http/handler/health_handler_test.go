package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v3"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	cases := []struct {
		name   string
		checks []HealthCheck
		status int
	}{
		{"all up", []HealthCheck{{Name: "postgres", Pinger: up}, {Name: "redis", Pinger: up, Optional: true}}, fiber.StatusOK},
		{"optional down", []HealthCheck{{Name: "postgres", Pinger: up}, {Name: "redis", Pinger: down, Optional: true}}, fiber.StatusOK},
		{"required down", []HealthCheck{{Name: "postgres", Pinger: down}}, fiber.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(tc.checks...).RegisterRoutes(app)
			_, env := doGet(t, app, "/health")
			if env.Status != tc.status {
				t.Fatalf("status = %d, want %d", env.Status, tc.status)
			}
		})
	}
}
