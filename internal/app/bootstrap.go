package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"placeprep/internal/config"
	"placeprep/internal/database/migration"
	"placeprep/internal/delivery/http/handler"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/delivery/http/routes"
	v1 "placeprep/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects dependencies, applies pending migrations and builds the
// HTTP app. The returned cleanup closes every connection.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init container: %w", err)
	}

	migCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if err := (migration.Runner{}).Run(migCtx, c.DB.SQLDB()); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	app.Use(middleware.NewAccessLogMiddleware(c.Logger, "/health").Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	handlers := v1.Handlers{
		Health: handler.NewHealthHandler(
			handler.HealthCheck{Name: "postgres", Pinger: c.DB},
			handler.HealthCheck{Name: "redis", Pinger: c.Redis, Optional: true},
		),
		Auth:        handler.NewAuthHandler(c.Auth),
		Profile:     handler.NewProfileHandler(c.Profiles),
		Practice:    handler.NewPracticeHandler(c.Practice),
		Dashboard:   handler.NewDashboardHandler(c.Dashboard),
		Jobs:        handler.NewJobHandler(c.Jobs),
		Application: handler.NewApplicationHandler(c.Applications),
		Candidates:  handler.NewCandidateHandler(c.Candidates),
	}

	auth := middleware.NewAuthMiddleware(c.JWT).Middleware()
	routes.NewRegistry(handlers, auth).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
