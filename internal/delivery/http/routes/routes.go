package routes

import (
	v1 "placeprep/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	handlers v1.Handlers
	auth     fiber.Handler
}

func NewRegistry(handlers v1.Handlers, auth fiber.Handler) *Registry {
	return &Registry{handlers: handlers, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(app)
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.handlers, r.auth)
}
