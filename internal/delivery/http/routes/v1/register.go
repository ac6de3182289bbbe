package v1

import (
	"placeprep/internal/delivery/http/handler"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Profile     *handler.ProfileHandler
	Practice    *handler.PracticeHandler
	Dashboard   *handler.DashboardHandler
	Jobs        *handler.JobHandler
	Application *handler.ApplicationHandler
	Candidates  *handler.CandidateHandler
}

func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	h.Auth.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("", auth)
	student := middleware.RequireRole(user.RoleStudent)
	company := middleware.RequireRole(user.RoleCompany)

	me := protected.Group("/students/me", student)
	h.Profile.RegisterRoutes(me)
	h.Dashboard.RegisterRoutes(me)
	h.Practice.RegisterRoutes(protected.Group("/practice", student))

	protected.Get("/jobs", h.Jobs.ListJobs)
	protected.Post("/jobs/:job_id/apply", student, h.Application.Apply)
	protected.Get("/jobs/:job_id/match", student, h.Application.MatchScore)

	companyGroup := protected.Group("/company", company)
	companyGroup.Post("/jobs", h.Jobs.CreateJob)
	companyGroup.Get("/jobs", h.Jobs.ListCompanyJobs)
	companyGroup.Get("/jobs/:job_id/candidates", h.Candidates.ListCandidates)
}
