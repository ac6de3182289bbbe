package handler

import (
	"placeprep/internal/delivery/http/dto"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/pkg/response"
	"placeprep/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
}

func (h *ProfileHandler) GetProfile(c fiber.Ctx) error {
	view, err := h.uc.GetProfile(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, profileResponse(view))
}

func (h *ProfileHandler) UpdateProfile(c fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	view, err := h.uc.UpdateProfile(c.Context(), middleware.IdentityFrom(c), usecase.UpdateProfileInput{
		CGPA:           req.CGPA,
		Skills:         req.Skills,
		Branch:         req.Branch,
		GraduationYear: req.GraduationYear,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, profileResponse(view))
}

func profileResponse(v usecase.ProfileView) dto.ProfileResponse {
	skills := v.Profile.Skills
	if skills == nil {
		skills = []string{}
	}
	return dto.ProfileResponse{
		UserID:         v.Profile.UserID,
		Name:           v.Profile.Name,
		Email:          v.Profile.Email,
		CGPA:           v.Profile.CGPA,
		Skills:         skills,
		Branch:         v.Profile.Branch,
		GraduationYear: v.Profile.GraduationYear,
		Performance:    performanceResponse(v.Performance),
	}
}

func performanceResponse(p usecase.PerformanceSummary) dto.PerformanceResponse {
	return dto.PerformanceResponse{
		TotalAttempts:   p.TotalAttempts,
		CorrectAttempts: p.CorrectAttempts,
		Accuracy:        p.Accuracy,
	}
}
