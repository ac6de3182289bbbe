package handler

import (
	"strconv"

	"placeprep/internal/delivery/http/dto"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/domain/job"
	"placeprep/internal/pkg/response"
	"placeprep/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) CreateJob(c fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	p, err := h.uc.CreateJob(c.Context(), middleware.IdentityFrom(c), usecase.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		MinCGPA:        req.MinCGPA,
		Salary:         req.Salary,
		Location:       req.Location,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, jobResponse(p))
}

func (h *JobHandler) ListCompanyJobs(c fiber.Ctx) error {
	items, err := h.uc.ListCompanyJobs(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, jobResponses(items))
}

func (h *JobHandler) ListJobs(c fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit", 20)
	if err != nil {
		return badRequest(err)
	}
	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		return badRequest(err)
	}

	items, err := h.uc.ListJobs(c.Context(), usecase.ListJobsInput{Limit: limit, Offset: offset})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, jobResponses(items))
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func jobResponses(items []job.Posting) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(items))
	for _, p := range items {
		out = append(out, jobResponse(p))
	}
	return out
}

func jobResponse(p job.Posting) dto.JobResponse {
	skills := p.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return dto.JobResponse{
		ID:               p.ID,
		CompanyID:        p.CompanyID,
		CompanyName:      p.CompanyName,
		Title:            p.Title,
		Description:      p.Description,
		RequiredSkills:   skills,
		MinCGPA:          p.MinCGPA,
		Salary:           p.Salary,
		Location:         p.Location,
		CreatedAt:        p.CreatedAt,
		ApplicationCount: p.ApplicationCount,
	}
}
