package handler

import (
	"placeprep/internal/delivery/http/dto"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/pkg/response"
	"placeprep/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "job_id")
	if err != nil {
		return err
	}

	res, err := h.uc.Apply(c.Context(), middleware.IdentityFrom(c), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	a := res.Application
	return response.Created(c, dto.ApplyResponse{
		ApplicationID: a.ID,
		JobID:         a.JobID,
		JobTitle:      res.Job.Title,
		MatchScore:    a.MatchScore,
		Status:        string(a.Status),
		AppliedAt:     a.AppliedAt,
	})
}

func (h *ApplicationHandler) MatchScore(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "job_id")
	if err != nil {
		return err
	}

	v, err := h.uc.MatchScore(c.Context(), middleware.IdentityFrom(c), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.MatchResponse{
		ApplicationID: v.ApplicationID,
		JobID:         jobID,
		MatchScore:    v.Score,
	})
}
