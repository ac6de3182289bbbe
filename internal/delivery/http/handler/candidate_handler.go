package handler

import (
	"fmt"
	"strconv"

	"placeprep/internal/delivery/http/dto"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/pkg/response"
	"placeprep/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CandidateHandler struct {
	uc usecase.CandidateUsecase
}

func NewCandidateHandler(uc usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

// ListCandidates serves a job's ranked applicants. min_score is a whole
// percentage (0-100); match_score in the body stays a fraction.
func (h *CandidateHandler) ListCandidates(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "job_id")
	if err != nil {
		return err
	}
	pct, err := parseMinScore(c.Query("min_score"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_score", nil, err)
	}

	list, err := h.uc.ListCandidates(c.Context(), middleware.IdentityFrom(c), usecase.ListCandidatesInput{
		JobID:    jobID,
		MinScore: float64(pct) / 100,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.CandidateListResponse{
		Job: dto.JobSummaryResponse{
			ID:             list.Job.ID,
			Title:          list.Job.Title,
			Description:    list.Job.Description,
			RequiredSkills: list.Job.RequiredSkills,
			MinCGPA:        list.Job.MinCGPA,
			Salary:         list.Job.Salary,
			Location:       list.Job.Location,
		},
		MinScore:   pct,
		Total:      len(list.Candidates),
		Candidates: make([]dto.CandidateResponse, 0, len(list.Candidates)),
	}
	for _, cand := range list.Candidates {
		skills := cand.Student.Skills
		if skills == nil {
			skills = []string{}
		}
		out.Candidates = append(out.Candidates, dto.CandidateResponse{
			Rank:          cand.Rank,
			ApplicationID: cand.ApplicationID,
			StudentID:     cand.StudentID,
			Student: dto.CandidateStudentResponse{
				Name:           cand.Student.Name,
				Email:          cand.Student.Email,
				CGPA:           cand.Student.CGPA,
				Skills:         skills,
				Branch:         cand.Student.Branch,
				GraduationYear: cand.Student.GraduationYear,
			},
			MatchScore:  cand.MatchScore,
			Status:      string(cand.Status),
			AppliedAt:   cand.AppliedAt,
			Performance: performanceResponse(cand.Performance),
		})
	}
	return response.OK(c, out)
}

func parseMinScore(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("min_score %d outside 0-100", v)
	}
	return v, nil
}
