package handler

import (
	"placeprep/internal/delivery/http/dto"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/pkg/response"
	"placeprep/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DashboardHandler struct {
	uc usecase.DashboardUsecase
}

func NewDashboardHandler(uc usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/dashboard", h.Dashboard)
	r.Get("/performance", h.Performance)
}

func (h *DashboardHandler) Performance(c fiber.Ctx) error {
	rep, err := h.uc.Performance(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.PerformanceReportResponse{
		Since:                 rep.Since,
		Daily:                 make([]dto.DailyPerformanceResponse, 0, len(rep.Daily)),
		TopicPerformance:      make([]dto.TopicPerformanceResponse, 0, len(rep.Topics)),
		DifficultyPerformance: make([]dto.DifficultyPerformanceResponse, 0, len(rep.Difficulties)),
		Summary: dto.PracticeSummaryResponse{
			TotalAttempts:   rep.Summary.TotalAttempts,
			TotalCorrect:    rep.Summary.TotalCorrect,
			TotalIncorrect:  rep.Summary.TotalIncorrect,
			OverallAccuracy: rep.Summary.OverallAccuracy,
			AverageTime:     rep.Summary.AverageTime,
		},
	}
	for _, d := range rep.Daily {
		out.Daily = append(out.Daily, dto.DailyPerformanceResponse{
			Date:      d.Date,
			Correct:   d.Correct,
			Incorrect: d.Incorrect,
			Total:     d.Total(),
		})
	}
	for _, t := range rep.Topics {
		out.TopicPerformance = append(out.TopicPerformance, dto.TopicPerformanceResponse{
			Topic:     t.Topic,
			Accuracy:  t.Accuracy,
			Attempted: t.Attempted,
		})
	}
	for _, d := range rep.Difficulties {
		out.DifficultyPerformance = append(out.DifficultyPerformance, dto.DifficultyPerformanceResponse{
			Difficulty: string(d.Difficulty),
			Accuracy:   d.Accuracy,
			Attempted:  d.Attempted,
		})
	}
	return response.OK(c, out)
}

func (h *DashboardHandler) Dashboard(c fiber.Ctx) error {
	d, err := h.uc.Dashboard(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}

	skills := d.Profile.Skills
	if skills == nil {
		skills = []string{}
	}
	out := dto.DashboardResponse{
		User: dto.DashboardUserResponse{
			Name:   d.Profile.Name,
			Email:  d.Profile.Email,
			CGPA:   d.Profile.CGPA,
			Branch: d.Profile.Branch,
			Skills: skills,
		},
		Stats: dto.DashboardStatsResponse{
			TotalQuestions:     d.Stats.TotalQuestions,
			QuestionsAttempted: d.Stats.QuestionsAttempted,
			CorrectAnswers:     d.Stats.CorrectAnswers,
			AverageTime:        d.Stats.AverageTime,
			Accuracy:           d.Stats.Accuracy,
			WeakTopics:         nonNil(d.Stats.WeakTopics),
			StrongTopics:       nonNil(d.Stats.StrongTopics),
		},
		RecentAttempts: make([]dto.RecentAttemptResponse, 0, len(d.RecentAttempts)),
		Applications:   make([]dto.DashboardApplicationResponse, 0, len(d.Applications)),
	}
	for _, r := range d.RecentAttempts {
		out.RecentAttempts = append(out.RecentAttempts, dto.RecentAttemptResponse{
			ID:          r.Attempt.ID,
			Question:    r.Preview,
			Topic:       r.Attempt.TopicName,
			IsCorrect:   r.Attempt.IsCorrect,
			TimeTaken:   r.Attempt.TimeTaken,
			AttemptedAt: r.Attempt.AttemptedAt,
		})
	}
	for _, a := range d.Applications {
		out.Applications = append(out.Applications, dto.DashboardApplicationResponse{
			ID:         a.ID,
			JobID:      a.JobID,
			JobTitle:   a.JobTitle,
			Company:    a.CompanyName,
			Status:     string(a.Status),
			MatchScore: a.MatchScore,
			AppliedAt:  a.AppliedAt,
		})
	}
	return response.OK(c, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
