package handler

import (
	"placeprep/internal/delivery/http/dto"
	"placeprep/internal/delivery/http/middleware"
	"placeprep/internal/domain/practice"
	"placeprep/internal/pkg/response"
	"placeprep/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type PracticeHandler struct {
	uc usecase.PracticeUsecase
}

func NewPracticeHandler(uc usecase.PracticeUsecase) *PracticeHandler {
	return &PracticeHandler{uc: uc}
}

func (h *PracticeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/topics", h.ListTopics)
	r.Get("/questions", h.ListQuestions)
	r.Get("/questions/random", h.RandomQuestion)
	r.Get("/recommendations", h.Recommendations)
	r.Post("/attempts", h.SubmitAttempt)
}

func (h *PracticeHandler) ListTopics(c fiber.Ctx) error {
	topics, err := h.uc.ListTopics(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, dto.TopicResponse{
			ID:            t.ID,
			Name:          t.Name,
			Category:      string(t.Category),
			Description:   t.Description,
			QuestionCount: t.QuestionCount,
		})
	}
	return response.OK(c, out)
}

func (h *PracticeHandler) ListQuestions(c fiber.Ctx) error {
	in := usecase.ListQuestionsInput{
		Difficulty: c.Query("difficulty"),
		Category:   c.Query("category"),
	}
	if raw := c.Query("topic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid topic_id", nil, err)
		}
		in.TopicID = &id
	}
	limit, err := parseQueryInt(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	in.Limit = limit

	qs, err := h.uc.ListQuestions(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, questionResponses(qs))
}

func (h *PracticeHandler) RandomQuestion(c fiber.Ctx) error {
	raw := c.Query("topic_id")
	if raw == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "topic_id is required", nil, nil)
	}
	topicID, err := uuid.Parse(raw)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid topic_id", nil, err)
	}

	res, err := h.uc.RandomQuestion(c.Context(), middleware.IdentityFrom(c), topicID)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := dto.RandomQuestionResponse{
		Completed: res.Completed,
		Progress: dto.TopicProgressResponse{
			Remaining: res.Progress.Remaining,
			Total:     res.Progress.Total,
			Completed: res.Progress.Completed,
		},
	}
	if res.Question != nil {
		q := questionResponse(*res.Question)
		out.Question = &q
	}
	return response.OK(c, out)
}

func (h *PracticeHandler) Recommendations(c fiber.Ctx) error {
	res, err := h.uc.Recommendations(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.RecommendationsResponse{
		Recommendations: questionResponses(res.Questions),
		WeakTopics:      nonNil(res.WeakTopics),
	})
}

func (h *PracticeHandler) SubmitAttempt(c fiber.Ctx) error {
	var req dto.SubmitAttemptRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	qid, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid question_id", nil, err)
	}

	res, err := h.uc.SubmitAttempt(c.Context(), middleware.IdentityFrom(c), usecase.SubmitAttemptInput{
		QuestionID: qid,
		Answer:     req.Answer,
		TimeTaken:  req.TimeTaken,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.AttemptResponse{
		AttemptID:     res.Attempt.ID,
		IsCorrect:     res.Attempt.IsCorrect,
		CorrectAnswer: res.CorrectAnswer,
		Explanation:   res.Explanation,
		AttemptedAt:   res.Attempt.AttemptedAt,
	})
}

func questionResponse(q practice.Question) dto.QuestionResponse {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return dto.QuestionResponse{
		ID:         q.ID,
		TopicID:    q.TopicID,
		TopicName:  q.TopicName,
		Content:    q.Content,
		Options:    options,
		Difficulty: string(q.Difficulty),
	}
}

func questionResponses(qs []practice.Question) []dto.QuestionResponse {
	out := make([]dto.QuestionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, questionResponse(q))
	}
	return out
}
