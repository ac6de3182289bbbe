package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"placeprep/internal/domain/practice"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"

	"github.com/google/uuid"
)

type SubmitAttemptInput struct {
	QuestionID uuid.UUID
	Answer     string
	// TimeTaken is in seconds.
	TimeTaken int
}

type AttemptResult struct {
	Attempt       practice.Attempt
	CorrectAnswer string
	Explanation   *string
}

const (
	defaultQuestionLimit = 10
	maxQuestionLimit     = 50
	recommendationCount  = 5
)

type ListQuestionsInput struct {
	TopicID    *uuid.UUID
	Difficulty string
	Category   string
	// Limit 0 means the default page size.
	Limit int
}

type TopicProgress struct {
	Remaining int
	Total     int
	Completed int
}

// RandomQuestion is one open question from a topic. Question is nil once
// every question in the topic has been answered correctly.
type RandomQuestion struct {
	Topic     practice.Topic
	Question  *practice.Question
	Completed bool
	Progress  TopicProgress
}

type Recommendations struct {
	Questions  []practice.Question
	WeakTopics []string
}

type PracticeUsecase interface {
	SubmitAttempt(ctx context.Context, id user.Identity, in SubmitAttemptInput) (AttemptResult, error)
	ListTopics(ctx context.Context) ([]practice.Topic, error)
	ListQuestions(ctx context.Context, in ListQuestionsInput) ([]practice.Question, error)
	RandomQuestion(ctx context.Context, id user.Identity, topicID uuid.UUID) (RandomQuestion, error)
	Recommendations(ctx context.Context, id user.Identity) (Recommendations, error)
}

type PracticeService struct {
	questions repository.QuestionRepository
	students  repository.StudentRepository

	// pick returns an index in [0, n).
	pick func(n int) int
}

func NewPracticeService(questions repository.QuestionRepository, students repository.StudentRepository) *PracticeService {
	return &PracticeService{questions: questions, students: students, pick: rand.IntN}
}

// SubmitAttempt grades an answer against the question's correct option and
// appends it to the caller's attempt history. Answers compare exactly after
// trimming surrounding whitespace.
func (s *PracticeService) SubmitAttempt(ctx context.Context, id user.Identity, in SubmitAttemptInput) (AttemptResult, error) {
	if err := requireStudent(id); err != nil {
		return AttemptResult{}, err
	}
	if in.QuestionID == uuid.Nil {
		return AttemptResult{}, invalidInput(errors.New("question id is required"))
	}
	if in.TimeTaken < 0 {
		return AttemptResult{}, invalidInput(fmt.Errorf("time taken %d is negative", in.TimeTaken))
	}

	q, err := s.questions.GetQuestionByID(ctx, in.QuestionID)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return AttemptResult{}, ErrQuestionNotFound
		}
		return AttemptResult{}, storageErr(err)
	}

	correct := strings.TrimSpace(in.Answer) == strings.TrimSpace(q.CorrectAnswer)
	a, err := s.questions.CreateAttempt(ctx, practice.Attempt{
		UserID:     id.UserID,
		QuestionID: q.ID,
		TopicID:    q.TopicID,
		TopicName:  q.TopicName,
		Difficulty: q.Difficulty,
		IsCorrect:  correct,
		TimeTaken:  in.TimeTaken,
	})
	if err != nil {
		return AttemptResult{}, storageErr(err)
	}
	return AttemptResult{Attempt: a, CorrectAnswer: q.CorrectAnswer, Explanation: q.Explanation}, nil
}

func (s *PracticeService) ListTopics(ctx context.Context) ([]practice.Topic, error) {
	topics, err := s.questions.ListTopics(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return topics, nil
}

// ListQuestions returns questions newest first. Difficulty and category match
// case-insensitively; the limit is capped at maxQuestionLimit.
func (s *PracticeService) ListQuestions(ctx context.Context, in ListQuestionsInput) ([]practice.Question, error) {
	f := practice.QuestionFilter{TopicID: in.TopicID, Limit: in.Limit}

	if v := strings.TrimSpace(in.Difficulty); v != "" {
		f.Difficulty = practice.Difficulty(strings.ToUpper(v))
		if !f.Difficulty.Valid() {
			return nil, invalidInput(fmt.Errorf("unknown difficulty %q", in.Difficulty))
		}
	}
	if v := strings.TrimSpace(in.Category); v != "" {
		f.Category = practice.Category(strings.ToUpper(v))
		if !f.Category.Valid() {
			return nil, invalidInput(fmt.Errorf("unknown category %q", in.Category))
		}
	}
	switch {
	case f.Limit < 0:
		return nil, invalidInput(fmt.Errorf("limit %d is negative", in.Limit))
	case f.Limit == 0:
		f.Limit = defaultQuestionLimit
	case f.Limit > maxQuestionLimit:
		f.Limit = maxQuestionLimit
	}

	qs, err := s.questions.ListQuestions(ctx, f)
	if err != nil {
		return nil, storageErr(err)
	}
	return qs, nil
}

// RandomQuestion picks one of the topic's questions the caller has not yet
// answered correctly. Wrongly answered questions stay in the pool.
func (s *PracticeService) RandomQuestion(ctx context.Context, id user.Identity, topicID uuid.UUID) (RandomQuestion, error) {
	if err := requireStudent(id); err != nil {
		return RandomQuestion{}, err
	}
	if topicID == uuid.Nil {
		return RandomQuestion{}, invalidInput(errors.New("topic id is required"))
	}

	topic, err := s.questions.GetTopicByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			return RandomQuestion{}, ErrTopicNotFound
		}
		return RandomQuestion{}, storageErr(err)
	}
	open, err := s.questions.ListOpenQuestions(ctx, id.UserID, topicID)
	if err != nil {
		return RandomQuestion{}, storageErr(err)
	}

	out := RandomQuestion{
		Topic: topic,
		Progress: TopicProgress{
			Remaining: len(open),
			Total:     topic.QuestionCount,
			Completed: max(topic.QuestionCount-len(open), 0),
		},
	}
	if len(open) == 0 {
		out.Completed = true
		return out, nil
	}
	q := open[s.pick(len(open))]
	out.Question = &q
	return out, nil
}

// Recommendations suggests up to recommendationCount questions the caller has
// never attempted, taking weak topics first and filling from the newest
// questions elsewhere.
func (s *PracticeService) Recommendations(ctx context.Context, id user.Identity) (Recommendations, error) {
	if err := requireStudent(id); err != nil {
		return Recommendations{}, err
	}
	attempts, err := s.students.ListAttempts(ctx, id.UserID)
	if err != nil {
		return Recommendations{}, storageErr(err)
	}

	weak := practice.WeakTopics(practice.StatsByTopic(attempts))
	out := Recommendations{Questions: []practice.Question{}, WeakTopics: make([]string, 0, len(weak))}
	weakIDs := make([]uuid.UUID, 0, len(weak))
	for _, w := range weak {
		out.WeakTopics = append(out.WeakTopics, w.Topic)
		weakIDs = append(weakIDs, w.TopicID)
	}

	if len(weakIDs) > 0 {
		qs, err := s.questions.ListUnattemptedQuestions(ctx, id.UserID, weakIDs, nil, recommendationCount)
		if err != nil {
			return Recommendations{}, storageErr(err)
		}
		out.Questions = append(out.Questions, qs...)
	}
	if missing := recommendationCount - len(out.Questions); missing > 0 {
		taken := make([]uuid.UUID, 0, len(out.Questions))
		for _, q := range out.Questions {
			taken = append(taken, q.ID)
		}
		qs, err := s.questions.ListUnattemptedQuestions(ctx, id.UserID, nil, taken, missing)
		if err != nil {
			return Recommendations{}, storageErr(err)
		}
		out.Questions = append(out.Questions, qs...)
	}
	return out, nil
}
