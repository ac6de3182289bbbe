package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitAttemptRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	TimeTaken  int    `json:"time_taken"`
}

type AttemptResponse struct {
	AttemptID     uuid.UUID `json:"attempt_id"`
	IsCorrect     bool      `json:"is_correct"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   *string   `json:"explanation"`
	AttemptedAt   time.Time `json:"attempted_at"`
}

type TopicResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   *string   `json:"description"`
	QuestionCount int       `json:"question_count"`
}

// QuestionResponse never carries the correct answer or explanation; those are
// revealed by an attempt.
type QuestionResponse struct {
	ID         uuid.UUID `json:"id"`
	TopicID    uuid.UUID `json:"topic_id"`
	TopicName  string    `json:"topic_name"`
	Content    string    `json:"content"`
	Options    []string  `json:"options"`
	Difficulty string    `json:"difficulty"`
}

type TopicProgressResponse struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type RandomQuestionResponse struct {
	Completed bool                  `json:"completed"`
	Question  *QuestionResponse     `json:"question"`
	Progress  TopicProgressResponse `json:"progress"`
}

type RecommendationsResponse struct {
	Recommendations []QuestionResponse `json:"recommendations"`
	WeakTopics      []string           `json:"weak_topics"`
}
