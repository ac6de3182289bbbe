package dto

import (
	"time"

	"github.com/google/uuid"
)

type DailyPerformanceResponse struct {
	Date      string `json:"date"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	Total     int    `json:"total"`
}

type TopicPerformanceResponse struct {
	Topic     string `json:"topic"`
	Accuracy  int    `json:"accuracy"`
	Attempted int    `json:"attempted"`
}

type DifficultyPerformanceResponse struct {
	Difficulty string `json:"difficulty"`
	Accuracy   int    `json:"accuracy"`
	Attempted  int    `json:"attempted"`
}

type PracticeSummaryResponse struct {
	TotalAttempts   int `json:"total_attempts"`
	TotalCorrect    int `json:"total_correct"`
	TotalIncorrect  int `json:"total_incorrect"`
	OverallAccuracy int `json:"overall_accuracy"`
	AverageTime     int `json:"average_time"`
}

type PerformanceReportResponse struct {
	Since                 time.Time                       `json:"since"`
	Daily                 []DailyPerformanceResponse      `json:"daily"`
	TopicPerformance      []TopicPerformanceResponse      `json:"topic_performance"`
	DifficultyPerformance []DifficultyPerformanceResponse `json:"difficulty_performance"`
	Summary               PracticeSummaryResponse         `json:"summary"`
}

type DashboardUserResponse struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	CGPA   *float64 `json:"cgpa"`
	Branch *string  `json:"branch"`
	Skills []string `json:"skills"`
}

type DashboardStatsResponse struct {
	TotalQuestions     int      `json:"total_questions"`
	QuestionsAttempted int      `json:"questions_attempted"`
	CorrectAnswers     int      `json:"correct_answers"`
	AverageTime        int      `json:"average_time"`
	Accuracy           int      `json:"accuracy"`
	WeakTopics         []string `json:"weak_topics"`
	StrongTopics       []string `json:"strong_topics"`
}

type RecentAttemptResponse struct {
	ID          uuid.UUID `json:"id"`
	Question    string    `json:"question"`
	Topic       string    `json:"topic"`
	IsCorrect   bool      `json:"is_correct"`
	TimeTaken   int       `json:"time_taken"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type DashboardApplicationResponse struct {
	ID         uuid.UUID `json:"id"`
	JobID      uuid.UUID `json:"job_id"`
	JobTitle   string    `json:"job_title"`
	Company    string    `json:"company"`
	Status     string    `json:"status"`
	MatchScore *float64  `json:"match_score"`
	AppliedAt  time.Time `json:"applied_at"`
}

type DashboardResponse struct {
	User           DashboardUserResponse          `json:"user"`
	Stats          DashboardStatsResponse         `json:"stats"`
	RecentAttempts []RecentAttemptResponse        `json:"recent_attempts"`
	Applications   []DashboardApplicationResponse `json:"applications"`
}
