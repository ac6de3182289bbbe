package usecase

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"placeprep/internal/domain/application"
	"placeprep/internal/domain/practice"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"

	"github.com/google/uuid"
)

const (
	performanceWindow  = 30 * 24 * time.Hour
	recentAttemptCount = 5
	recentApplications = 5
	previewRunes       = 50
)

type TopicPerformance struct {
	Topic     string
	Attempted int
	Accuracy  int
}

type DifficultyPerformance struct {
	Difficulty practice.Difficulty
	Attempted  int
	Accuracy   int
}

type PracticeSummary struct {
	TotalAttempts   int
	TotalCorrect    int
	TotalIncorrect  int
	OverallAccuracy int
	// AverageTime is in seconds.
	AverageTime int
}

// PerformanceReport covers the attempts of the last 30 days.
type PerformanceReport struct {
	Since        time.Time
	Daily        []practice.DayStat
	Topics       []TopicPerformance
	Difficulties []DifficultyPerformance
	Summary      PracticeSummary
}

type DashboardStats struct {
	TotalQuestions     int
	QuestionsAttempted int
	CorrectAnswers     int
	AverageTime        int
	Accuracy           int
	WeakTopics         []string
	StrongTopics       []string
}

type RecentAttempt struct {
	Attempt practice.Attempt
	Preview string
}

type Dashboard struct {
	Profile        user.StudentProfile
	Stats          DashboardStats
	RecentAttempts []RecentAttempt
	Applications   []application.Submission
}

type DashboardUsecase interface {
	Dashboard(ctx context.Context, id user.Identity) (Dashboard, error)
	Performance(ctx context.Context, id user.Identity) (PerformanceReport, error)
}

type DashboardService struct {
	students  repository.StudentRepository
	questions repository.QuestionRepository
	apps      repository.ApplicationRepository

	now func() time.Time
}

func NewDashboardService(
	students repository.StudentRepository,
	questions repository.QuestionRepository,
	apps repository.ApplicationRepository,
) *DashboardService {
	return &DashboardService{students: students, questions: questions, apps: apps, now: time.Now}
}

// Performance reports the caller's attempts from the last 30 days. Days are
// UTC calendar days.
func (s *DashboardService) Performance(ctx context.Context, id user.Identity) (PerformanceReport, error) {
	if err := requireStudent(id); err != nil {
		return PerformanceReport{}, err
	}
	since := s.now().UTC().Add(-performanceWindow)
	attempts, err := s.students.ListAttemptsSince(ctx, id.UserID, since)
	if err != nil {
		return PerformanceReport{}, storageErr(err)
	}

	out := PerformanceReport{
		Since:        since,
		Daily:        practice.StatsByDay(attempts, time.UTC),
		Topics:       []TopicPerformance{},
		Difficulties: []DifficultyPerformance{},
		Summary:      summarizePractice(attempts),
	}
	if out.Daily == nil {
		out.Daily = []practice.DayStat{}
	}
	for _, t := range practice.StatsByTopic(attempts) {
		out.Topics = append(out.Topics, TopicPerformance{
			Topic:     t.Topic,
			Attempted: t.Attempted,
			Accuracy:  practice.Percent(t.Correct, t.Attempted),
		})
	}
	for _, d := range practice.StatsByDifficulty(attempts) {
		out.Difficulties = append(out.Difficulties, DifficultyPerformance{
			Difficulty: d.Difficulty,
			Attempted:  d.Attempted,
			Accuracy:   practice.Percent(d.Correct, d.Attempted),
		})
	}
	return out, nil
}

func (s *DashboardService) Dashboard(ctx context.Context, id user.Identity) (Dashboard, error) {
	if err := requireStudent(id); err != nil {
		return Dashboard{}, err
	}
	profile, err := s.students.GetStudentProfile(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return Dashboard{}, ErrStudentNotFound
		}
		return Dashboard{}, storageErr(err)
	}
	attempts, err := s.students.ListAttempts(ctx, id.UserID)
	if err != nil {
		return Dashboard{}, storageErr(err)
	}
	total, err := s.questions.CountQuestions(ctx, nil)
	if err != nil {
		return Dashboard{}, storageErr(err)
	}
	apps, err := s.apps.ListApplicationsByStudent(ctx, id.UserID, recentApplications)
	if err != nil {
		return Dashboard{}, storageErr(err)
	}

	sum := summarizePractice(attempts)
	topics := practice.StatsByTopic(attempts)
	seen := make(map[uuid.UUID]struct{}, len(attempts))
	for _, a := range attempts {
		seen[a.QuestionID] = struct{}{}
	}

	return Dashboard{
		Profile: profile,
		Stats: DashboardStats{
			TotalQuestions:     total,
			QuestionsAttempted: len(seen),
			CorrectAnswers:     sum.TotalCorrect,
			AverageTime:        sum.AverageTime,
			Accuracy:           sum.OverallAccuracy,
			WeakTopics:         topicNames(practice.WeakTopics(topics)),
			StrongTopics:       topicNames(practice.StrongTopics(topics)),
		},
		RecentAttempts: recentAttempts(attempts, recentAttemptCount),
		Applications:   apps,
	}, nil
}

func summarizePractice(attempts []practice.Attempt) PracticeSummary {
	out := PracticeSummary{TotalAttempts: len(attempts), AverageTime: practice.AverageTime(attempts)}
	for _, a := range attempts {
		if a.IsCorrect {
			out.TotalCorrect++
		}
	}
	out.TotalIncorrect = out.TotalAttempts - out.TotalCorrect
	out.OverallAccuracy = practice.Percent(out.TotalCorrect, out.TotalAttempts)
	return out
}

// recentAttempts takes the newest n of attempts, which arrive oldest first.
func recentAttempts(attempts []practice.Attempt, n int) []RecentAttempt {
	out := make([]RecentAttempt, 0, min(n, len(attempts)))
	for i := len(attempts) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, RecentAttempt{Attempt: attempts[i], Preview: preview(attempts[i].QuestionContent)})
	}
	return out
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	return string([]rune(content)[:previewRunes]) + "..."
}

func topicNames(stats []practice.TopicStat) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Topic)
	}
	return out
}
