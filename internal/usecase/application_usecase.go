package usecase

import (
	"context"
	"errors"
	"log"

	"placeprep/internal/domain/application"
	"placeprep/internal/domain/job"
	"placeprep/internal/domain/matching"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"

	"github.com/google/uuid"
)

type AppliedJob struct {
	Application application.Application
	Job         job.Posting
}

type MatchView struct {
	ApplicationID uuid.UUID
	Score         float64
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, id user.Identity, jobID uuid.UUID) (AppliedJob, error)
	MatchScore(ctx context.Context, id user.Identity, jobID uuid.UUID) (MatchView, error)
}

type ApplicationService struct {
	jobs     repository.JobRepository
	apps     repository.ApplicationRepository
	students repository.StudentRepository
	scores   *ScorePolicy
	logger   *log.Logger
}

func NewApplicationService(
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	students repository.StudentRepository,
	scores *ScorePolicy,
	logger *log.Logger,
) *ApplicationService {
	return &ApplicationService{jobs: jobs, apps: apps, students: students, scores: scores, logger: logger}
}

// Apply records a student's application and stores its match score at the
// same time, so later listings read it from the application row.
func (s *ApplicationService) Apply(ctx context.Context, id user.Identity, jobID uuid.UUID) (AppliedJob, error) {
	if err := requireStudent(id); err != nil {
		return AppliedJob{}, err
	}

	posting, err := s.getJob(ctx, jobID)
	if err != nil {
		return AppliedJob{}, err
	}

	if _, err := s.apps.FindApplication(ctx, id.UserID, jobID); err == nil {
		return AppliedJob{}, ErrDuplicateApplication
	} else if !errors.Is(err, repository.ErrApplicationNotFound) {
		return AppliedJob{}, storageErr(err)
	}

	snap, err := s.studentSnapshot(ctx, id.UserID)
	if err != nil {
		return AppliedJob{}, err
	}

	res, err := matching.Calculate(snap, jobSnapshot(posting))
	if err != nil {
		return AppliedJob{}, invalidInput(err)
	}

	score := res.Score
	created, err := s.apps.CreateApplication(ctx, application.Application{
		StudentID:  id.UserID,
		JobID:      jobID,
		MatchScore: &score,
		Status:     application.StatusApplied,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return AppliedJob{}, ErrDuplicateApplication
		}
		return AppliedJob{}, storageErr(err)
	}

	if s.logger != nil {
		s.logger.Printf("[Apply] student=%s job=%s score=%.2f", id.UserID, jobID, score)
	}
	return AppliedJob{Application: created, Job: posting}, nil
}

// MatchScore returns the score of the caller's application to a job,
// computing and storing it first if it has never been set.
func (s *ApplicationService) MatchScore(ctx context.Context, id user.Identity, jobID uuid.UUID) (MatchView, error) {
	if err := requireStudent(id); err != nil {
		return MatchView{}, err
	}

	posting, err := s.getJob(ctx, jobID)
	if err != nil {
		return MatchView{}, err
	}

	app, err := s.apps.FindApplication(ctx, id.UserID, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return MatchView{}, ErrApplicationNotFound
		}
		return MatchView{}, storageErr(err)
	}
	if app.HasScore() {
		return MatchView{ApplicationID: app.ID, Score: *app.MatchScore}, nil
	}

	snap, err := s.studentSnapshot(ctx, id.UserID)
	if err != nil {
		return MatchView{}, err
	}
	score, err := s.scores.EnsureScore(ctx, app, snap, jobSnapshot(posting))
	if err != nil {
		return MatchView{}, err
	}
	return MatchView{ApplicationID: app.ID, Score: score}, nil
}

func (s *ApplicationService) getJob(ctx context.Context, jobID uuid.UUID) (job.Posting, error) {
	posting, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Posting{}, ErrJobNotFound
		}
		return job.Posting{}, storageErr(err)
	}
	return posting, nil
}

func (s *ApplicationService) studentSnapshot(ctx context.Context, studentID uuid.UUID) (matching.Student, error) {
	profile, err := s.students.GetStudentProfile(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return matching.Student{}, ErrStudentNotFound
		}
		return matching.Student{}, storageErr(err)
	}
	attempts, err := s.students.ListAttempts(ctx, studentID)
	if err != nil {
		return matching.Student{}, storageErr(err)
	}
	return studentSnapshot(profile, attempts), nil
}

func requireStudent(id user.Identity) error {
	if id.IsZero() {
		return ErrUnauthorized
	}
	if !id.Is(user.RoleStudent) {
		return ErrForbidden
	}
	return nil
}

func requireCompany(id user.Identity) error {
	if id.IsZero() {
		return ErrUnauthorized
	}
	if !id.Is(user.RoleCompany) {
		return ErrForbidden
	}
	return nil
}
