package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"placeprep/internal/domain/job"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultScoreWorkers = 8

type ListCandidatesInput struct {
	JobID uuid.UUID
	// MinScore is a fraction in [0,1].
	MinScore float64
}

type CandidateList struct {
	Job        job.Posting
	Candidates []Candidate
}

type CandidateUsecase interface {
	ListCandidates(ctx context.Context, id user.Identity, in ListCandidatesInput) (CandidateList, error)
}

type CandidateService struct {
	jobs     repository.JobRepository
	apps     repository.ApplicationRepository
	students repository.StudentRepository
	scores   *ScorePolicy
	workers  int
	logger   *log.Logger
}

func NewCandidateService(
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	students repository.StudentRepository,
	scores *ScorePolicy,
	workers int,
	logger *log.Logger,
) *CandidateService {
	if workers <= 0 {
		workers = defaultScoreWorkers
	}
	return &CandidateService{
		jobs:     jobs,
		apps:     apps,
		students: students,
		scores:   scores,
		workers:  workers,
		logger:   logger,
	}
}

// ListCandidates returns a job's applicants ranked by match score. Applications
// without a stored score are scored on the way and the result is persisted.
func (s *CandidateService) ListCandidates(ctx context.Context, id user.Identity, in ListCandidatesInput) (CandidateList, error) {
	if err := requireCompany(id); err != nil {
		return CandidateList{}, err
	}
	if math.IsNaN(in.MinScore) || in.MinScore < 0 || in.MinScore > 1 {
		return CandidateList{}, invalidInput(fmt.Errorf("min score %v out of range", in.MinScore))
	}

	posting, err := s.jobs.GetJobByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return CandidateList{}, ErrJobNotFound
		}
		return CandidateList{}, storageErr(err)
	}
	if posting.CompanyID != id.UserID {
		return CandidateList{}, ErrForbidden
	}

	apps, err := s.apps.ListApplicationsForJob(ctx, posting.ID)
	if err != nil {
		return CandidateList{}, storageErr(err)
	}
	if len(apps) == 0 {
		return CandidateList{Job: posting, Candidates: []Candidate{}}, nil
	}

	ids := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.StudentID)
	}
	profiles, err := s.students.FindStudentProfilesByIDs(ctx, ids)
	if err != nil {
		return CandidateList{}, storageErr(err)
	}
	attempts, err := s.students.FindAttemptsByUserIDs(ctx, ids)
	if err != nil {
		return CandidateList{}, storageErr(err)
	}

	jobSnap := jobSnapshot(posting)
	out := make([]Candidate, len(apps))

	for _, app := range apps {
		if _, ok := profiles[app.StudentID]; !ok {
			return CandidateList{}, fmt.Errorf("%w: application %s", ErrStudentNotFound, app.ID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, app := range apps {
		profile := profiles[app.StudentID]
		hist := attempts[app.StudentID]

		g.Go(func() error {
			score, err := s.scores.EnsureScore(gctx, app, studentSnapshot(profile, hist), jobSnap)
			if err != nil {
				return err
			}
			out[i] = Candidate{
				ApplicationID: app.ID,
				StudentID:     app.StudentID,
				Student: CandidateStudent{
					Name:           profile.Name,
					Email:          profile.Email,
					CGPA:           profile.CGPA,
					Skills:         profile.Skills,
					Branch:         profile.Branch,
					GraduationYear: profile.GraduationYear,
				},
				MatchScore:  score,
				Status:      app.Status,
				AppliedAt:   app.AppliedAt,
				Performance: summarizeAttempts(hist),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CandidateList{}, err
	}

	ranked := RankCandidates(out, in.MinScore)
	if s.logger != nil {
		s.logger.Printf("[Candidates] job=%s applications=%d returned=%d min_score=%.2f", posting.ID, len(apps), len(ranked), in.MinScore)
	}
	return CandidateList{Job: posting, Candidates: ranked}, nil
}
