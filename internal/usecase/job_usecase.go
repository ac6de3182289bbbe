package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"placeprep/internal/domain/job"
	"placeprep/internal/domain/matching"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"
)

const (
	defaultJobsLimit = 20
	maxJobsLimit     = 100

	minTitleLen       = 3
	minDescriptionLen = 10
)

type CreateJobInput struct {
	Title          string
	Description    string
	RequiredSkills []string
	MinCGPA        float64
	Salary         *string
	Location       *string
}

type ListJobsInput struct {
	Limit  int
	Offset int
}

type JobUsecase interface {
	CreateJob(ctx context.Context, id user.Identity, in CreateJobInput) (job.Posting, error)
	ListCompanyJobs(ctx context.Context, id user.Identity) ([]job.Posting, error)
	ListJobs(ctx context.Context, in ListJobsInput) ([]job.Posting, error)
}

type JobService struct {
	jobs repository.JobRepository
}

func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) CreateJob(ctx context.Context, id user.Identity, in CreateJobInput) (job.Posting, error) {
	if err := requireCompany(id); err != nil {
		return job.Posting{}, err
	}

	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if len(title) < minTitleLen {
		return job.Posting{}, invalidInput(fmt.Errorf("title must be at least %d characters", minTitleLen))
	}
	if len(desc) < minDescriptionLen {
		return job.Posting{}, invalidInput(fmt.Errorf("description must be at least %d characters", minDescriptionLen))
	}
	if math.IsNaN(in.MinCGPA) || in.MinCGPA < 0 || in.MinCGPA > matching.MaxCGPA {
		return job.Posting{}, invalidInput(fmt.Errorf("min cgpa %v out of range", in.MinCGPA))
	}
	skills, err := normalizeSkills(in.RequiredSkills)
	if err != nil {
		return job.Posting{}, err
	}

	created, err := s.jobs.CreateJob(ctx, job.Posting{
		CompanyID:      id.UserID,
		Title:          title,
		Description:    desc,
		RequiredSkills: skills,
		MinCGPA:        in.MinCGPA,
		Salary:         trimmedOrNil(in.Salary),
		Location:       trimmedOrNil(in.Location),
	})
	if err != nil {
		return job.Posting{}, storageErr(err)
	}
	return created, nil
}

func (s *JobService) ListCompanyJobs(ctx context.Context, id user.Identity) ([]job.Posting, error) {
	if err := requireCompany(id); err != nil {
		return nil, err
	}
	out, err := s.jobs.ListJobsByCompany(ctx, id.UserID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *JobService) ListJobs(ctx context.Context, in ListJobsInput) ([]job.Posting, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultJobsLimit
	}
	if limit > maxJobsLimit {
		limit = maxJobsLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	out, err := s.jobs.ListJobs(ctx, limit, offset)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
