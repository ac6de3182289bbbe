package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"placeprep/internal/domain/matching"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"
)

type UpdateProfileInput struct {
	CGPA           *float64
	Skills         []string
	Branch         *string
	GraduationYear *int
}

type ProfileView struct {
	Profile     user.StudentProfile
	Performance PerformanceSummary
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, id user.Identity) (ProfileView, error)
	UpdateProfile(ctx context.Context, id user.Identity, in UpdateProfileInput) (ProfileView, error)
}

type ProfileService struct {
	students repository.StudentRepository
}

func NewProfileService(students repository.StudentRepository) *ProfileService {
	return &ProfileService{students: students}
}

func (s *ProfileService) GetProfile(ctx context.Context, id user.Identity) (ProfileView, error) {
	if err := requireStudent(id); err != nil {
		return ProfileView{}, err
	}
	p, err := s.students.GetStudentProfile(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return ProfileView{}, ErrStudentNotFound
		}
		return ProfileView{}, storageErr(err)
	}
	attempts, err := s.students.ListAttempts(ctx, id.UserID)
	if err != nil {
		return ProfileView{}, storageErr(err)
	}
	return ProfileView{Profile: p, Performance: summarizeAttempts(attempts)}, nil
}

// UpdateProfile replaces the caller's editable profile fields. Scores already
// stored on existing applications are left untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, id user.Identity, in UpdateProfileInput) (ProfileView, error) {
	if err := requireStudent(id); err != nil {
		return ProfileView{}, err
	}
	if in.CGPA != nil {
		v := *in.CGPA
		if math.IsNaN(v) || v < 0 || v > matching.MaxCGPA {
			return ProfileView{}, invalidInput(fmt.Errorf("cgpa %v out of range", v))
		}
	}
	if in.GraduationYear != nil && (*in.GraduationYear < 1900 || *in.GraduationYear > 2100) {
		return ProfileView{}, invalidInput(fmt.Errorf("graduation year %d out of range", *in.GraduationYear))
	}
	skills, err := normalizeSkills(in.Skills)
	if err != nil {
		return ProfileView{}, err
	}

	var branch *string
	if in.Branch != nil {
		if b := strings.TrimSpace(*in.Branch); b != "" {
			branch = &b
		}
	}

	if _, err := s.students.UpdateStudentProfile(ctx, user.StudentProfile{
		UserID:         id.UserID,
		CGPA:           in.CGPA,
		Skills:         skills,
		Branch:         branch,
		GraduationYear: in.GraduationYear,
	}); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return ProfileView{}, ErrStudentNotFound
		}
		return ProfileView{}, storageErr(err)
	}
	return s.GetProfile(ctx, id)
}

// normalizeSkills trims entries and drops case-insensitive duplicates,
// keeping the first spelling seen.
func normalizeSkills(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, invalidInput(errors.New("skills must not contain blank entries"))
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
