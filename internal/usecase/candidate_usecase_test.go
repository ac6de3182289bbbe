package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"placeprep/internal/domain/application"
	"placeprep/internal/domain/job"
	"placeprep/internal/domain/user"

	"github.com/google/uuid"
)

type candidateFixture struct {
	company  user.Identity
	posting  job.Posting
	apps     *fakeApps
	students *fakeStudents
	svc      *CandidateService
	ids      map[string]uuid.UUID
}

func newCandidateFixture(t *testing.T) *candidateFixture {
	t.Helper()

	company := user.Identity{UserID: uuid.New(), Email: "hr@acme.test", Role: user.RoleCompany}
	posting := job.Posting{ID: uuid.New(), CompanyID: company.UserID, Title: "Backend Engineer", RequiredSkills: []string{"Go"}}

	students := newFakeStudents()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ids := map[string]uuid.UUID{}
	var apps []application.Application

	add := func(name string, offset int, score *float64) {
		id := uuid.New()
		ids[name] = id
		students.add(user.StudentProfile{UserID: id, Name: name, Email: name + "@uni.test", CGPA: f64(10), Skills: []string{"Go"}})
		apps = append(apps, application.Application{
			ID:         uuid.New(),
			StudentID:  id,
			JobID:      posting.ID,
			MatchScore: score,
			Status:     application.StatusApplied,
			AppliedAt:  base.Add(time.Duration(offset) * time.Hour),
		})
	}
	add("ana", 0, f64(0.9))
	add("bo", 1, nil)
	add("cy", 2, f64(0.3))
	add("di", 3, f64(0.9))
	students.attempts[ids["ana"]] = attempts("Go", 3, 1)

	appStore := newFakeApps(apps...)
	policy := NewScorePolicy(appStore, newFakeGuard(), nil)
	svc := NewCandidateService(newFakeJobs(posting), appStore, students, policy, 2, nil)

	return &candidateFixture{company: company, posting: posting, apps: appStore, students: students, svc: svc, ids: ids}
}

func TestListCandidates_RanksFiltersAndBackfills(t *testing.T) {
	f := newCandidateFixture(t)
	ctx := context.Background()

	got, err := f.svc.ListCandidates(ctx, f.company, ListCandidatesInput{JobID: f.posting.ID, MinScore: 0.5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Job.ID != f.posting.ID {
		t.Fatalf("job = %s, want %s", got.Job.ID, f.posting.ID)
	}

	wantOrder := []string{"ana", "di", "bo"}
	wantScores := []float64{0.9, 0.9, 0.60}
	if len(got.Candidates) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(got.Candidates), len(wantOrder))
	}
	for i, c := range got.Candidates {
		if c.StudentID != f.ids[wantOrder[i]] {
			t.Fatalf("position %d = %s, want %s", i, c.Student.Name, wantOrder[i])
		}
		if c.MatchScore != wantScores[i] {
			t.Fatalf("%s score = %v, want %v", c.Student.Name, c.MatchScore, wantScores[i])
		}
		if c.Rank != i+1 {
			t.Fatalf("%s rank = %d, want %d", c.Student.Name, c.Rank, i+1)
		}
	}

	perf := got.Candidates[0].Performance
	if perf.TotalAttempts != 4 || perf.CorrectAttempts != 3 || perf.Accuracy != 75 {
		t.Fatalf("unexpected performance summary: %+v", perf)
	}

	if n := f.apps.totalWrites(); n != 1 {
		t.Fatalf("writes = %d, want 1 (only the unscored application)", n)
	}

	if _, err := f.svc.ListCandidates(ctx, f.company, ListCandidatesInput{JobID: f.posting.ID}); err != nil {
		t.Fatalf("second listing: %v", err)
	}
	if n := f.apps.totalWrites(); n != 1 {
		t.Fatalf("writes after second listing = %d, want 1", n)
	}
}

func TestListCandidates_ZeroThresholdReturnsEveryone(t *testing.T) {
	f := newCandidateFixture(t)

	got, err := f.svc.ListCandidates(context.Background(), f.company, ListCandidatesInput{JobID: f.posting.ID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Candidates) != 4 {
		t.Fatalf("len = %d, want 4", len(got.Candidates))
	}
	if last := got.Candidates[3]; last.StudentID != f.ids["cy"] || last.Rank != 4 {
		t.Fatalf("last = %+v", last)
	}
}

func TestListCandidates_NoApplications(t *testing.T) {
	company := user.Identity{UserID: uuid.New(), Role: user.RoleCompany}
	posting := job.Posting{ID: uuid.New(), CompanyID: company.UserID}
	apps := newFakeApps()
	svc := NewCandidateService(newFakeJobs(posting), apps, newFakeStudents(), NewScorePolicy(apps, nil, nil), 0, nil)

	got, err := svc.ListCandidates(context.Background(), company, ListCandidatesInput{JobID: posting.ID, MinScore: 0.2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Candidates == nil || len(got.Candidates) != 0 {
		t.Fatalf("expected empty, non-nil list, got %#v", got.Candidates)
	}
}

func TestListCandidates_Errors(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		setup func(f *candidateFixture) (user.Identity, ListCandidatesInput)
		want  error
	}{
		{
			name: "anonymous",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				return user.Identity{}, ListCandidatesInput{JobID: f.posting.ID}
			},
			want: ErrUnauthorized,
		},
		{
			name: "student caller",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				return user.Identity{UserID: f.ids["ana"], Role: user.RoleStudent}, ListCandidatesInput{JobID: f.posting.ID}
			},
			want: ErrForbidden,
		},
		{
			name: "other company",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				return user.Identity{UserID: uuid.New(), Role: user.RoleCompany}, ListCandidatesInput{JobID: f.posting.ID}
			},
			want: ErrForbidden,
		},
		{
			name: "threshold above one",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				return f.company, ListCandidatesInput{JobID: f.posting.ID, MinScore: 1.5}
			},
			want: ErrInvalidInput,
		},
		{
			name: "negative threshold",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				return f.company, ListCandidatesInput{JobID: f.posting.ID, MinScore: -0.1}
			},
			want: ErrInvalidInput,
		},
		{
			name: "unknown job",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				return f.company, ListCandidatesInput{JobID: uuid.New()}
			},
			want: ErrJobNotFound,
		},
		{
			name: "listing failure",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				f.apps.listErr = errors.New("db gone")
				return f.company, ListCandidatesInput{JobID: f.posting.ID}
			},
			want: ErrStorage,
		},
		{
			name: "score write failure",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				f.apps.updateErr = errors.New("db gone")
				return f.company, ListCandidatesInput{JobID: f.posting.ID}
			},
			want: ErrStorage,
		},
		{
			name: "profile lookup failure",
			setup: func(f *candidateFixture) (user.Identity, ListCandidatesInput) {
				f.students.err = errors.New("db gone")
				return f.company, ListCandidatesInput{JobID: f.posting.ID}
			},
			want: ErrStorage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCandidateFixture(t)
			id, in := tc.setup(f)
			if _, err := f.svc.ListCandidates(ctx, id, in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
