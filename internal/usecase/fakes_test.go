package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"placeprep/internal/domain/application"
	"placeprep/internal/domain/job"
	"placeprep/internal/domain/practice"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"

	"github.com/google/uuid"
)

type fakeJobs struct {
	mu   sync.Mutex
	byID map[uuid.UUID]job.Posting
	err  error
}

func newFakeJobs(postings ...job.Posting) *fakeJobs {
	f := &fakeJobs{byID: map[uuid.UUID]job.Posting{}}
	for _, p := range postings {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeJobs) GetJobByID(_ context.Context, id uuid.UUID) (job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return job.Posting{}, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return job.Posting{}, repository.ErrJobNotFound
	}
	return p, nil
}

func (f *fakeJobs) CreateJob(_ context.Context, p job.Posting) (job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return job.Posting{}, f.err
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakeJobs) ListJobsByCompany(_ context.Context, companyID uuid.UUID) ([]job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []job.Posting
	for _, p := range f.byID {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakeJobs) ListJobs(_ context.Context, limit, offset int) ([]job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]job.Posting, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	if offset >= len(out) {
		return []job.Posting{}, f.err
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, f.err
}

type fakeApps struct {
	mu     sync.Mutex
	apps   []application.Application
	writes map[uuid.UUID]int
	finds  int
	titles map[uuid.UUID]string

	findErr   error
	listErr   error
	updateErr error
}

func newFakeApps(apps ...application.Application) *fakeApps {
	return &fakeApps{apps: apps, writes: map[uuid.UUID]int{}, titles: map[uuid.UUID]string{}}
}

func (f *fakeApps) FindApplication(_ context.Context, studentID, jobID uuid.UUID) (application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.findErr != nil {
		return application.Application{}, f.findErr
	}
	for _, a := range f.apps {
		if a.StudentID == studentID && a.JobID == jobID {
			return a, nil
		}
	}
	return application.Application{}, repository.ErrApplicationNotFound
}

func (f *fakeApps) UpdateApplicationScore(_ context.Context, id uuid.UUID, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.writes[id]++
	for i := range f.apps {
		if f.apps[i].ID == id && f.apps[i].MatchScore == nil {
			v := score
			f.apps[i].MatchScore = &v
		}
	}
	return nil
}

func (f *fakeApps) ListApplicationsForJob(_ context.Context, jobID uuid.UUID) ([]application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []application.Application
	for _, a := range f.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.Before(out[j].AppliedAt) })
	return out, nil
}

func (f *fakeApps) CreateApplication(_ context.Context, a application.Application) (application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.apps {
		if e.StudentID == a.StudentID && e.JobID == a.JobID {
			return application.Application{}, repository.ErrDuplicateApplication
		}
	}
	a.ID = uuid.New()
	a.AppliedAt = time.Now()
	f.apps = append(f.apps, a)
	return a, nil
}

func (f *fakeApps) ListApplicationsByStudent(_ context.Context, studentID uuid.UUID, limit int) ([]application.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []application.Submission{}
	for _, a := range f.apps {
		if a.StudentID == studentID {
			out = append(out, application.Submission{Application: a, JobTitle: f.titles[a.JobID], CompanyName: "Acme"})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeApps) totalWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.writes {
		n += v
	}
	return n
}

type fakeStudents struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]user.StudentProfile
	attempts map[uuid.UUID][]practice.Attempt
	err      error
}

func newFakeStudents() *fakeStudents {
	return &fakeStudents{profiles: map[uuid.UUID]user.StudentProfile{}, attempts: map[uuid.UUID][]practice.Attempt{}}
}

func (f *fakeStudents) add(p user.StudentProfile, attempts ...practice.Attempt) {
	f.profiles[p.UserID] = p
	f.attempts[p.UserID] = attempts
}

func (f *fakeStudents) GetStudentProfile(_ context.Context, id uuid.UUID) (user.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return user.StudentProfile{}, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return user.StudentProfile{}, repository.ErrStudentNotFound
	}
	return p, nil
}

func (f *fakeStudents) FindStudentProfilesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := map[uuid.UUID]user.StudentProfile{}
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStudents) UpdateStudentProfile(_ context.Context, p user.StudentProfile) (user.StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return user.StudentProfile{}, f.err
	}
	cur := f.profiles[p.UserID]
	cur.UserID = p.UserID
	cur.CGPA = p.CGPA
	cur.Skills = p.Skills
	cur.Branch = p.Branch
	cur.GraduationYear = p.GraduationYear
	f.profiles[p.UserID] = cur
	return cur, nil
}

func (f *fakeStudents) ListAttempts(_ context.Context, id uuid.UUID) ([]practice.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[id], f.err
}

func (f *fakeStudents) ListAttemptsSince(_ context.Context, id uuid.UUID, since time.Time) ([]practice.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []practice.Attempt
	for _, a := range f.attempts[id] {
		if !a.AttemptedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStudents) FindAttemptsByUserIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]practice.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := map[uuid.UUID][]practice.Attempt{}
	for _, id := range ids {
		out[id] = f.attempts[id]
	}
	return out, nil
}

type fakeGuard struct {
	mu       sync.Mutex
	held     map[uuid.UUID]string
	deny     bool
	err      error
	released int
}

func newFakeGuard() *fakeGuard { return &fakeGuard{held: map[uuid.UUID]string{}} }

func (g *fakeGuard) TryAcquire(_ context.Context, id uuid.UUID) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", false, g.err
	}
	if _, busy := g.held[id]; g.deny || busy {
		return "", false, nil
	}
	token := uuid.NewString()
	g.held[id] = token
	return token, true, nil
}

// expire drops a marker as if its TTL ran out.
func (g *fakeGuard) expire(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, id)
}

func (g *fakeGuard) Release(_ context.Context, id uuid.UUID, token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[id] == token {
		delete(g.held, id)
	}
	g.released++
}

func (g *fakeGuard) holds(id uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[id]
	return ok
}

func f64(v float64) *float64 { return &v }

func attempts(topic string, correct, wrong int) []practice.Attempt {
	out := make([]practice.Attempt, 0, correct+wrong)
	for i := 0; i < correct; i++ {
		out = append(out, practice.Attempt{ID: uuid.New(), TopicName: topic, IsCorrect: true})
	}
	for i := 0; i < wrong; i++ {
		out = append(out, practice.Attempt{ID: uuid.New(), TopicName: topic, IsCorrect: false})
	}
	return out
}
