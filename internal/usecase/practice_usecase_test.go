package usecase

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"placeprep/internal/domain/practice"
	"placeprep/internal/domain/user"
	"placeprep/internal/repository"

	"github.com/google/uuid"
)

type fakeQuestions struct {
	byID     map[uuid.UUID]practice.Question
	topics   []practice.Topic
	attempts []practice.Attempt
	err      error

	// newest first, the order the store lists questions in
	ordered     []practice.Question
	gotFilter   practice.QuestionFilter
	unattempted [][]uuid.UUID
}

func newFakeQuestions(topics []practice.Topic, qs ...practice.Question) *fakeQuestions {
	f := &fakeQuestions{byID: map[uuid.UUID]practice.Question{}, topics: topics, ordered: qs}
	for _, q := range qs {
		f.byID[q.ID] = q
	}
	return f
}

func (f *fakeQuestions) GetQuestionByID(_ context.Context, id uuid.UUID) (practice.Question, error) {
	if f.err != nil {
		return practice.Question{}, f.err
	}
	q, ok := f.byID[id]
	if !ok {
		return practice.Question{}, repository.ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeQuestions) CreateAttempt(_ context.Context, a practice.Attempt) (practice.Attempt, error) {
	a.ID = uuid.New()
	a.AttemptedAt = time.Now()
	f.attempts = append(f.attempts, a)
	return a, nil
}

func (f *fakeQuestions) ListTopics(_ context.Context) ([]practice.Topic, error) {
	return f.topics, f.err
}

func (f *fakeQuestions) GetTopicByID(_ context.Context, id uuid.UUID) (practice.Topic, error) {
	if f.err != nil {
		return practice.Topic{}, f.err
	}
	for _, t := range f.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return practice.Topic{}, repository.ErrTopicNotFound
}

func (f *fakeQuestions) ListQuestions(_ context.Context, filter practice.QuestionFilter) ([]practice.Question, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := []practice.Question{}
	for _, q := range f.ordered {
		if filter.TopicID != nil && q.TopicID != *filter.TopicID {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, q)
	}
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeQuestions) CountQuestions(_ context.Context, topicID *uuid.UUID) (int, error) {
	if topicID == nil {
		return len(f.ordered), f.err
	}
	n := 0
	for _, q := range f.ordered {
		if q.TopicID == *topicID {
			n++
		}
	}
	return n, f.err
}

func (f *fakeQuestions) ListOpenQuestions(_ context.Context, userID, topicID uuid.UUID) ([]practice.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	solved := map[uuid.UUID]bool{}
	for _, a := range f.attempts {
		if a.UserID == userID && a.IsCorrect {
			solved[a.QuestionID] = true
		}
	}
	out := []practice.Question{}
	for _, q := range f.ordered {
		if q.TopicID == topicID && !solved[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestions) ListUnattemptedQuestions(_ context.Context, userID uuid.UUID, topicIDs, exclude []uuid.UUID, limit int) ([]practice.Question, error) {
	f.unattempted = append(f.unattempted, topicIDs)
	if f.err != nil {
		return nil, f.err
	}
	tried := map[uuid.UUID]bool{}
	for _, a := range f.attempts {
		if a.UserID == userID {
			tried[a.QuestionID] = true
		}
	}
	for _, id := range exclude {
		tried[id] = true
	}
	out := []practice.Question{}
	for _, q := range f.ordered {
		if len(out) == limit {
			break
		}
		if tried[q.ID] || (len(topicIDs) > 0 && !slices.Contains(topicIDs, q.TopicID)) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func TestSubmitAttempt(t *testing.T) {
	q := practice.Question{ID: uuid.New(), TopicName: "SQL Basics", Options: []string{"A", "B"}, CorrectAnswer: "B"}
	repo := newFakeQuestions(nil, q)
	svc := NewPracticeService(repo, newFakeStudents())
	id := user.Identity{UserID: uuid.New(), Role: user.RoleStudent}
	ctx := context.Background()

	got, err := svc.SubmitAttempt(ctx, id, SubmitAttemptInput{QuestionID: q.ID, Answer: " B ", TimeTaken: 30})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.Attempt.IsCorrect || got.CorrectAnswer != "B" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Attempt.TopicName != "SQL Basics" || got.Attempt.UserID != id.UserID {
		t.Fatalf("attempt not attributed: %+v", got.Attempt)
	}

	wrong, err := svc.SubmitAttempt(ctx, id, SubmitAttemptInput{QuestionID: q.ID, Answer: "A"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if wrong.Attempt.IsCorrect {
		t.Fatalf("wrong answer graded correct")
	}
	if len(repo.attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(repo.attempts))
	}
}

func TestSubmitAttempt_Errors(t *testing.T) {
	repo := newFakeQuestions(nil)
	svc := NewPracticeService(repo, newFakeStudents())
	id := user.Identity{UserID: uuid.New(), Role: user.RoleStudent}
	ctx := context.Background()

	if _, err := svc.SubmitAttempt(ctx, id, SubmitAttemptInput{QuestionID: uuid.New()}); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("got %v, want ErrQuestionNotFound", err)
	}
	if _, err := svc.SubmitAttempt(ctx, id, SubmitAttemptInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.SubmitAttempt(ctx, id, SubmitAttemptInput{QuestionID: uuid.New(), TimeTaken: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	repo.err = errors.New("db gone")
	if _, err := svc.SubmitAttempt(ctx, id, SubmitAttemptInput{QuestionID: uuid.New()}); !errors.Is(err, ErrStorage) {
		t.Fatalf("got %v, want ErrStorage", err)
	}
}

type practiceFixture struct {
	student  user.Identity
	sql      practice.Topic
	graphs   practice.Topic
	repo     *fakeQuestions
	students *fakeStudents
	svc      *PracticeService
}

// newPracticeFixture seeds two topics with three questions each, listed
// newest first.
func newPracticeFixture() *practiceFixture {
	sql := practice.Topic{ID: uuid.New(), Name: "SQL", Category: practice.CategoryTechnical, QuestionCount: 3}
	graphs := practice.Topic{ID: uuid.New(), Name: "Graphs", Category: practice.CategoryCoding, QuestionCount: 3}
	var qs []practice.Question
	for _, t := range []practice.Topic{sql, graphs} {
		for _, d := range []practice.Difficulty{practice.DifficultyEasy, practice.DifficultyMedium, practice.DifficultyHard} {
			qs = append(qs, practice.Question{ID: uuid.New(), TopicID: t.ID, TopicName: t.Name, Difficulty: d, CorrectAnswer: "A"})
		}
	}
	repo := newFakeQuestions([]practice.Topic{graphs, sql}, qs...)
	students := newFakeStudents()
	f := &practiceFixture{
		student:  user.Identity{UserID: uuid.New(), Role: user.RoleStudent},
		sql:      sql,
		graphs:   graphs,
		repo:     repo,
		students: students,
		svc:      NewPracticeService(repo, students),
	}
	students.add(user.StudentProfile{UserID: f.student.UserID, Name: "Ana"})
	return f
}

func (f *practiceFixture) questionsIn(t practice.Topic) []practice.Question {
	var out []practice.Question
	for _, q := range f.repo.ordered {
		if q.TopicID == t.ID {
			out = append(out, q)
		}
	}
	return out
}

// answer records an attempt in both the question store and the student history.
func (f *practiceFixture) answer(q practice.Question, correct bool) {
	a := practice.Attempt{ID: uuid.New(), UserID: f.student.UserID, QuestionID: q.ID, TopicID: q.TopicID,
		TopicName: q.TopicName, Difficulty: q.Difficulty, IsCorrect: correct, AttemptedAt: time.Now()}
	f.repo.attempts = append(f.repo.attempts, a)
	f.students.attempts[f.student.UserID] = append(f.students.attempts[f.student.UserID], a)
}

func TestListTopics(t *testing.T) {
	f := newPracticeFixture()
	got, err := f.svc.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].QuestionCount != 3 {
		t.Fatalf("unexpected topics: %+v", got)
	}

	f.repo.err = errors.New("db gone")
	if _, err := f.svc.ListTopics(context.Background()); !errors.Is(err, ErrStorage) {
		t.Fatalf("got %v, want ErrStorage", err)
	}
}

func TestListQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("default limit", func(t *testing.T) {
		f := newPracticeFixture()
		if _, err := f.svc.ListQuestions(ctx, ListQuestionsInput{}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if f.repo.gotFilter.Limit != defaultQuestionLimit {
			t.Fatalf("limit = %d, want %d", f.repo.gotFilter.Limit, defaultQuestionLimit)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		f := newPracticeFixture()
		if _, err := f.svc.ListQuestions(ctx, ListQuestionsInput{Limit: 500}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if f.repo.gotFilter.Limit != maxQuestionLimit {
			t.Fatalf("limit = %d, want %d", f.repo.gotFilter.Limit, maxQuestionLimit)
		}
	})

	t.Run("filters are normalized", func(t *testing.T) {
		f := newPracticeFixture()
		got, err := f.svc.ListQuestions(ctx, ListQuestionsInput{TopicID: &f.sql.ID, Difficulty: " hard ", Category: "technical"})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if f.repo.gotFilter.Difficulty != practice.DifficultyHard || f.repo.gotFilter.Category != practice.CategoryTechnical {
			t.Fatalf("unexpected filter: %+v", f.repo.gotFilter)
		}
		if len(got) != 1 || got[0].TopicID != f.sql.ID || got[0].Difficulty != practice.DifficultyHard {
			t.Fatalf("unexpected questions: %+v", got)
		}
	})

	t.Run("bad input", func(t *testing.T) {
		f := newPracticeFixture()
		for _, in := range []ListQuestionsInput{{Difficulty: "extreme"}, {Category: "MUSIC"}, {Limit: -1}} {
			if _, err := f.svc.ListQuestions(ctx, in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("input %+v: got %v, want ErrInvalidInput", in, err)
			}
		}
	})
}

func TestRandomQuestion_SkipsCorrectlyAnswered(t *testing.T) {
	f := newPracticeFixture()
	ctx := context.Background()
	sqlQs := f.questionsIn(f.sql)
	f.answer(sqlQs[0], true)
	f.answer(sqlQs[1], false)
	f.svc.pick = func(n int) int { return n - 1 }

	got, err := f.svc.RandomQuestion(ctx, f.student, f.sql.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Completed || got.Question == nil {
		t.Fatalf("expected an open question, got %+v", got)
	}
	if got.Question.ID != sqlQs[2].ID {
		t.Fatalf("picked %s, want last open question %s", got.Question.ID, sqlQs[2].ID)
	}
	if got.Progress != (TopicProgress{Remaining: 2, Total: 3, Completed: 1}) {
		t.Fatalf("unexpected progress: %+v", got.Progress)
	}

	// a wrong answer keeps the question in the pool
	f.svc.pick = func(int) int { return 0 }
	got, err = f.svc.RandomQuestion(ctx, f.student, f.sql.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Question.ID != sqlQs[1].ID {
		t.Fatalf("picked %s, want wrongly answered %s", got.Question.ID, sqlQs[1].ID)
	}
}

func TestRandomQuestion_TopicCompleted(t *testing.T) {
	f := newPracticeFixture()
	for _, q := range f.questionsIn(f.graphs) {
		f.answer(q, true)
	}
	got, err := f.svc.RandomQuestion(context.Background(), f.student, f.graphs.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !got.Completed || got.Question != nil {
		t.Fatalf("expected completed topic, got %+v", got)
	}
	if got.Progress != (TopicProgress{Remaining: 0, Total: 3, Completed: 3}) {
		t.Fatalf("unexpected progress: %+v", got.Progress)
	}
}

func TestRandomQuestion_Errors(t *testing.T) {
	f := newPracticeFixture()
	ctx := context.Background()

	if _, err := f.svc.RandomQuestion(ctx, f.student, uuid.Nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.RandomQuestion(ctx, f.student, uuid.New()); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("got %v, want ErrTopicNotFound", err)
	}
	company := user.Identity{UserID: uuid.New(), Role: user.RoleCompany}
	if _, err := f.svc.RandomQuestion(ctx, company, f.sql.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	f.repo.err = errors.New("db gone")
	if _, err := f.svc.RandomQuestion(ctx, f.student, f.sql.ID); !errors.Is(err, ErrStorage) {
		t.Fatalf("got %v, want ErrStorage", err)
	}
}

func TestRecommendations_WeakTopicsFirst(t *testing.T) {
	f := newPracticeFixture()
	// three wrong SQL answers make SQL weak and leave no SQL question unattempted
	for _, q := range f.questionsIn(f.sql) {
		f.answer(q, false)
	}
	// graphs gets one wrong answer, too few to classify
	graphQs := f.questionsIn(f.graphs)
	f.answer(graphQs[0], false)

	got, err := f.svc.Recommendations(context.Background(), f.student)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.WeakTopics) != 1 || got.WeakTopics[0] != "SQL" {
		t.Fatalf("weak topics = %v, want [SQL]", got.WeakTopics)
	}
	// weak topic has nothing left, so the fill brings the two unattempted graph questions
	if len(got.Questions) != 2 || got.Questions[0].ID != graphQs[1].ID || got.Questions[1].ID != graphQs[2].ID {
		t.Fatalf("unexpected recommendations: %+v", got.Questions)
	}
	if len(f.repo.unattempted) != 2 || len(f.repo.unattempted[0]) != 1 || f.repo.unattempted[1] != nil {
		t.Fatalf("unexpected store calls: %v", f.repo.unattempted)
	}
}

func TestRecommendations_PrefersWeakTopicQuestions(t *testing.T) {
	f := newPracticeFixture()
	// add unattempted SQL questions and make SQL weak through other attempts
	for i := 0; i < 4; i++ {
		q := practice.Question{ID: uuid.New(), TopicID: f.sql.ID, TopicName: "SQL", Difficulty: practice.DifficultyEasy}
		f.repo.ordered = append(f.repo.ordered, q)
		f.repo.byID[q.ID] = q
	}
	for _, q := range f.questionsIn(f.sql)[:3] {
		f.answer(q, false)
	}

	got, err := f.svc.Recommendations(context.Background(), f.student)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Questions) != recommendationCount {
		t.Fatalf("got %d recommendations, want %d", len(got.Questions), recommendationCount)
	}
	for i, q := range got.Questions[:4] {
		if q.TopicID != f.sql.ID {
			t.Fatalf("recommendation %d from %s, want SQL first", i, q.TopicName)
		}
	}
	if got.Questions[4].TopicID != f.graphs.ID {
		t.Fatalf("fill should come from another topic, got %s", got.Questions[4].TopicName)
	}
}

func TestRecommendations_NoHistory(t *testing.T) {
	f := newPracticeFixture()
	got, err := f.svc.Recommendations(context.Background(), f.student)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.WeakTopics) != 0 || got.WeakTopics == nil {
		t.Fatalf("weak topics = %#v, want empty list", got.WeakTopics)
	}
	if len(got.Questions) != recommendationCount {
		t.Fatalf("got %d recommendations, want %d", len(got.Questions), recommendationCount)
	}
	// no weak topics, so only the fill query runs
	if len(f.repo.unattempted) != 1 {
		t.Fatalf("store called %d times, want 1", len(f.repo.unattempted))
	}

	f.students.err = errors.New("db gone")
	if _, err := f.svc.Recommendations(context.Background(), f.student); !errors.Is(err, ErrStorage) {
		t.Fatalf("got %v, want ErrStorage", err)
	}
}
