package repository

import (
	"context"
	"errors"
	"time"

	"placeprep/internal/database"
	dbpostgres "placeprep/internal/database/postgres"
	"placeprep/internal/domain/practice"
	"placeprep/internal/domain/user"

	"github.com/google/uuid"
)

var ErrStudentNotFound = errors.New("student not found")

type StudentRepository interface {
	GetStudentProfile(ctx context.Context, userID uuid.UUID) (user.StudentProfile, error)
	FindStudentProfilesByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]user.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, p user.StudentProfile) (user.StudentProfile, error)

	ListAttempts(ctx context.Context, userID uuid.UUID) ([]practice.Attempt, error)
	ListAttemptsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]practice.Attempt, error)
	FindAttemptsByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]practice.Attempt, error)
}

type PostgresStudentRepository struct {
	db database.DB
}

func NewPostgresStudentRepository(db database.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

const studentProfileQuery = `SELECT u.id, u.name, u.email, sp.cgpa, COALESCE(sp.skills, '{}'), sp.branch, sp.graduation_year
	 FROM users u
	 LEFT JOIN student_profiles sp ON sp.user_id = u.id
	 WHERE u.role = 'STUDENT'`

func (r *PostgresStudentRepository) GetStudentProfile(ctx context.Context, userID uuid.UUID) (user.StudentProfile, error) {
	row := r.db.QueryRow(ctx, studentProfileQuery+` AND u.id = $1`, userID)
	p, err := scanStudentProfile(row)
	if err != nil {
		if dbpostgres.IsNoRows(err) {
			return user.StudentProfile{}, ErrStudentNotFound
		}
		return user.StudentProfile{}, err
	}
	return p, nil
}

func (r *PostgresStudentRepository) FindStudentProfilesByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]user.StudentProfile, error) {
	out := make(map[uuid.UUID]user.StudentProfile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, studentProfileQuery+` AND u.id = ANY($1::uuid[])`, uuidStrings(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanStudentProfile(rows)
		if err != nil {
			return nil, err
		}
		out[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresStudentRepository) UpdateStudentProfile(ctx context.Context, p user.StudentProfile) (user.StudentProfile, error) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO student_profiles (user_id, cgpa, skills, branch, graduation_year, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			cgpa = EXCLUDED.cgpa,
			skills = EXCLUDED.skills,
			branch = EXCLUDED.branch,
			graduation_year = EXCLUDED.graduation_year,
			updated_at = now()`,
		p.UserID, p.CGPA, p.Skills, p.Branch, p.GraduationYear,
	)
	if err != nil {
		return user.StudentProfile{}, err
	}
	return r.GetStudentProfile(ctx, p.UserID)
}

const attemptsQuery = `SELECT qa.id, qa.user_id, qa.question_id, q.topic_id, t.name, q.difficulty, q.content,
	 qa.is_correct, qa.time_taken, qa.attempted_at
	 FROM question_attempts qa
	 JOIN questions q ON q.id = qa.question_id
	 JOIN topics t ON t.id = q.topic_id`

func (r *PostgresStudentRepository) ListAttempts(ctx context.Context, userID uuid.UUID) ([]practice.Attempt, error) {
	byUser, err := r.queryAttempts(ctx, attemptsQuery+` WHERE qa.user_id = $1 ORDER BY qa.attempted_at ASC, qa.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	return byUser[userID], nil
}

func (r *PostgresStudentRepository) ListAttemptsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]practice.Attempt, error) {
	byUser, err := r.queryAttempts(ctx,
		attemptsQuery+` WHERE qa.user_id = $1 AND qa.attempted_at >= $2 ORDER BY qa.attempted_at ASC, qa.id ASC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	return byUser[userID], nil
}

func (r *PostgresStudentRepository) FindAttemptsByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]practice.Attempt, error) {
	if len(userIDs) == 0 {
		return map[uuid.UUID][]practice.Attempt{}, nil
	}
	return r.queryAttempts(ctx, attemptsQuery+` WHERE qa.user_id = ANY($1::uuid[]) ORDER BY qa.attempted_at ASC, qa.id ASC`, uuidStrings(userIDs))
}

func (r *PostgresStudentRepository) queryAttempts(ctx context.Context, query string, args ...any) (map[uuid.UUID][]practice.Attempt, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uuid.UUID][]practice.Attempt{}
	for rows.Next() {
		var a practice.Attempt
		var difficulty string
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.TopicID, &a.TopicName, &difficulty, &a.QuestionContent,
			&a.IsCorrect, &a.TimeTaken, &a.AttemptedAt); err != nil {
			return nil, err
		}
		a.Difficulty = practice.Difficulty(difficulty)
		out[a.UserID] = append(out[a.UserID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanStudentProfile(row database.Row) (user.StudentProfile, error) {
	var p user.StudentProfile
	if err := row.Scan(&p.UserID, &p.Name, &p.Email, &p.CGPA, &p.Skills, &p.Branch, &p.GraduationYear); err != nil {
		return user.StudentProfile{}, err
	}
	return p, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
