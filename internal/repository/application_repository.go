package repository

import (
	"context"
	"errors"
	"time"

	"placeprep/internal/database"
	dbpostgres "placeprep/internal/database/postgres"
	"placeprep/internal/domain/application"

	"github.com/google/uuid"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already exists")
)

type ApplicationRepository interface {
	FindApplication(ctx context.Context, studentID, jobID uuid.UUID) (application.Application, error)
	UpdateApplicationScore(ctx context.Context, applicationID uuid.UUID, score float64) error
	ListApplicationsForJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error)
	CreateApplication(ctx context.Context, a application.Application) (application.Application, error)
	ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]application.Submission, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, student_id, job_posting_id, match_score, status, applied_at`

func (r *PostgresApplicationRepository) FindApplication(ctx context.Context, studentID, jobID uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 AND job_posting_id = $2`,
		studentID, jobID,
	)
	a, err := scanApplication(row)
	if err != nil {
		if dbpostgres.IsNoRows(err) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

// UpdateApplicationScore only fills an unset score; a settled score is left untouched.
func (r *PostgresApplicationRepository) UpdateApplicationScore(ctx context.Context, applicationID uuid.UUID, score float64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE applications SET match_score = $1 WHERE id = $2 AND match_score IS NULL`,
		score, applicationID,
	)
	return err
}

func (r *PostgresApplicationRepository) ListApplicationsForJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE job_posting_id = $1
		 ORDER BY applied_at ASC, id ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) CreateApplication(ctx context.Context, a application.Application) (application.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = application.StatusApplied
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, student_id, job_posting_id, match_score, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.StudentID, a.JobID, a.MatchScore, string(a.Status), a.AppliedAt,
	)
	if err != nil {
		if dbpostgres.IsUniqueViolation(err) {
			return application.Application{}, ErrDuplicateApplication
		}
		return application.Application{}, err
	}
	return a, nil
}

// ListApplicationsByStudent returns the student's newest applications first.
func (r *PostgresApplicationRepository) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]application.Submission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.student_id, a.job_posting_id, a.match_score, a.status, a.applied_at, j.title, c.name
		 FROM applications a
		 JOIN job_postings j ON j.id = a.job_posting_id
		 JOIN users c ON c.id = j.company_id
		 WHERE a.student_id = $1
		 ORDER BY a.applied_at DESC, a.id DESC
		 LIMIT $2`,
		studentID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Submission, 0)
	for rows.Next() {
		var sub application.Submission
		var status string
		if err := rows.Scan(&sub.ID, &sub.StudentID, &sub.JobID, &sub.MatchScore, &status, &sub.AppliedAt,
			&sub.JobTitle, &sub.CompanyName); err != nil {
			return nil, err
		}
		sub.Status = application.Status(status)
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var a application.Application
	var status string
	if err := row.Scan(&a.ID, &a.StudentID, &a.JobID, &a.MatchScore, &status, &a.AppliedAt); err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
