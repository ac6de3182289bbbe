package repository

import (
	"context"
	"errors"
	"time"

	"placeprep/internal/database"
	dbpostgres "placeprep/internal/database/postgres"
	"placeprep/internal/domain/job"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	GetJobByID(ctx context.Context, jobID uuid.UUID) (job.Posting, error)
	CreateJob(ctx context.Context, p job.Posting) (job.Posting, error)
	ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Posting, error)
	ListJobs(ctx context.Context, limit, offset int) ([]job.Posting, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `j.id, j.company_id, c.name, j.title, j.description, j.required_skills, j.min_cgpa, j.salary, j.location, j.created_at`

func (r *PostgresJobRepository) GetJobByID(ctx context.Context, jobID uuid.UUID) (job.Posting, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobColumns+`, 0 FROM job_postings j JOIN users c ON c.id = j.company_id WHERE j.id = $1`,
		jobID,
	)
	p, err := scanJob(row)
	if err != nil {
		if dbpostgres.IsNoRows(err) {
			return job.Posting{}, ErrJobNotFound
		}
		return job.Posting{}, err
	}
	return p, nil
}

func (r *PostgresJobRepository) CreateJob(ctx context.Context, p job.Posting) (job.Posting, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO job_postings (id, company_id, title, description, required_skills, min_cgpa, salary, location, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CompanyID, p.Title, p.Description, p.RequiredSkills, p.MinCGPA, p.Salary, p.Location, p.CreatedAt,
	)
	if err != nil {
		return job.Posting{}, err
	}
	return p, nil
}

func (r *PostgresJobRepository) ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Posting, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+`, COUNT(a.id)
		 FROM job_postings j
		 JOIN users c ON c.id = j.company_id
		 LEFT JOIN applications a ON a.job_posting_id = j.id
		 WHERE j.company_id = $1
		 GROUP BY j.id, c.name
		 ORDER BY j.created_at DESC`,
		companyID,
	)
}

func (r *PostgresJobRepository) ListJobs(ctx context.Context, limit, offset int) ([]job.Posting, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return r.list(ctx,
		`SELECT `+jobColumns+`, COUNT(a.id)
		 FROM job_postings j
		 JOIN users c ON c.id = j.company_id
		 LEFT JOIN applications a ON a.job_posting_id = j.id
		 GROUP BY j.id, c.name
		 ORDER BY j.created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Posting, 0)
	for rows.Next() {
		p, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Posting, error) {
	var p job.Posting
	var count int64
	if err := row.Scan(&p.ID, &p.CompanyID, &p.CompanyName, &p.Title, &p.Description, &p.RequiredSkills, &p.MinCGPA, &p.Salary, &p.Location, &p.CreatedAt, &count); err != nil {
		return job.Posting{}, err
	}
	p.ApplicationCount = int(count)
	return p, nil
}
