package postgres

import (
	"context"
	"strings"

	"placeprep/internal/database"
	dbpostgres "placeprep/internal/database/postgres"
	"placeprep/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts the account and, for students, an empty profile row
// in the same transaction.
func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	return database.WithTx(ctx, r.db, func(q database.Querier) error {
		_, err := q.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, name, role) VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role),
		)
		if dbpostgres.IsUniqueViolation(err) {
			return user.ErrEmailAlreadyTaken
		}
		if err != nil {
			return err
		}
		if u.Role != user.RoleStudent {
			return nil
		}
		_, err = q.Exec(ctx, `INSERT INTO student_profiles (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, u.ID)
		return err
	})
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, created_at, updated_at FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, created_at, updated_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, strings.ToLower(strings.TrimSpace(email)))
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if dbpostgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}
