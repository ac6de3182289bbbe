package usecase

import (
	"context"
	"errors"
	"log"

	"placeprep/internal/domain/application"
	"placeprep/internal/domain/matching"
	"placeprep/internal/repository"

	"github.com/google/uuid"
)

// ScoreStore is the persistence side of the score cache: the nullable
// match_score column on an application.
type ScoreStore interface {
	FindApplication(ctx context.Context, studentID, jobID uuid.UUID) (application.Application, error)
	UpdateApplicationScore(ctx context.Context, applicationID uuid.UUID, score float64) error
}

// ScoreGuard marks an application's score as "computing" between unset and set.
type ScoreGuard interface {
	// TryAcquire returns the token identifying this holder's marker.
	TryAcquire(ctx context.Context, applicationID uuid.UUID) (token string, ok bool, err error)
	// Release clears the marker only while it still carries token.
	Release(ctx context.Context, applicationID uuid.UUID, token string)
}

// ScorePolicy reuses a stored score and only computes (and persists) one when
// none exists yet. A stored score is returned as-is even if the student's
// profile has changed since it was written.
//
// Two requests may still compute the same missing score concurrently when the
// guard is unavailable. Both write the same deterministic value, so the race
// is harmless and no lock is taken.
type ScorePolicy struct {
	store  ScoreStore
	guard  ScoreGuard
	logger *log.Logger
}

func NewScorePolicy(store ScoreStore, guard ScoreGuard, logger *log.Logger) *ScorePolicy {
	return &ScorePolicy{store: store, guard: guard, logger: logger}
}

func (p *ScorePolicy) GetOrComputeScore(ctx context.Context, studentID, jobID uuid.UUID, s matching.Student, j matching.Job) (float64, error) {
	app, err := p.store.FindApplication(ctx, studentID, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return 0, ErrApplicationNotFound
		}
		return 0, storageErr(err)
	}
	return p.EnsureScore(ctx, app, s, j)
}

// EnsureScore is GetOrComputeScore for a caller that already holds the
// application record.
func (p *ScorePolicy) EnsureScore(ctx context.Context, app application.Application, s matching.Student, j matching.Job) (float64, error) {
	if app.MatchScore != nil {
		return *app.MatchScore, nil
	}

	res, err := matching.Calculate(s, j)
	if err != nil {
		return 0, invalidInput(err)
	}

	if p.guard != nil {
		token, ok, err := p.guard.TryAcquire(ctx, app.ID)
		switch {
		case err != nil:
			p.logf("[Score] guard error application=%s, writing anyway: %v", app.ID, err)
		case !ok:
			p.logf("[Score] computation in flight application=%s, skipping write", app.ID)
			return res.Score, nil
		default:
			defer p.guard.Release(context.WithoutCancel(ctx), app.ID, token)
		}
	}

	if err := p.store.UpdateApplicationScore(ctx, app.ID, res.Score); err != nil {
		return 0, storageErr(err)
	}
	p.logf("[Score] computed application=%s score=%.2f", app.ID, res.Score)
	return res.Score, nil
}

func (p *ScorePolicy) logf(format string, args ...any) {
	if p == nil || p.logger == nil {
		return
	}
	p.logger.Printf(format, args...)
}
