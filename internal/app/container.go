package app

import (
	"context"
	"errors"
	"log"
	"os"

	"placeprep/internal/config"
	"placeprep/internal/database"
	dbpostgres "placeprep/internal/database/postgres"
	"placeprep/internal/infrastructure/cache"
	"placeprep/internal/infrastructure/persistence/postgres"
	"placeprep/internal/pkg/jwt"
	"placeprep/internal/repository"
	"placeprep/internal/usecase"
)

// Container owns the process-wide dependencies. Build it once at startup and
// Close it on shutdown.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Redis  *cache.Redis
	JWT    jwt.Service

	Auth         *usecase.Auth
	Profiles     *usecase.ProfileService
	Practice     *usecase.PracticeService
	Dashboard    *usecase.DashboardService
	Jobs         *usecase.JobService
	Applications *usecase.ApplicationService
	Candidates   *usecase.CandidateService
}

func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	connCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()
	db, err := dbpostgres.Connect(connCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  cache.NewRedis(cfg.Redis, logger),
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
	}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	users := postgres.NewUserRepository(c.DB)
	students := repository.NewPostgresStudentRepository(c.DB)
	jobs := repository.NewPostgresJobRepository(c.DB)
	apps := repository.NewPostgresApplicationRepository(c.DB)
	questions := repository.NewPostgresQuestionRepository(c.DB)

	scores := usecase.NewScorePolicy(apps, c.Redis, c.Logger)

	c.Auth = usecase.NewAuthUsecase(users, c.JWT)
	c.Profiles = usecase.NewProfileService(students)
	c.Practice = usecase.NewPracticeService(questions, students)
	c.Dashboard = usecase.NewDashboardService(students, questions, apps)
	c.Jobs = usecase.NewJobService(jobs)
	c.Applications = usecase.NewApplicationService(jobs, apps, students, scores, c.Logger)
	c.Candidates = usecase.NewCandidateService(jobs, apps, students, scores, c.Config.Scoring.Workers, c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
