// Package app assembles the dashboard's stores and their collaborators.
package app

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/certdash/internal/config"
	"github.com/dtroode/certdash/internal/localstore"
	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/repository/postgres"
	"github.com/dtroode/certdash/internal/service"
	storage "github.com/dtroode/certdash/internal/storage/minio"
	"github.com/dtroode/certdash/internal/store"
	"github.com/dtroode/certdash/internal/token"
)

// App holds every store of a running dashboard client.
type App struct {
	Logger *logger.Logger
	Auth   *service.Auth

	Skills         *store.Skills
	SAOs           *store.SAOs
	Documents      *store.Documents
	Deadlines      *store.Deadlines
	Progress       *store.Progress
	Search         *store.Search
	LocalDocuments *store.LocalDocuments
	Lifecycle      *store.Lifecycle

	db   *postgres.Connection
	slot *localstore.Slot
}

// New connects to the remote store, blob storage and the local slot and
// builds the stores on top of them. The lifecycle coordinator is started.
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*App, error) {
	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.PoolOptions{
		MaxConns:          cfg.Database.MaxConns,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	blobs, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	slot, err := localstore.Open(cfg.Local.StorePath, cfg.Local.SlotName)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	userSkillRepo := postgres.NewUserSkillRepository(db)
	saoRepo := postgres.NewSAORepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, cfg.JWT.RefreshTTL, logger)
	auth := service.NewAuth(userRepo, tokenService, logger)

	env := store.Env{Session: auth, Logger: logger, Timeout: cfg.RequestTimeout}

	a := &App{
		Logger: logger,
		Auth:   auth,
		db:     db,
		slot:   slot,
	}
	a.Skills = store.NewSkills(env, userSkillRepo)
	a.SAOs = store.NewSAOs(env, saoRepo)
	a.Documents = store.NewDocuments(env, postgres.NewDocumentRepository(db), blobs)
	a.Deadlines = store.NewDeadlines(env, postgres.NewDeadlineRepository(db))
	a.Progress = store.NewProgress(env, a.Skills, postgres.NewExperienceRepository(db))
	a.Search = store.NewSearch(env, userSkillRepo, saoRepo)
	a.LocalDocuments = store.NewLocalDocuments(slot, logger)

	a.Lifecycle = store.NewLifecycle(auth, logger,
		a.Skills, a.SAOs, a.Documents, a.Deadlines, a.Progress, a.Search)
	a.Lifecycle.Start()

	return a, nil
}

// Close waits for pending skill writes and releases every connection.
func (a *App) Close() error {
	a.Skills.Wait()
	a.Lifecycle.Close()
	a.db.Close()
	if err := a.slot.Close(); err != nil {
		return fmt.Errorf("failed to close local store: %w", err)
	}
	return nil
}
