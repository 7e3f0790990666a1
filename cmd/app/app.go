package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"ireporter/internal/config"
	"ireporter/internal/database"
	handlers "ireporter/internal/handler"
	"ireporter/internal/mailer"
	"ireporter/internal/metrics"
	"ireporter/internal/repository"
	"ireporter/internal/service"
	"ireporter/internal/storage"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Handler  http.Handler
}

// Connect opens the database and builds the repositories on top of it.
func Connect(cfg *config.Config, log *zap.Logger) (*database.DB, *repository.Repository, error) {
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return db, repository.NewRepository(db.DB), nil
}

// New wires every dependency of the HTTP server.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, repo, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		_ = db.CloseDB()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageProvider, err)
	}
	log.Info("object storage ready", zap.String("provider", cfg.StorageProvider))

	m := metrics.New()

	services := service.NewService(service.Deps{
		Repo:     repo,
		DB:       db,
		Storage:  store,
		Mailer:   mailer.NewSMTPMailer(cfg.SMTP, log),
		Observer: m,
		Cfg:      cfg,
		Log:      log,
	})

	h := handlers.NewHandlers(services, m.Handler(), cfg, log)

	return &App{
		Cfg:      cfg,
		Log:      log,
		DB:       db,
		Repo:     repo,
		Services: services,
		Handler:  handlers.NewRouter(h, m),
	}, nil
}

func (a *App) Close() error {
	return a.DB.CloseDB()
}
