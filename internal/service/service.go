package service

import (
	"go.uber.org/zap"

	"ireporter/internal/config"
	"ireporter/internal/mailer"
	"ireporter/internal/repository"
	"ireporter/internal/storage"
)

type Service struct {
	Auth                AuthService
	Reports             RecordService
	Petitions           RecordService
	ReportResolutions   ResolutionService
	PetitionResolutions ResolutionService
	Media               MediaService
	Health              HealthService
}

type Deps struct {
	Repo     *repository.Repository
	DB       Pinger
	Storage  storage.Storage
	Mailer   mailer.Mailer
	Observer UploadObserver
	Cfg      *config.Config
	Log      *zap.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		Auth:                NewAuthService(d.Repo.User, d.Repo.Token, d.Mailer, d.Cfg, d.Log),
		Reports:             NewRecordService(d.Repo.Reports),
		Petitions:           NewRecordService(d.Repo.Petitions),
		ReportResolutions:   NewResolutionService(d.Repo.ReportResolutions),
		PetitionResolutions: NewResolutionService(d.Repo.PetitionResolutions),
		Media:               NewMediaService(d.Storage, d.Observer, d.Log),
		Health:              NewHealthService(d.DB, d.Repo.Tables),
	}
}
