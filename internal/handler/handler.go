package handlers

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ireporter/internal/config"
	"ireporter/internal/service"
)

type Handlers struct {
	AuthService         service.AuthService
	Reports             service.RecordService
	Petitions           service.RecordService
	ReportResolutions   service.ResolutionService
	PetitionResolutions service.ResolutionService
	MediaService        service.MediaService
	HealthService       service.HealthService
	Metrics             http.Handler
	Cfg                 *config.Config
	Validate            *validator.Validate
	Log                 *zap.Logger
}

func NewHandlers(svc *service.Service, metrics http.Handler, cfg *config.Config, log *zap.Logger) *Handlers {
	return &Handlers{
		AuthService:         svc.Auth,
		Reports:             svc.Reports,
		Petitions:           svc.Petitions,
		ReportResolutions:   svc.ReportResolutions,
		PetitionResolutions: svc.PetitionResolutions,
		MediaService:        svc.Media,
		HealthService:       svc.Health,
		Metrics:             metrics,
		Cfg:                 cfg,
		Validate:            NewValidator(),
		Log:                 log,
	}
}

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
