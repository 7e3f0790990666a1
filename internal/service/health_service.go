package service

import (
	"context"
	"fmt"

	"ireporter/internal/repository"
)

// SchemaTables lists the tables created by the migrations.
var SchemaTables = []string{
	"users",
	"corruption_reports",
	"corruption_resolutions",
	"public_petitions",
	"petition_resolutions",
	"revoked_tokens",
	"password_reset_tokens",
}

type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthReport struct {
	Status        string   `json:"status"`
	Database      string   `json:"database"`
	MissingTables []string `json:"missing_tables,omitempty"`
}

func (r HealthReport) Healthy() bool {
	return r.Status == "ok"
}

type HealthService interface {
	Check(ctx context.Context) HealthReport
}

type healthService struct {
	db         Pinger
	tablesRepo repository.TablesRepository
}

func NewHealthService(db Pinger, tablesRepo repository.TablesRepository) HealthService {
	return &healthService{db: db, tablesRepo: tablesRepo}
}

func (h *healthService) Check(ctx context.Context) HealthReport {
	if err := h.db.HealthCheck(ctx); err != nil {
		return HealthReport{Status: "unavailable", Database: fmt.Sprintf("unreachable: %v", err)}
	}

	missing, err := h.tablesRepo.MissingTables(ctx, SchemaTables)
	if err != nil {
		return HealthReport{Status: "unavailable", Database: err.Error()}
	}
	if len(missing) > 0 {
		return HealthReport{Status: "degraded", Database: "ok", MissingTables: missing}
	}

	return HealthReport{Status: "ok", Database: "ok"}
}
