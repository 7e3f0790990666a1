package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"ireporter/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, identifier, password string) (*models.User, error)
}

type TokenRepository interface {
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error
	ConsumeResetToken(ctx context.Context, token, newPassword string) (int64, error)
}

// RecordRepository stores one record family, selected by its RecordKind.
type RecordRepository interface {
	Kind() models.RecordKind
	List(ctx context.Context, userID *int64) ([]models.Record, error)
	GetByID(ctx context.Context, id int64) (*models.Record, error)
	Create(ctx context.Context, record *models.Record) error
	Update(ctx context.Context, id int64, cols []models.ColumnValue) (*models.Record, error)
	Delete(ctx context.Context, id int64) error
}

// ResolutionRepository stores the resolutions attached to one record family.
type ResolutionRepository interface {
	Kind() models.RecordKind
	List(ctx context.Context, recordID *int64) ([]models.Resolution, error)
	GetByID(ctx context.Context, id int64) (*models.Resolution, error)
	Create(ctx context.Context, resolution *models.Resolution) error
	Update(ctx context.Context, id int64, cols []models.ColumnValue) (*models.Resolution, error)
	Delete(ctx context.Context, id int64) error
}

type TablesRepository interface {
	MissingTables(ctx context.Context, expected []string) ([]string, error)
	Truncate(ctx context.Context, tables []string) error
}

type Repository struct {
	User                UserRepository
	Token               TokenRepository
	Reports             RecordRepository
	Petitions           RecordRepository
	ReportResolutions   ResolutionRepository
	PetitionResolutions ResolutionRepository
	Tables              TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:                NewUserRepository(db),
		Token:               NewTokenRepository(db),
		Reports:             NewRecordRepository(db, models.CorruptionReport),
		Petitions:           NewRecordRepository(db, models.PublicPetition),
		ReportResolutions:   NewResolutionRepository(db, models.CorruptionReport),
		PetitionResolutions: NewResolutionRepository(db, models.PublicPetition),
		Tables:              NewTablesRepository(db),
	}
}
