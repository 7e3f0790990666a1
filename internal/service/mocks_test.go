package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"ireporter/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, identifier, password string) (*models.User, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) ConsumeResetToken(ctx context.Context, token, newPassword string) (int64, error) {
	args := m.Called(ctx, token, newPassword)
	return args.Get(0).(int64), args.Error(1)
}

type MockRecordRepository struct {
	mock.Mock
	kind models.RecordKind
}

func (m *MockRecordRepository) Kind() models.RecordKind {
	return m.kind
}

func (m *MockRecordRepository) List(ctx context.Context, userID *int64) ([]models.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

func (m *MockRecordRepository) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Record), args.Error(1)
}

func (m *MockRecordRepository) Create(ctx context.Context, record *models.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Update(ctx context.Context, id int64, cols []models.ColumnValue) (*models.Record, error) {
	args := m.Called(ctx, id, cols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Record), args.Error(1)
}

func (m *MockRecordRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockResolutionRepository struct {
	mock.Mock
	kind models.RecordKind
}

func (m *MockResolutionRepository) Kind() models.RecordKind {
	return m.kind
}

func (m *MockResolutionRepository) List(ctx context.Context, recordID *int64) ([]models.Resolution, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Resolution), args.Error(1)
}

func (m *MockResolutionRepository) GetByID(ctx context.Context, id int64) (*models.Resolution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resolution), args.Error(1)
}

func (m *MockResolutionRepository) Create(ctx context.Context, resolution *models.Resolution) error {
	args := m.Called(ctx, resolution)
	return args.Error(0)
}

func (m *MockResolutionRepository) Update(ctx context.Context, id int64, cols []models.ColumnValue) (*models.Resolution, error) {
	args := m.Called(ctx, id, cols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resolution), args.Error(1)
}

func (m *MockResolutionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) MissingTables(ctx context.Context, expected []string) ([]string, error) {
	args := m.Called(ctx, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTablesRepository) Truncate(ctx context.Context, tables []string) error {
	args := m.Called(ctx, tables)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error {
	args := m.Called(ctx, to, token, expiresAt)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, folder, fileName, file, size)
	return args.String(0), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveUpload(folder string, err error) {
	m.Called(folder, err)
}
