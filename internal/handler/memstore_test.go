package handlers_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
	"ireporter/internal/repository"
)

// memStore is an in-memory stand-in for PostgreSQL that follows the same
// error contract as the sqlx repositories.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*models.User
	revoked     map[string]time.Time
	resetTokens map[string]*models.PasswordResetToken
	records     map[string]map[int64]*models.Record
	resolutions map[string]map[int64]*models.Resolution
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*models.User{},
		revoked:     map[string]time.Time{},
		resetTokens: map[string]*models.PasswordResetToken{},
		records:     map[string]map[int64]*models.Record{},
		resolutions: map[string]map[int64]*models.Resolution{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:                &memUsers{s},
		Token:               &memTokens{s},
		Reports:             &memRecords{s, models.CorruptionReport},
		Petitions:           &memRecords{s, models.PublicPetition},
		ReportResolutions:   &memResolutions{s, models.CorruptionReport},
		PetitionResolutions: &memResolutions{s, models.PublicPetition},
		Tables:              memTables{},
	}
}

type memUsers struct{ s *memStore }

func (m *memUsers) CreateUser(_ context.Context, user *models.User, password string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return apperror.New(apperror.Conflict, "email already registered")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.ID = m.s.id()
	user.CreatedAt = time.Now()

	stored := *user
	m.s.users[user.ID] = &stored
	return nil
}

func (m *memUsers) GetUserByID(_ context.Context, userID int64) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[userID]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}
	copied := *u
	return &copied, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.New(apperror.NotFound, "user not found")
}

func (m *memUsers) VerifyPassword(_ context.Context, identifier, password string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	invalid := apperror.New(apperror.Authentication, "invalid credentials")
	var byName []*models.User
	var match *models.User
	for _, u := range m.s.users {
		if u.Email == strings.ToLower(identifier) {
			match = u
			break
		}
		if u.Fullname == identifier {
			byName = append(byName, u)
		}
	}
	if match == nil {
		if len(byName) != 1 {
			return nil, invalid
		}
		match = byName[0]
	}

	if bcrypt.CompareHashAndPassword([]byte(match.PasswordHash), []byte(password)) != nil {
		return nil, invalid
	}
	copied := *match
	return &copied, nil
}

type memTokens struct{ s *memStore }

func (m *memTokens) RevokeToken(_ context.Context, jti string, expiresAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.revoked[jti] = expiresAt
	return nil
}

func (m *memTokens) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.revoked[jti]
	return ok, nil
}

func (m *memTokens) CreateResetToken(_ context.Context, token *models.PasswordResetToken) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	token.ID = m.s.id()
	stored := *token
	m.s.resetTokens[token.Token] = &stored
	return nil
}

func (m *memTokens) ConsumeResetToken(_ context.Context, token, newPassword string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.resetTokens[token]
	if !ok || stored.ExpiresAt.Before(time.Now()) {
		return 0, apperror.New(apperror.Validation, "invalid or expired reset token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.MinCost)
	if err != nil {
		return 0, err
	}
	m.s.users[stored.UserID].PasswordHash = string(hash)
	delete(m.s.resetTokens, token)
	return stored.UserID, nil
}

type memRecords struct {
	s    *memStore
	kind models.RecordKind
}

func (m *memRecords) table() map[int64]*models.Record {
	t, ok := m.s.records[m.kind.Table]
	if !ok {
		t = map[int64]*models.Record{}
		m.s.records[m.kind.Table] = t
	}
	return t
}

func (m *memRecords) Kind() models.RecordKind { return m.kind }

func (m *memRecords) List(_ context.Context, userID *int64) ([]models.Record, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	records := []models.Record{}
	for _, r := range m.table() {
		if userID == nil || r.UserID == *userID {
			records = append(records, *r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (m *memRecords) GetByID(_ context.Context, id int64) (*models.Record, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	r, ok := m.table()[id]
	if !ok {
		return nil, apperror.Newf(apperror.NotFound, "%s not found", m.kind.Name)
	}
	copied := *r
	return &copied, nil
}

func (m *memRecords) Create(_ context.Context, record *models.Record) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.users[record.UserID]; !ok {
		return apperror.Newf(apperror.Integrity, "failed to create %s", m.kind.Name)
	}
	for _, r := range m.table() {
		if r.UserID == record.UserID && r.GovtAgency == record.GovtAgency && r.County == record.County &&
			r.Title == record.Title && r.Description == record.Description {
			return apperror.Newf(apperror.Conflict, "%s already exists", m.kind.Name)
		}
	}

	if record.Media == nil {
		record.Media = pq.StringArray{}
	}
	record.ID = m.s.id()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	stored := *record
	m.table()[record.ID] = &stored
	return nil
}

func (m *memRecords) Update(_ context.Context, id int64, cols []models.ColumnValue) (*models.Record, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if len(cols) == 0 {
		return nil, apperror.New(apperror.Validation, "no fields to update")
	}
	r, ok := m.table()[id]
	if !ok {
		return nil, apperror.Newf(apperror.NotFound, "%s not found", m.kind.Name)
	}

	updated := *r
	for _, c := range cols {
		switch c.Column {
		case "govt_agency":
			updated.GovtAgency = c.Value.(string)
		case "county":
			updated.County = c.Value.(string)
		case "title":
			updated.Title = c.Value.(string)
		case "description":
			updated.Description = c.Value.(string)
		case "media":
			updated.Media = c.Value.(pq.StringArray)
		case "latitude":
			v := c.Value.(float64)
			updated.Latitude = &v
		case "longitude":
			v := c.Value.(float64)
			updated.Longitude = &v
		case "location_url":
			v := c.Value.(string)
			updated.LocationURL = &v
		case "status":
			updated.Status = c.Value.(string)
		case "admin_comments":
			v := c.Value.(string)
			updated.AdminComments = &v
		}
	}
	updated.UpdatedAt = time.Now()
	m.table()[id] = &updated

	copied := updated
	return &copied, nil
}

func (m *memRecords) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.table()[id]; !ok {
		return apperror.Newf(apperror.NotFound, "%s not found", m.kind.Name)
	}
	for rid, res := range m.s.resolutions[m.kind.ResolutionTable] {
		if res.RecordID == id {
			delete(m.s.resolutions[m.kind.ResolutionTable], rid)
		}
	}
	delete(m.table(), id)
	return nil
}

type memResolutions struct {
	s    *memStore
	kind models.RecordKind
}

func (m *memResolutions) label() string { return m.kind.Name + " resolution" }

func (m *memResolutions) table() map[int64]*models.Resolution {
	t, ok := m.s.resolutions[m.kind.ResolutionTable]
	if !ok {
		t = map[int64]*models.Resolution{}
		m.s.resolutions[m.kind.ResolutionTable] = t
	}
	return t
}

func (m *memResolutions) parent(id int64) (*models.Record, bool) {
	r, ok := m.s.records[m.kind.Table][id]
	return r, ok
}

func (m *memResolutions) Kind() models.RecordKind { return m.kind }

func (m *memResolutions) List(_ context.Context, recordID *int64) ([]models.Resolution, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := []models.Resolution{}
	for _, r := range m.table() {
		if recordID == nil || r.RecordID == *recordID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memResolutions) GetByID(_ context.Context, id int64) (*models.Resolution, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	r, ok := m.table()[id]
	if !ok {
		return nil, apperror.Newf(apperror.NotFound, "%s not found", m.label())
	}
	copied := *r
	return &copied, nil
}

func (m *memResolutions) Create(_ context.Context, resolution *models.Resolution) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	parent, ok := m.parent(resolution.RecordID)
	if !ok {
		return apperror.Newf(apperror.NotFound, "%s not found", m.kind.Name)
	}
	for _, r := range m.table() {
		if r.Status == resolution.Status && r.Justification == resolution.Justification &&
			r.RecordID == resolution.RecordID && equalPtr(r.AdditionalComments, resolution.AdditionalComments) {
			return apperror.Newf(apperror.Conflict, "%s already exists", m.label())
		}
	}

	resolution.ID = m.s.id()
	stored := *resolution
	m.table()[resolution.ID] = &stored
	parent.Status = resolution.Status
	return nil
}

func (m *memResolutions) Update(_ context.Context, id int64, cols []models.ColumnValue) (*models.Resolution, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if len(cols) == 0 {
		return nil, apperror.New(apperror.Validation, "no fields to update")
	}
	r, ok := m.table()[id]
	if !ok {
		return nil, apperror.Newf(apperror.NotFound, "%s not found", m.label())
	}

	propagate := false
	for _, c := range cols {
		switch c.Column {
		case "status":
			r.Status = c.Value.(string)
			propagate = true
		case "justification":
			r.Justification = c.Value.(string)
		case "additional_comments":
			v := c.Value.(string)
			r.AdditionalComments = &v
		case "record_id":
			r.RecordID = c.Value.(int64)
			propagate = true
		}
	}
	if propagate {
		parent, ok := m.parent(r.RecordID)
		if !ok {
			return nil, apperror.Newf(apperror.Integrity, "failed to update %s", m.label())
		}
		parent.Status = r.Status
	}

	copied := *r
	return &copied, nil
}

func (m *memResolutions) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.table()[id]; !ok {
		return apperror.Newf(apperror.NotFound, "%s not found", m.label())
	}
	delete(m.table(), id)
	return nil
}

type memTables struct{}

func (memTables) MissingTables(context.Context, []string) ([]string, error) {
	return []string{}, nil
}

func (memTables) Truncate(context.Context, []string) error { return nil }

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
