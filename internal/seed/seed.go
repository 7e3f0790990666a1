package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"ireporter/internal/models"
	"ireporter/internal/repository"
)

//go:embed data/seed.json
var defaultData []byte

// wiped in dependency order; TRUNCATE ... CASCADE takes care of the rest.
var seededTables = []string{
	"corruption_resolutions",
	"petition_resolutions",
	"corruption_reports",
	"public_petitions",
	"password_reset_tokens",
	"users",
}

type seedUser struct {
	Fullname     string      `json:"fullname"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	IDPassportNo string      `json:"id_passport_no"`
	Role         models.Role `json:"role"`
}

type seedRecord struct {
	Owner       string `json:"owner"`
	GovtAgency  string `json:"govt_agency"`
	County      string `json:"county"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Data struct {
	Users     []seedUser   `json:"users"`
	Reports   []seedRecord `json:"corruption_reports"`
	Petitions []seedRecord `json:"public_petitions"`
}

// Summary counts the rows a seed run inserted.
type Summary struct {
	Users     int
	Reports   int
	Petitions int
}

func LoadDefault() (*Data, error) {
	var data Data
	if err := json.Unmarshal(defaultData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

type Seeder struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSeeder(repo *repository.Repository, log *zap.Logger) *Seeder {
	return &Seeder{repo: repo, log: log}
}

// Run wipes users and records, then inserts data through the repositories so
// passwords are hashed and uniqueness rules apply as they do for API writes.
func (s *Seeder) Run(ctx context.Context, data *Data) (*Summary, error) {
	if err := s.repo.Tables.Truncate(ctx, seededTables); err != nil {
		return nil, fmt.Errorf("failed to wipe existing data: %w", err)
	}
	s.log.Info("existing data deleted", zap.Strings("tables", seededTables))

	owners := make(map[string]int64, len(data.Users))
	for _, u := range data.Users {
		user := &models.User{
			Fullname:     u.Fullname,
			Email:        u.Email,
			IDPassportNo: u.IDPassportNo,
			Role:         u.Role,
		}
		if err := s.repo.User.CreateUser(ctx, user, u.Password); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		owners[user.Email] = user.ID
	}

	reports, err := s.seedRecords(ctx, s.repo.Reports, data.Reports, owners)
	if err != nil {
		return nil, err
	}
	petitions, err := s.seedRecords(ctx, s.repo.Petitions, data.Petitions, owners)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Users: len(owners), Reports: reports, Petitions: petitions}
	s.log.Info("done seeding",
		zap.Int("users", summary.Users),
		zap.Int("corruption_reports", summary.Reports),
		zap.Int("public_petitions", summary.Petitions))
	return summary, nil
}

func (s *Seeder) seedRecords(ctx context.Context, repo repository.RecordRepository, records []seedRecord, owners map[string]int64) (int, error) {
	kind := repo.Kind()
	for i, r := range records {
		owner, ok := owners[r.Owner]
		if !ok {
			return i, fmt.Errorf("%s %q: unknown owner %s", kind.Name, r.Title, r.Owner)
		}

		record := &models.Record{
			GovtAgency:  r.GovtAgency,
			County:      r.County,
			Title:       r.Title,
			Description: r.Description,
			Status:      models.StatusPending,
			UserID:      owner,
		}
		if err := repo.Create(ctx, record); err != nil {
			return i, fmt.Errorf("failed to seed %s %q: %w", kind.Name, r.Title, err)
		}
	}
	return len(records), nil
}
