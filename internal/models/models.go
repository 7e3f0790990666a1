package models

import (
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

const (
	StatusPending    = "Pending"
	StatusInProgress = "In-progress"
	StatusResolved   = "Resolved"
	StatusRejected   = "Rejected"
)

// ValidStatus reports whether s is one of the record statuses.
// Transitions between statuses are not restricted.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Fullname     string    `json:"fullname" db:"fullname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IDPassportNo string    `json:"id_passport_no" db:"id_passport_no"`
	Role         Role      `json:"role" db:"role"`
	ProfileImage *string   `json:"profile_image" db:"profile_image"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Principal is the authenticated identity of a request.
type Principal struct {
	UserID    int64
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// Allows is the single authorization decision for role-gated routes.
func (p *Principal) Allows(required Role) bool {
	if p == nil {
		return false
	}
	if required == RoleUser {
		return p.Role.Valid()
	}
	return p.Role == required
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Record is a corruption report or a public petition; both share one shape.
type Record struct {
	ID            int64          `json:"id" db:"id"`
	GovtAgency    string         `json:"govt_agency" db:"govt_agency"`
	County        string         `json:"county" db:"county"`
	Title         string         `json:"title" db:"title"`
	Description   string         `json:"description" db:"description"`
	Media         pq.StringArray `json:"media" db:"media"`
	Status        string         `json:"status" db:"status"`
	Latitude      *float64       `json:"latitude" db:"latitude"`
	Longitude     *float64       `json:"longitude" db:"longitude"`
	LocationURL   *string        `json:"location_url" db:"location_url"`
	AdminComments *string        `json:"admin_comments" db:"admin_comments"`
	UserID        int64          `json:"user_id" db:"user_id"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

type Resolution struct {
	ID                 int64     `json:"id" db:"id"`
	Status             string    `json:"status" db:"status"`
	Justification      string    `json:"justification" db:"justification"`
	AdditionalComments *string   `json:"additional_comments" db:"additional_comments"`
	RecordID           int64     `json:"record_id" db:"record_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

type PasswordResetToken struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
}
