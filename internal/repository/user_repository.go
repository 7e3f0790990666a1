package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"ireporter/internal/apperror"
	"ireporter/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

// dummyHash is compared against when no user matches, so a lookup miss
// costs about as much as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `
		INSERT INTO users (fullname, email, password_hash, id_passport_no, role, profile_image)
		VALUES (:fullname, :email, :password_hash, :id_passport_no, :role, :profile_image)
		RETURNING id, created_at
	`

	bound, args, err := r.db.BindNamed(query, user)
	if err != nil {
		return fmt.Errorf("failed to bind user: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, bound, args...).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Wrap(apperror.Conflict, "email already registered", err)
		}
		return classifyDBError(err, "failed to create user")
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.Newf(apperror.NotFound, "user %d not found", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// VerifyPassword looks the user up by email or, failing that, by full name
// and checks the password. A full name shared by several users matches no
// one. A miss, an ambiguous name and a mismatch are all the same
// Authentication error.
func (r *userRepository) VerifyPassword(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	invalid := apperror.New(apperror.Authentication, "invalid credentials")

	query := `
		SELECT * FROM users
		WHERE email = lower($1) OR fullname = $1
		ORDER BY (email = lower($1)) DESC, id
		LIMIT 2
	`

	var candidates []models.User
	if err := r.db.SelectContext(ctx, &candidates, query, identifier); err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if len(candidates) == 0 {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, invalid
	}

	user := candidates[0]
	if user.Email != strings.ToLower(identifier) && len(candidates) > 1 {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, invalid
	}

	// checking that the password hash is the same
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	return &user, nil
}
