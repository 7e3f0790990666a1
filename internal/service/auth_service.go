package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ireporter/internal/apperror"
	"ireporter/internal/config"
	"ireporter/internal/mailer"
	"ireporter/internal/models"
	"ireporter/internal/repository"
)

type RegisterRequest struct {
	Fullname     string
	Email        string
	Password     string
	IDPassportNo string
	ProfileImage *string
	Role         models.Role
	// AdminKey must match ADMIN_SIGNUP_KEY when Role is admin.
	AdminKey string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Claims is the JWT payload of an access token.
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, principal *models.Principal) error
	Me(ctx context.Context, principal *models.Principal) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	ParseToken(ctx context.Context, tokenString string) (*models.Principal, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	mailer    mailer.Mailer
	cfg       *config.Config
	log       *zap.Logger
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository,
	mail mailer.Mailer, cfg *config.Config, log *zap.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mail,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, apperror.Newf(apperror.Validation, "unknown role %q", req.Role)
	}

	if req.Role == models.RoleAdmin {
		if s.cfg.AdminSignupKey == "" {
			return nil, apperror.New(apperror.Forbidden, "admin registration is disabled")
		}
		if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(s.cfg.AdminSignupKey)) != 1 {
			return nil, apperror.New(apperror.Forbidden, "invalid admin signup key")
		}
	}

	user := &models.User{
		Fullname:     req.Fullname,
		Email:        req.Email,
		IDPassportNo: req.IDPassportNo,
		Role:         req.Role,
		ProfileImage: req.ProfileImage,
	}

	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.userRepo.VerifyPassword(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, principal *models.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return apperror.New(apperror.Authentication, "authentication required")
	}

	return s.tokenRepo.RevokeToken(ctx, principal.TokenID, principal.ExpiresAt)
}

func (s *authService) Me(ctx context.Context, principal *models.Principal) (*models.User, error) {
	if principal == nil {
		return nil, apperror.New(apperror.Authentication, "authentication required")
	}

	return s.userRepo.GetUserByID(ctx, principal.UserID)
}

// ForgotPassword mails a reset token when the address belongs to a user.
// Unknown addresses and mail failures are only logged, so the caller cannot
// tell which addresses are registered.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.cfg.ResetTokenDuration),
	}
	if err := s.tokenRepo.CreateResetToken(ctx, token); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token.Token, token.ExpiresAt); err != nil {
		s.log.Error("password reset mail not delivered", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := s.tokenRepo.ConsumeResetToken(ctx, token, password)
	if err != nil {
		return err
	}

	s.log.Info("password reset", zap.Int64("user_id", userID))
	return nil
}

// ParseToken validates an access token and returns its principal. Expired,
// malformed, wrongly signed and revoked tokens are all authentication errors.
func (s *authService) ParseToken(ctx context.Context, tokenString string) (*models.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Wrap(apperror.Authentication, "token has expired", err)
		}
		return nil, apperror.Wrap(apperror.Authentication, "invalid token", err)
	}
	if !token.Valid || claims.ID == "" || !claims.Role.Valid() {
		return nil, apperror.New(apperror.Authentication, "invalid token")
	}

	revoked, err := s.tokenRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperror.New(apperror.Authentication, "token has been revoked")
	}

	return &models.Principal{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTokenDuration)

	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}
