package handlers

import (
	"net/http"
	"strings"
	"time"

	"ireporter/internal/middleware"
	"ireporter/internal/models"
	"ireporter/internal/service"
)

type RegisterRequest struct {
	Fullname     string  `json:"fullname" validate:"required,min=2,max=200"`
	Email        string  `json:"email" validate:"required,email,max=200"`
	Password     string  `json:"password" validate:"required,min=6"`
	IDPassportNo string  `json:"id_passport_no" validate:"required,max=50"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, models.RoleUser)
}

// RegisterAdmin requires the X-Admin-Key header to match ADMIN_SIGNUP_KEY.
func (h *Handlers) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, models.RoleAdmin)
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterRequest{
		Fullname:     strings.TrimSpace(req.Fullname),
		Email:        req.Email,
		Password:     req.Password,
		IDPassportNo: strings.TrimSpace(req.IDPassportNo),
		ProfileImage: req.ProfileImage,
		Role:         role,
		AdminKey:     r.Header.Get("X-Admin-Key"),
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": string(role) + " registered successfully",
		"user":    user,
	}, http.StatusCreated)
}

// Login accepts either email or fullname as the identifier.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	identifier := strings.TrimSpace(req.Email)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Fullname)
	}
	if identifier == "" {
		WriteError(w, "email or fullname is required", http.StatusBadRequest)
		return
	}

	result, err := h.AuthService.Login(r.Context(), identifier, req.Password)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, LoginResponse{
		Message:     "login successful",
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        result.User,
	}, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	if err := h.AuthService.Logout(r.Context(), principal); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "logged out successfully"}, http.StatusOK)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	user, err := h.AuthService.Me(r.Context(), principal)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{
		"message": "if the email is registered, a password reset token has been sent",
	}, http.StatusOK)
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "password has been reset"}, http.StatusOK)
}
