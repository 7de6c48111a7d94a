package transport

import (
	"net/http"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UserProfile is the public view of an account
type UserProfile struct {
	ID        string             `json:"_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	Role      string             `json:"role"`
	Addresses domain.AddressBook `json:"addresses,omitempty"`
	Token     string             `json:"token,omitempty"`
}

func profileOf(user *domain.User, token string) UserProfile {
	return UserProfile{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		Addresses: user.Addresses,
		Token:     token,
	}
}

// AuthHandler handles account and password reset requests
type AuthHandler struct {
	base
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService, logger *zap.Logger, production bool) *AuthHandler {
	return &AuthHandler{base: base{logger: logger, production: production}, auth: auth}
}

// RegisterRoutes registers the auth routes. limiter guards the public
// credential endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, limiter Middleware) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/verify-reset-otp", h.VerifyResetCode)
			r.Post("/reset-password", h.ResetPassword)
		})

		r.With(authMiddleware).Get("/me", h.Me)
	})
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.log(r).Info("User registered successfully", zap.String("user_id", result.User.ID.String()))
	middleware.RespondWithSuccess(w, http.StatusCreated, profileOf(result.User, result.Token), "")
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.log(r).Info("User logged in successfully", zap.String("user_id", result.User.ID.String()))
	middleware.RespondWithSuccess(w, http.StatusOK, profileOf(result.User, result.Token), "")
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Me(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, profileOf(user, ""), "")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	issue, err := h.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if !issue.Delivered {
		middleware.RespondWithSuccess(w, http.StatusOK, map[string]string{"otp": issue.Code},
			"Email delivery failed, use the code below (development only)")
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, nil, "OTP sent to your email")
}

func (h *AuthHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyResetRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.auth.VerifyResetCode(r.Context(), req.Email, req.OTP); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, nil, "OTP verified successfully")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, nil, "Password reset successfully")
}
