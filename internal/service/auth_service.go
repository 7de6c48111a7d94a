package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/mailer"
	"rekraft-backend/internal/otp"
	"rekraft-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for password hashing
	BcryptCost = 10

	// DefaultTokenExpiry applies when no expiry is configured
	DefaultTokenExpiry = 30 * 24 * time.Hour

	MinPasswordLength = 6
)

var ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)

// OTPStore keeps short-lived password reset codes.
type OTPStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Get(ctx context.Context, email string) (*otp.Entry, error)
	MarkVerified(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}

// Mailer delivers outgoing email.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
	AdminAddress() string
}

// AuthService defines the interface for account and credential logic
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) (*ResetIssue, error)
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, password string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthResult is a signed credential and the account it belongs to.
type AuthResult struct {
	Token string
	User  *domain.User
}

// ResetIssue reports how a reset code was delivered. Code is only set when
// email delivery failed outside production.
type ResetIssue struct {
	Delivered bool
	Code      string
}

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	Production  bool
}

type authService struct {
	users  repository.UserRepository
	codes  OTPStore
	mail   Mailer
	cfg    AuthConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(users repository.UserRepository, codes OTPStore, mail Mailer, cfg AuthConfig, logger *zap.Logger) AuthService {
	if cfg.TokenExpiry <= 0 {
		cfg.TokenExpiry = DefaultTokenExpiry
	}
	return &authService{
		users:  users,
		codes:  codes,
		mail:   mail,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if len(input.Password) < MinPasswordLength {
		return nil, domain.NewValidationError("password", "Password must be at least 6 characters")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(input.Phone),
		Role:         domain.RoleUser,
		Cart:         domain.Cart{Items: []domain.CartItem{}, UpdatedAt: now},
		Addresses:    domain.AddressBook{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("user already exists with this email: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user not found, please login again: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (*ResetIssue, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no account found with this email: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	code, err := s.codes.Issue(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.mail.Send(ctx, mailer.ResetCode(user.Email, code)); err != nil {
		if s.cfg.Production {
			return nil, fmt.Errorf("failed to deliver reset code: %w", domain.ErrUpstream)
		}
		s.logger.Warn("Reset code email failed, returning code in response",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return &ResetIssue{Code: code}, nil
	}
	return &ResetIssue{Delivered: true}, nil
}

func (s *authService) VerifyResetCode(ctx context.Context, email, code string) error {
	entry, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, otp.ErrCodeNotFound) {
			return domain.NewValidationError("otp", "OTP not found or expired")
		}
		return err
	}
	if entry.Code != strings.TrimSpace(code) {
		return domain.NewValidationError("otp", "Invalid OTP")
	}
	return s.codes.MarkVerified(ctx, email)
}

func (s *authService) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < MinPasswordLength {
		return domain.NewValidationError("password", "Password must be at least 6 characters")
	}

	entry, err := s.codes.Get(ctx, email)
	if err != nil && !errors.Is(err, otp.ErrCodeNotFound) {
		return err
	}
	if entry == nil || !entry.Verified {
		return domain.NewValidationError("otp", "OTP verification required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	if err := s.codes.Delete(ctx, email); err != nil {
		s.logger.Warn("Failed to clear reset code", zap.Error(err))
	}
	s.logger.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) issueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
