package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"consignparts/internal/auth"
	"consignparts/internal/mail"
	"consignparts/internal/model"
	"consignparts/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidResetToken is returned when a password-reset token is invalid or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset link")
	// ErrEmailNotFound is returned when a reset is requested for an unknown email.
	ErrEmailNotFound = errors.New("email not found")
)

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	mailer     mail.Mailer
	baseURL    string
	log        *zap.SugaredLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	mailer mail.Mailer,
	baseURL string,
	log *zap.SugaredLogger,
) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		mailer:     mailer,
		baseURL:    baseURL,
		log:        log,
	}
}

// Login authenticates a user and returns access and refresh tokens.
// Email matching is case-insensitive.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	// Re-read the user so a demoted admin does not keep the claim.
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// ForgotPassword issues a reset token for the account and mails the
// reset link. The mail itself is best effort.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrEmailNotFound
		}
		return err
	}

	token, err := s.tokenStore.IssueResetToken(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		s.log.Warnw("password-reset mail failed", "email", user.Email, "error", err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.tokenStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
