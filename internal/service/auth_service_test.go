package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"consignparts/internal/auth"
	"consignparts/internal/model"
)

func newAuthService(users *MockUserRepository, tokens *MockTokenStore, mailer *MockMailer) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	svc := NewAuthService(users, jwtService, tokens, mailer, "http://localhost:8080", zap.NewNop().Sugar())
	return svc, jwtService
}

func testUser(t *testing.T, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &model.User{
		ID:           1,
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns both tokens", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockTokenStore)
		user := testUser(t, "secret-pw")
		users.On("FindByEmail", ctx, "admin@example.com").Return(user, nil)
		tokens.On("StoreRefreshToken", ctx, mock.AnythingOfType("string"), uint(1), "admin@example.com", auth.RefreshTokenExpiry).Return(nil)
		svc, jwtService := newAuthService(users, tokens, new(MockMailer))

		access, refresh, got, err := svc.Login(ctx, "admin@example.com", "secret-pw")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID, got.ID)

		claims, err := jwtService.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "admin@example.com").Return(testUser(t, "secret-pw"), nil)
		svc, _ := newAuthService(users, new(MockTokenStore), new(MockMailer))

		_, _, _, err := svc.Login(ctx, "admin@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
		svc, _ := newAuthService(users, new(MockTokenStore), new(MockMailer))

		_, _, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token issues new access token", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc, jwtService := newAuthService(users, tokens, new(MockMailer))

		tokenID, refresh, err := jwtService.GenerateRefreshToken(1, "admin@example.com")
		assert.NoError(t, err)

		tokens.On("GetRefreshToken", ctx, tokenID).Return(uint(1), "admin@example.com", nil)
		users.On("FindByID", ctx, uint(1)).Return(testUser(t, "x"), nil)

		access, err := svc.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
	})

	t.Run("mismatched stored token rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc, jwtService := newAuthService(users, tokens, new(MockMailer))

		tokenID, refresh, err := jwtService.GenerateRefreshToken(1, "admin@example.com")
		assert.NoError(t, err)

		tokens.On("GetRefreshToken", ctx, tokenID).Return(uint(2), "other@example.com", nil)

		_, err = svc.RefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		svc, _ := newAuthService(new(MockUserRepository), new(MockTokenStore), new(MockMailer))

		_, err := svc.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	tokens := new(MockTokenStore)
	svc, jwtService := newAuthService(users, tokens, new(MockMailer))

	tokenID, refresh, err := jwtService.GenerateRefreshToken(1, "admin@example.com")
	assert.NoError(t, err)

	tokens.On("DeleteRefreshToken", ctx, tokenID).Return(nil)

	assert.NoError(t, svc.Logout(ctx, refresh))
	tokens.AssertExpectations(t)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
		svc, _ := newAuthService(users, new(MockTokenStore), new(MockMailer))

		err := svc.ForgotPassword(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrEmailNotFound)
	})

	t.Run("issues token and mails reset link", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockTokenStore)
		mailer := new(MockMailer)
		users.On("FindByEmail", ctx, "admin@example.com").Return(testUser(t, "x"), nil)
		tokens.On("IssueResetToken", ctx, "admin@example.com").Return("tok-123", nil)
		mailer.On("SendPasswordReset", "admin@example.com", "http://localhost:8080/reset-password/tok-123").Return(nil)
		svc, _ := newAuthService(users, tokens, mailer)

		assert.NoError(t, svc.ForgotPassword(ctx, "admin@example.com"))
		mailer.AssertExpectations(t)
	})

	t.Run("mail failure does not surface", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockTokenStore)
		mailer := new(MockMailer)
		users.On("FindByEmail", ctx, "admin@example.com").Return(testUser(t, "x"), nil)
		tokens.On("IssueResetToken", ctx, "admin@example.com").Return("tok-123", nil)
		mailer.On("SendPasswordReset", mock.Anything, mock.Anything).Return(fmt.Errorf("smtp down"))
		svc, _ := newAuthService(users, tokens, mailer)

		assert.NoError(t, svc.ForgotPassword(ctx, "admin@example.com"))
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid token", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("ConsumeResetToken", ctx, "bad-token").Return("", fmt.Errorf("reset token not found"))
		svc, _ := newAuthService(new(MockUserRepository), tokens, new(MockMailer))

		err := svc.ResetPassword(ctx, "bad-token", "new-password")
		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("stores new password hash", func(t *testing.T) {
		users := new(MockUserRepository)
		tokens := new(MockTokenStore)
		user := testUser(t, "old-password")
		tokens.On("ConsumeResetToken", ctx, "tok-123").Return("admin@example.com", nil)
		users.On("FindByEmail", ctx, "admin@example.com").Return(user, nil)
		users.On("Update", ctx, mock.AnythingOfType("*model.User")).Return(nil)
		svc, _ := newAuthService(users, tokens, new(MockMailer))

		assert.NoError(t, svc.ResetPassword(ctx, "tok-123", "new-password"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password")))
		users.AssertExpectations(t)
	})
}
