package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consignparts/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	resetTokenKeyPrefix   = "password_reset:"

	// ResetTokenExpiry is how long a password-reset link stays valid.
	ResetTokenExpiry = time.Hour
)

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	IssueResetToken(ctx context.Context, email string) (token string, err error)
	ConsumeResetToken(ctx context.Context, token string) (email string, err error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	data := map[string]interface{}{
		"user_id": userID,
		"email":   email,
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}

	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error) {
	key := refreshTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return 0, "", fmt.Errorf("refresh token not found")
	}

	var tokenData map[string]interface{}
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return 0, "", fmt.Errorf("unmarshal token data: %w", err)
	}

	uid, ok := tokenData["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid user_id in token data")
	}
	userID = uint(uid)

	email, ok = tokenData["email"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid email in token data")
	}

	return userID, email, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Delete(ctx, key)
}

// IssueResetToken stores a one-hour password-reset token bound to the
// given email and returns the opaque token value for the mailed link.
func (s *TokenStore) IssueResetToken(ctx context.Context, email string) (string, error) {
	token := uuid.New().String()
	key := resetTokenKeyPrefix + token
	if err := s.cache.Set(ctx, key, []byte(email), ResetTokenExpiry); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// ConsumeResetToken resolves a reset token to its email and deletes it
// so the link is single use.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	key := resetTokenKeyPrefix + token
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return "", fmt.Errorf("reset token not found")
	}
	_ = s.cache.Delete(ctx, key)
	return string(data), nil
}
