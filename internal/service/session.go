package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"foodrescue-platform/internal/cache"
	"foodrescue-platform/internal/model"
)

const (
	// SessionTokenPrefix is the prefix for all session tokens
	SessionTokenPrefix = "frt_"

	// SessionTTL is the default session lifetime
	SessionTTL = 1 * time.Hour

	sessionKeyPrefix = "session:"
)

// SessionService issues and validates opaque session tokens backed by the
// cache (Redis in production, memory in development).
type SessionService struct {
	cache cache.Cache
}

// NewSessionService creates a new session service.
func NewSessionService(c cache.Cache) *SessionService {
	return &SessionService{cache: c}
}

// Generate creates a new session token and stores its data with a TTL.
func (s *SessionService) Generate(ctx context.Context, data model.SessionData) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := SessionTokenPrefix + hex.EncodeToString(tokenBytes)

	data.CreatedAt = time.Now()
	data.ExpiresAt = data.CreatedAt.Add(SessionTTL)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session data: %w", err)
	}

	if err := s.cache.Set(ctx, sessionKeyPrefix+token, jsonData, SessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("[SessionService] Issued session for user_id=%s, expires=%v", data.UserID, data.ExpiresAt)
	return token, nil
}

// Validate checks if a token is valid and returns its data.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.SessionData, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	if len(token) < len(SessionTokenPrefix) || token[:len(SessionTokenPrefix)] != SessionTokenPrefix {
		return nil, fmt.Errorf("invalid token format")
	}

	jsonData, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if err == cache.ErrCacheMiss {
		return nil, fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}

	if time.Now().After(data.ExpiresAt) {
		s.cache.Delete(ctx, sessionKeyPrefix+token)
		return nil, fmt.Errorf("session expired")
	}

	return &data, nil
}

// Revoke deletes a session token.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+token)
}
