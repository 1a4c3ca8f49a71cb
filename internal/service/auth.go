package service

import (
	"context"
	"log"
	"strings"
	"time"

	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/pkg/apierror"
	"foodrescue-platform/pkg/uid"
)

// AuthService resolves provider identities into user accounts.
type AuthService struct {
	users    repository.UserRepository
	sessions *SessionService
	notifier *NotificationService
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, sessions *SessionService, notifier *NotificationService) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		notifier: notifier,
	}
}

// Login exchanges a provider identity for a user record, creating a
// consumer account on first sight of the (provider, auth_id) pair.
func (s *AuthService) Login(ctx context.Context, provider, authID, email string) (*model.User, error) {
	if provider == "" {
		return nil, apierror.BadRequest("auth_provider is required")
	}
	if authID == "" {
		return nil, apierror.BadRequest("auth_id is required")
	}

	user, err := s.users.GetUserByProvider(ctx, provider, authID)
	if err != nil {
		return nil, apierror.InternalError("failed to look up account")
	}

	if user == nil {
		user = &model.User{
			UserID:       uid.New(),
			Email:        email,
			AuthProvider: provider,
			DisplayName:  displayNameFromEmail(email),
			IsMerchant:   false,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.users.CreateUser(ctx, user, authID); err != nil {
			return nil, apierror.InternalError("failed to create account")
		}
		log.Printf("[AuthService] Created user %s via %s", user.UserID, provider)

		if s.notifier != nil {
			s.notifier.Welcome(ctx, user.UserID)
		}
	}

	if s.sessions != nil {
		token, err := s.sessions.Generate(ctx, model.SessionData{
			UserID:       user.UserID,
			AuthProvider: provider,
			IsMerchant:   user.IsMerchant,
		})
		if err != nil {
			log.Printf("[AuthService] Session issue failed for %s: %v", user.UserID, err)
		} else {
			user.Token = token
		}
	}

	return user, nil
}

func displayNameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
