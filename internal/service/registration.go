package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"time"

	"foodrescue-platform/internal/cache"
	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/pkg/apierror"
	"foodrescue-platform/pkg/uid"

	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeTTL is how long an SMS verification code stays valid.
	CodeTTL = 10 * time.Minute

	// ResendCooldown is the window during which a phone cannot request
	// another code.
	ResendCooldown = 60 * time.Second

	smsCodeKeyPrefix     = "sms:code:"
	smsCooldownKeyPrefix = "sms:cooldown:"
)

// storedCode is the cached verification record. Only the bcrypt hash of
// the code is kept.
type storedCode struct {
	Hash      []byte    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationService implements phone/SMS registration.
type RegistrationService struct {
	users    repository.UserRepository
	cache    cache.Cache
	sessions *SessionService
	notifier *NotificationService

	// echoCodes exposes generated codes in responses; development only,
	// since no SMS gateway is wired.
	echoCodes bool
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(users repository.UserRepository, c cache.Cache, sessions *SessionService, notifier *NotificationService, echoCodes bool) *RegistrationService {
	return &RegistrationService{
		users:     users,
		cache:     c,
		sessions:  sessions,
		notifier:  notifier,
		echoCodes: echoCodes,
	}
}

// ValidPhone reports whether the phone number passes the local format
// check: at least 10 digits, digits only.
func ValidPhone(phone string) bool {
	if len(phone) < 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidCode reports whether the code passes the local format check:
// exactly 6 digits.
func ValidCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SendCode generates a verification code for the phone and stores its
// hash with a TTL. Returns the code only when echoCodes is enabled.
func (s *RegistrationService) SendCode(ctx context.Context, phone string) (string, error) {
	if !ValidPhone(phone) {
		return "", apierror.BadRequest("invalid phone number")
	}

	onCooldown, err := s.cache.Exists(ctx, smsCooldownKeyPrefix+phone)
	if err != nil {
		return "", apierror.InternalError("failed to check cooldown")
	}
	if onCooldown {
		return "", apierror.TooManyRequests("please wait before requesting another code")
	}

	code, err := generateCode()
	if err != nil {
		return "", apierror.InternalError("failed to generate code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", apierror.InternalError("failed to store code")
	}

	record, _ := json.Marshal(storedCode{Hash: hash, CreatedAt: time.Now().UTC()})
	if err := s.cache.Set(ctx, smsCodeKeyPrefix+phone, record, CodeTTL); err != nil {
		return "", apierror.InternalError("failed to store code")
	}
	if err := s.cache.Set(ctx, smsCooldownKeyPrefix+phone, []byte("1"), ResendCooldown); err != nil {
		return "", apierror.InternalError("failed to set cooldown")
	}

	// No SMS gateway in this deployment; the code is logged for operators.
	log.Printf("[RegistrationService] Verification code for %s: %s", phone, code)

	if s.echoCodes {
		return code, nil
	}
	return "", nil
}

// VerifyCode checks the code for the phone and, on success, returns the
// (possibly newly created) user record.
func (s *RegistrationService) VerifyCode(ctx context.Context, phone, code string) (*model.User, error) {
	if !ValidPhone(phone) {
		return nil, apierror.BadRequest("invalid phone number")
	}
	if !ValidCode(code) {
		return nil, apierror.BadRequest("invalid verification code")
	}

	record, err := s.cache.Get(ctx, smsCodeKeyPrefix+phone)
	if err == cache.ErrCacheMiss {
		return nil, apierror.Unauthorized("verification code expired, please request a new one")
	}
	if err != nil {
		return nil, apierror.InternalError("failed to check code")
	}

	var stored storedCode
	if err := json.Unmarshal(record, &stored); err != nil {
		return nil, apierror.InternalError("failed to check code")
	}

	if bcrypt.CompareHashAndPassword(stored.Hash, []byte(code)) != nil {
		return nil, apierror.Unauthorized("incorrect verification code")
	}

	// Single use: a verified code cannot be replayed.
	s.cache.Delete(ctx, smsCodeKeyPrefix+phone)

	user, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, apierror.InternalError("failed to look up account")
	}

	if user == nil {
		user = &model.User{
			UserID:       uid.New(),
			Phone:        phone,
			AuthProvider: "phone",
			DisplayName:  phone,
			IsMerchant:   false,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.users.CreateUser(ctx, user, ""); err != nil {
			return nil, apierror.InternalError("failed to create account")
		}
		log.Printf("[RegistrationService] Registered user %s via phone", user.UserID)

		if s.notifier != nil {
			s.notifier.Welcome(ctx, user.UserID)
		}
	}

	if s.sessions != nil {
		token, err := s.sessions.Generate(ctx, model.SessionData{
			UserID:       user.UserID,
			AuthProvider: "phone",
			IsMerchant:   user.IsMerchant,
		})
		if err != nil {
			log.Printf("[RegistrationService] Session issue failed for %s: %v", user.UserID, err)
		} else {
			user.Token = token
		}
	}

	return user, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
