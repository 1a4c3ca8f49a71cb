package service

import (
	"context"
	"net/http"
	"testing"

	"foodrescue-platform/pkg/apierror"
)

func newTestRegistration(t *testing.T) *RegistrationService {
	t.Helper()
	store := newTestStore(t)
	c := newTestCache(t)
	return NewRegistrationService(store, c, NewSessionService(c), NewNotificationService(store), true)
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"0912345678", true},
		{"886912345678", true},
		{"091234567", false},
		{"", false},
		{"091234567a", false},
		{"09-12345678", false},
	}
	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidCode(tt.code); got != tt.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestSendAndVerifyCode(t *testing.T) {
	svc := newTestRegistration(t)
	ctx := context.Background()

	code, err := svc.SendCode(ctx, "0912345678")
	if err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("echoed code = %q, want 6 digits", code)
	}

	user, err := svc.VerifyCode(ctx, "0912345678", code)
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if user.Phone != "0912345678" {
		t.Errorf("phone = %q", user.Phone)
	}
	if user.AuthProvider != "phone" {
		t.Errorf("auth provider = %q, want phone", user.AuthProvider)
	}
	if user.IsMerchant {
		t.Error("phone registration must create a consumer")
	}
	if user.Token == "" {
		t.Error("expected a session token")
	}
}

func TestVerifyCodeIsSingleUse(t *testing.T) {
	svc := newTestRegistration(t)
	ctx := context.Background()

	code, err := svc.SendCode(ctx, "0912345678")
	if err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}
	if _, err := svc.VerifyCode(ctx, "0912345678", code); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}

	_, err = svc.VerifyCode(ctx, "0912345678", code)
	apiErr, ok := err.(*apierror.Error)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replayed code: err = %v, want 401", err)
	}
}

func TestSendCodeCooldown(t *testing.T) {
	svc := newTestRegistration(t)
	ctx := context.Background()

	if _, err := svc.SendCode(ctx, "0912345678"); err != nil {
		t.Fatalf("first SendCode failed: %v", err)
	}

	_, err := svc.SendCode(ctx, "0912345678")
	apiErr, ok := err.(*apierror.Error)
	if !ok || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("inside cooldown: err = %v, want 429", err)
	}

	// Another phone is not affected by the cooldown.
	if _, err := svc.SendCode(ctx, "0987654321"); err != nil {
		t.Errorf("other phone blocked: %v", err)
	}
}

func TestVerifyCodeWrongCode(t *testing.T) {
	svc := newTestRegistration(t)
	ctx := context.Background()

	code, err := svc.SendCode(ctx, "0912345678")
	if err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err = svc.VerifyCode(ctx, "0912345678", wrong)
	apiErr, ok := err.(*apierror.Error)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong code: err = %v, want 401", err)
	}
}

func TestVerifyCodeWithoutSend(t *testing.T) {
	svc := newTestRegistration(t)

	_, err := svc.VerifyCode(context.Background(), "0912345678", "123456")
	apiErr, ok := err.(*apierror.Error)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no code issued: err = %v, want 401", err)
	}
}

func TestVerifyCodeFindsExistingUser(t *testing.T) {
	svc := newTestRegistration(t)
	ctx := context.Background()

	code, _ := svc.SendCode(ctx, "0912345678")
	first, err := svc.VerifyCode(ctx, "0912345678", code)
	if err != nil {
		t.Fatalf("first verify failed: %v", err)
	}

	// Wait out nothing: cooldown applies to SendCode only per phone, so
	// clear it by using the same flow after expiry is impractical here.
	// Re-register through a fresh service sharing the same store instead.
	c := newTestCache(t)
	svc2 := NewRegistrationService(svc.users, c, NewSessionService(c), nil, true)

	code2, err := svc2.SendCode(ctx, "0912345678")
	if err != nil {
		t.Fatalf("second SendCode failed: %v", err)
	}
	second, err := svc2.VerifyCode(ctx, "0912345678", code2)
	if err != nil {
		t.Fatalf("second verify failed: %v", err)
	}

	if first.UserID != second.UserID {
		t.Errorf("re-registration created a new user: %s vs %s", first.UserID, second.UserID)
	}
}
