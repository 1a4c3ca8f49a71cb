package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func smsServer(t *testing.T, hits *int32) (*Client, func()) {
	t.Helper()
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/register/send-sms":
			w.Write([]byte(`{"message":"verification code sent","demo_code":"123456"}`))
		case "/register/verify-sms":
			w.Write([]byte(`{"user_id":"u1","is_merchant":false,"phone":"0912345678"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	return api, srv.Close
}

func TestSendCodeLocalValidation(t *testing.T) {
	var hits int32
	api, closeSrv := smsServer(t, &hits)
	defer closeSrv()

	flow := NewRegisterFlow(api)

	for _, phone := range []string{"", "12345", "091234567a"} {
		if err := flow.SendCode(context.Background(), phone); err != ErrInvalidPhone {
			t.Errorf("SendCode(%q) = %v, want ErrInvalidPhone", phone, err)
		}
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("local validation issued %d requests, want 0", hits)
	}
	if flow.State() != StateEnteringPhone {
		t.Errorf("state = %v, want EnteringPhone", flow.State())
	}
}

func TestSendCodeStartsCountdown(t *testing.T) {
	var hits int32
	api, closeSrv := smsServer(t, &hits)
	defer closeSrv()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	flow := NewRegisterFlow(api)
	flow.now = func() time.Time { return now }

	if err := flow.SendCode(context.Background(), "0912345678"); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}
	if flow.State() != StateCodeSent {
		t.Fatalf("state = %v, want CodeSent", flow.State())
	}
	if flow.Countdown() != 60 {
		t.Errorf("countdown = %d, want 60", flow.Countdown())
	}
	if flow.CanResend() {
		t.Error("resend enabled during countdown")
	}
	if flow.DemoCode() != "123456" {
		t.Errorf("demo code = %q", flow.DemoCode())
	}
}

func TestResendDisabledExactlyWhileCountingDown(t *testing.T) {
	var hits int32
	api, closeSrv := smsServer(t, &hits)
	defer closeSrv()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	flow := NewRegisterFlow(api)
	flow.now = func() time.Time { return now }

	if err := flow.SendCode(context.Background(), "0912345678"); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}

	// Disabled at 59s remaining.
	now = now.Add(1 * time.Second)
	if flow.CanResend() {
		t.Error("resend enabled with 59s remaining")
	}
	if err := flow.Resend(context.Background()); err != ErrResendCooldown {
		t.Errorf("Resend = %v, want ErrResendCooldown", err)
	}

	// Enabled at exactly zero.
	now = now.Add(59 * time.Second)
	if flow.Countdown() != 0 {
		t.Fatalf("countdown = %d, want 0", flow.Countdown())
	}
	if !flow.CanResend() {
		t.Error("resend disabled at zero countdown")
	}

	// Resend resets the countdown.
	if err := flow.Resend(context.Background()); err != nil {
		t.Fatalf("Resend failed: %v", err)
	}
	if flow.Countdown() != 60 {
		t.Errorf("countdown after resend = %d, want 60", flow.Countdown())
	}
}

func TestVerifyLocalValidation(t *testing.T) {
	var hits int32
	api, closeSrv := smsServer(t, &hits)
	defer closeSrv()

	flow := NewRegisterFlow(api)
	if err := flow.SendCode(context.Background(), "0912345678"); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}
	sendHits := atomic.LoadInt32(&hits)

	for _, code := range []string{"", "123", "1234567", "12345a"} {
		if _, err := flow.Verify(context.Background(), code); err != ErrInvalidCode {
			t.Errorf("Verify(%q) = %v, want ErrInvalidCode", code, err)
		}
	}
	if atomic.LoadInt32(&hits) != sendHits {
		t.Errorf("local code validation issued network requests")
	}
}

func TestVerifyNavigatesHomeAsConsumer(t *testing.T) {
	var hits int32
	api, closeSrv := smsServer(t, &hits)
	defer closeSrv()

	flow := NewRegisterFlow(api)
	if err := flow.SendCode(context.Background(), "0912345678"); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}

	outcome, err := flow.Verify(context.Background(), "123456")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if flow.State() != StateVerified {
		t.Errorf("state = %v, want Verified", flow.State())
	}
	if outcome.Route != RouteHome || outcome.Role != RoleConsumer {
		t.Errorf("outcome = {%s %s}, want {Home CONSUMER}", outcome.Route, outcome.Role)
	}
	if outcome.Session.UserID != "u1" {
		t.Errorf("session = %+v", outcome.Session)
	}
}

func TestVerifyBackendRejectionKeepsState(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/register/send-sms" {
			w.Write([]byte(`{"message":"sent"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"incorrect verification code"}`))
	}))
	defer srv.Close()

	flow := NewRegisterFlow(api)
	if err := flow.SendCode(context.Background(), "0912345678"); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}

	_, err := flow.Verify(context.Background(), "654321")
	if UserMessage(err) != "incorrect verification code" {
		t.Errorf("message = %q", UserMessage(err))
	}
	if flow.State() != StateCodeSent {
		t.Errorf("state = %v, want CodeSent after rejection", flow.State())
	}
}

func TestChangePhoneDiscardsState(t *testing.T) {
	var hits int32
	api, closeSrv := smsServer(t, &hits)
	defer closeSrv()

	flow := NewRegisterFlow(api)
	if err := flow.SendCode(context.Background(), "0912345678"); err != nil {
		t.Fatalf("SendCode failed: %v", err)
	}

	flow.ChangePhone()
	if flow.State() != StateEnteringPhone {
		t.Errorf("state = %v, want EnteringPhone", flow.State())
	}
	if flow.Phone() != "" || flow.DemoCode() != "" {
		t.Error("phone state not discarded")
	}
	if flow.Countdown() != 0 {
		t.Errorf("countdown = %d, want 0", flow.Countdown())
	}
}
