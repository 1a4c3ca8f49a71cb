package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"foodrescue-platform/internal/config"
)

type fakeConfirmer struct {
	answer bool
	calls  int
}

func (f *fakeConfirmer) Confirm(title, message string) bool {
	f.calls++
	return f.answer
}

type fakeTokenSource struct {
	token string
	calls int32
}

func (f *fakeTokenSource) AccessToken(ctx context.Context, provider string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.token, nil
}

func loginServer(t *testing.T, hits *int32) (*Client, func()) {
	t.Helper()
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Write([]byte(`{"user_id":"u1","is_merchant":false}`))
	}))
	return api, srv.Close
}

func TestUnconfiguredProviderNeverUsesOAuth(t *testing.T) {
	var hits int32
	api, closeSrv := loginServer(t, &hits)
	defer closeSrv()

	confirm := &fakeConfirmer{answer: true}
	tokens := &fakeTokenSource{token: "real_access_token"}
	auth := NewAuthenticator(api, config.ProvidersConfig{}, confirm, tokens)
	auth.randInt = func(n int) int { return 42 }

	outcome, err := auth.LoginWith(context.Background(), "google")
	if err != nil {
		t.Fatalf("LoginWith failed: %v", err)
	}

	if atomic.LoadInt32(&tokens.calls) != 0 {
		t.Error("unconfigured provider invoked the OAuth token source")
	}
	if confirm.calls != 1 {
		t.Errorf("confirm prompts = %d, want 1", confirm.calls)
	}
	if outcome.Session.UserID != "u1" {
		t.Errorf("session = %+v", outcome.Session)
	}
}

func TestDecliningSimulatedLoginSendsNothing(t *testing.T) {
	var hits int32
	api, closeSrv := loginServer(t, &hits)
	defer closeSrv()

	auth := NewAuthenticator(api, config.ProvidersConfig{}, &fakeConfirmer{answer: false}, nil)

	_, err := auth.LoginWith(context.Background(), "facebook")
	if err != ErrLoginCancelled {
		t.Fatalf("err = %v, want ErrLoginCancelled", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("declined login issued %d requests, want 0", hits)
	}
}

func TestDemoModeForcesSimulatedPath(t *testing.T) {
	var hits int32
	api, closeSrv := loginServer(t, &hits)
	defer closeSrv()

	tokens := &fakeTokenSource{token: "real_access_token"}
	auth := NewAuthenticator(api, config.ProvidersConfig{
		GoogleWebClientID: "real-client-id",
		DemoMode:          true,
	}, &fakeConfirmer{answer: true}, tokens)

	if _, err := auth.LoginWith(context.Background(), "google"); err != nil {
		t.Fatalf("LoginWith failed: %v", err)
	}
	if atomic.LoadInt32(&tokens.calls) != 0 {
		t.Error("demo mode invoked the OAuth token source")
	}
}

func TestConfiguredProviderUsesTokenPrefix(t *testing.T) {
	var gotAuthID string
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AuthID string `json:"auth_id"`
			Email  string `json:"email"`
		}
		decodeJSONBody(t, r, &req)
		gotAuthID = req.AuthID
		if req.Email != "user_google@example.com" {
			t.Errorf("email = %q", req.Email)
		}
		w.Write([]byte(`{"user_id":"u1","is_merchant":true}`))
	}))
	defer srv.Close()

	tokens := &fakeTokenSource{token: "abcdefghijKLMNOP"}
	auth := NewAuthenticator(api, config.ProvidersConfig{GoogleWebClientID: "cid"}, nil, tokens)

	if _, err := auth.LoginWith(context.Background(), "google"); err != nil {
		t.Fatalf("LoginWith failed: %v", err)
	}
	if gotAuthID != "google_user_abcdefghij" {
		t.Errorf("auth_id = %q, want google_user_ + 10-char prefix", gotAuthID)
	}
}

func TestSimulatedTokenFormat(t *testing.T) {
	auth := NewAuthenticator(nil, config.ProvidersConfig{}, nil, nil)
	auth.randInt = func(n int) int { return 7 }

	token := auth.SimulatedToken("facebook")
	if token != "simulated_facebook_id_7" {
		t.Errorf("token = %q", token)
	}
	if !strings.HasPrefix(auth.SimulatedToken("google"), "simulated_google_id_") {
		t.Errorf("google token prefix wrong")
	}
}

func TestAuthenticateRoutesByMerchantFlag(t *testing.T) {
	tests := []struct {
		name       string
		isMerchant bool
		wantRoute  Route
		wantRole   Role
	}{
		{"consumer goes to setup", false, RouteMerchantSetup, RoleConsumer},
		{"merchant goes home", true, RouteHome, RoleMerchant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"user_id":"u1","is_merchant":false}`
			if tt.isMerchant {
				body = `{"user_id":"u1","is_merchant":true}`
			}
			api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			auth := NewAuthenticator(api, config.ProvidersConfig{}, nil, nil)
			outcome, err := auth.Authenticate(context.Background(), "google", "tok")
			if err != nil {
				t.Fatalf("Authenticate failed: %v", err)
			}
			if outcome.Route != tt.wantRoute {
				t.Errorf("route = %q, want %q", outcome.Route, tt.wantRoute)
			}
			if outcome.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", outcome.Role, tt.wantRole)
			}
		})
	}
}

func TestAuthenticateFailureSurfacesBackendMessage(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to create account"}`))
	}))
	defer srv.Close()

	auth := NewAuthenticator(api, config.ProvidersConfig{}, nil, nil)
	_, err := auth.Authenticate(context.Background(), "google", "tok")
	if UserMessage(err) != "failed to create account" {
		t.Errorf("message = %q", UserMessage(err))
	}
}

func TestDerivedEmail(t *testing.T) {
	if got := DerivedEmail("crypto"); got != "user_crypto@example.com" {
		t.Errorf("DerivedEmail = %q", got)
	}
}

func decodeJSONBody(t *testing.T, r *http.Request, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
}
