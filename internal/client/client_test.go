package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestLoginDecodesUserRecord(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user_id":"u1","is_merchant":false,"display_name":"user_google","token":"frt_abc"}`))
	}))
	defer srv.Close()

	user, err := api.Login(context.Background(), "google", "tok", "user_google@example.com")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.UserID != "u1" || user.Token != "frt_abc" {
		t.Errorf("user = %+v", user)
	}
}

func TestBackendErrorSurfacesVerbatim(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"already sold"}`))
	}))
	defer srv.Close()

	_, err := api.Purchase(context.Background(), "p1", "c1")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", apiErr.StatusCode)
	}
	if apiErr.Message != "already sold" {
		t.Errorf("message = %q, want already sold", apiErr.Message)
	}
	if UserMessage(err) != "already sold" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
}

func TestTransportErrorKind(t *testing.T) {
	api := New("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := api.Products(context.Background())
	if _, ok := err.(*TransportError); !ok {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if UserMessage(err) == "" || UserMessage(err) == err.Error() {
		t.Errorf("transport errors must map to a generic message, got %q", UserMessage(err))
	}
}

func TestDecodeErrorKind(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := api.Products(context.Background())
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
}

func TestProductsDecodesBareArray(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","name":"bread","status":"ACTIVE"}]`))
	}))
	defer srv.Close()

	products, err := api.Products(context.Background())
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Errorf("products = %+v", products)
	}
}

func TestErrorBodyWithoutErrorField(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	_, err := api.Products(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message == "" {
		t.Error("fallback message must not be empty")
	}
}

func TestNotificationFeedShape(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications/u1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"notifications":[{"id":"n1","is_read":false}],"unread_count":1}`))
	}))
	defer srv.Close()

	feed, err := api.Notifications(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Notifications failed: %v", err)
	}
	if feed.UnreadCount != 1 || len(feed.Notifications) != 1 {
		t.Errorf("feed = %+v", feed)
	}
}

func TestCancelledContextStopsRequest(t *testing.T) {
	started := make(chan struct{})
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := api.Products(ctx)
	if _, ok := err.(*TransportError); !ok {
		t.Fatalf("expected *TransportError after cancel, got %T: %v", err, err)
	}
}
