package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"foodrescue-platform/internal/config"
)

func TestWalletConnectionTriggersLoginOnce(t *testing.T) {
	var hits int32
	api, closeSrv := loginServer(t, &hits)
	defer closeSrv()

	auth := NewAuthenticator(api, config.ProvidersConfig{}, nil, nil)

	var outcomes int
	watcher := NewWalletWatcher(auth, func(o *LoginOutcome) { outcomes++ }, nil)

	ctx := context.Background()
	connected := WalletEvent{Address: "0xabc", Connected: true}

	// Rapid repeated connected observations trigger exactly one login.
	watcher.Observe(ctx, connected)
	watcher.Observe(ctx, connected)
	watcher.Observe(ctx, connected)

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("login requests = %d, want 1", got)
	}
	if outcomes != 1 {
		t.Errorf("outcomes = %d, want 1", outcomes)
	}
}

func TestWalletReconnectTriggersAgain(t *testing.T) {
	var hits int32
	api, closeSrv := loginServer(t, &hits)
	defer closeSrv()

	auth := NewAuthenticator(api, config.ProvidersConfig{}, nil, nil)
	watcher := NewWalletWatcher(auth, nil, nil)

	ctx := context.Background()
	watcher.Observe(ctx, WalletEvent{Address: "0xabc", Connected: true})
	watcher.Observe(ctx, WalletEvent{Connected: false})
	watcher.Observe(ctx, WalletEvent{Address: "0xabc", Connected: true})

	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("login requests = %d, want 2 (one per connection)", got)
	}
}

func TestWalletDisconnectAloneDoesNothing(t *testing.T) {
	var hits int32
	api, closeSrv := loginServer(t, &hits)
	defer closeSrv()

	auth := NewAuthenticator(api, config.ProvidersConfig{}, nil, nil)
	watcher := NewWalletWatcher(auth, nil, nil)

	watcher.Observe(context.Background(), WalletEvent{Connected: false})
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("disconnect issued a login request")
	}
}

func TestWalletLoginErrorReported(t *testing.T) {
	api, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to create account"}`))
	}))
	defer srv.Close()

	auth := NewAuthenticator(api, config.ProvidersConfig{}, nil, nil)

	var gotErr error
	watcher := NewWalletWatcher(auth, nil, func(err error) { gotErr = err })
	watcher.Observe(context.Background(), WalletEvent{Address: "0xabc", Connected: true})

	if gotErr == nil {
		t.Fatal("error callback not invoked")
	}
	if UserMessage(gotErr) != "failed to create account" {
		t.Errorf("message = %q", UserMessage(gotErr))
	}
}
