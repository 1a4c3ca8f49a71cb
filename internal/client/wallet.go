package client

import "context"

// WalletEvent is an externally-driven wallet connection state change.
type WalletEvent struct {
	Address   string
	Connected bool
}

// WalletWatcher turns wallet connection events into logins. A connected
// event triggers authenticate("crypto", address) at most once per
// connection; a disconnect re-arms the trigger.
type WalletWatcher struct {
	auth      *Authenticator
	onLogin   func(*LoginOutcome)
	onError   func(error)
	triggered bool
}

// NewWalletWatcher creates a watcher. onLogin and onError receive the
// outcome of each triggered login attempt.
func NewWalletWatcher(auth *Authenticator, onLogin func(*LoginOutcome), onError func(error)) *WalletWatcher {
	return &WalletWatcher{auth: auth, onLogin: onLogin, onError: onError}
}

// Observe feeds one connection event into the watcher.
func (w *WalletWatcher) Observe(ctx context.Context, ev WalletEvent) {
	if !ev.Connected {
		w.triggered = false
		return
	}
	if w.triggered {
		return
	}
	w.triggered = true

	outcome, err := w.auth.Authenticate(ctx, "crypto", ev.Address)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	if w.onLogin != nil {
		w.onLogin(outcome)
	}
}
