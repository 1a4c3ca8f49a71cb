package app

import (
	"context"
	"sync"

	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/model"
)

// Params is the navigation payload passed by value between screens. The
// session record is never shared mutably: each screen receives its own
// copy and passes any updated copy forward explicitly.
type Params struct {
	Session    *model.User
	Role       client.Role
	MerchantID string
}

type entry struct {
	name   string
	params Params
	cancel context.CancelFunc
}

// Stack is the navigation stack. Navigating away from a screen cancels
// its context, so responses arriving after the screen was left are
// discarded.
type Stack struct {
	mu      sync.Mutex
	entries []entry
}

// NewStack creates a stack with the given root screen.
func NewStack(root string, p Params) (*Stack, context.Context) {
	s := &Stack{}
	ctx := s.push(root, p)
	return s, ctx
}

func (s *Stack) push(name string, p Params) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	s.entries = append(s.entries, entry{name: name, params: p, cancel: cancel})
	return ctx
}

// Navigate pushes a screen, cancelling the screen being left. The
// returned context scopes the new screen's requests.
func (s *Stack) Navigate(name string, p Params) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.entries); n > 0 {
		s.entries[n-1].cancel()
	}
	return s.push(name, p)
}

// Replace swaps the top screen, used after login so Back cannot return
// to the login screen.
func (s *Stack) Replace(name string, p Params) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.entries); n > 0 {
		s.entries[n-1].cancel()
		s.entries = s.entries[:n-1]
	}
	return s.push(name, p)
}

// Back pops the top screen. The revealed screen gets a fresh context:
// every mount re-fetches from empty state, so nothing outlives a visit.
// Returns ok=false at the root.
func (s *Stack) Back() (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if n <= 1 {
		return nil, false
	}
	s.entries[n-1].cancel()
	s.entries = s.entries[:n-1]

	top := &s.entries[n-2]
	top.cancel()
	ctx, cancel := context.WithCancel(context.Background())
	top.cancel = cancel
	return ctx, true
}

// Current returns the top screen's name and params.
func (s *Stack) Current() (string, Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := s.entries[len(s.entries)-1]
	return top.name, top.params
}

// Depth returns the stack depth.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
