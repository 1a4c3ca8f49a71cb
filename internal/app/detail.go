package app

import (
	"context"
	"sync"

	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/model"
)

// MerchantDetailScreen shows one merchant's profile, reviews and
// favorite state.
type MerchantDetailScreen struct {
	api *client.Client
	ui  UI

	params Params

	mu         sync.Mutex
	detail     *client.MerchantDetail
	reviews    []model.Review
	isFavorite bool
}

// NewMerchantDetailScreen creates the detail controller. params must
// carry MerchantID.
func NewMerchantDetailScreen(api *client.Client, ui UI, params Params) *MerchantDetailScreen {
	return &MerchantDetailScreen{api: api, ui: ui, params: params}
}

// Enter issues the three mount fetches concurrently. Each resolves
// independently; there is no ordering requirement between them. The
// first failure is alerted and returned, but successful fetches keep
// their data.
func (s *MerchantDetailScreen) Enter(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		detail, err := s.api.GetMerchant(ctx, s.params.MerchantID)
		if err != nil {
			errCh <- err
			return
		}
		s.mu.Lock()
		s.detail = detail
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		reviews, err := s.api.Reviews(ctx, s.params.MerchantID)
		if err != nil {
			errCh <- err
			return
		}
		s.mu.Lock()
		s.reviews = reviews
		s.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		state, err := s.api.CheckFavorite(ctx, s.params.Session.UserID, s.params.MerchantID)
		if err != nil {
			errCh <- err
			return
		}
		s.mu.Lock()
		s.isFavorite = state.IsFavorite
		s.mu.Unlock()
	}()

	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok && err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}
	return nil
}

// Detail returns the loaded profile and rating summary.
func (s *MerchantDetailScreen) Detail() *client.MerchantDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// Reviews returns the loaded reviews.
func (s *MerchantDetailScreen) Reviews() []model.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviews
}

// IsFavorite returns the loaded favorite state.
func (s *MerchantDetailScreen) IsFavorite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isFavorite
}

// ToggleFavorite flips the favorite state via one request and applies
// the server's answer.
func (s *MerchantDetailScreen) ToggleFavorite(ctx context.Context) error {
	state, err := s.api.ToggleFavorite(ctx, s.params.Session.UserID, s.params.MerchantID)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}
	s.mu.Lock()
	s.isFavorite = state.IsFavorite
	s.mu.Unlock()
	return nil
}

// AddReview submits a rating and refreshes the review list.
func (s *MerchantDetailScreen) AddReview(ctx context.Context, rating int, comment string) error {
	_, err := s.api.AddReview(ctx, s.params.MerchantID, s.params.Session.UserID, rating, comment)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}

	reviews, err := s.api.Reviews(ctx, s.params.MerchantID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.reviews = reviews
	s.mu.Unlock()
	return nil
}
