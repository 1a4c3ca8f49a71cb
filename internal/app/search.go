package app

import (
	"context"

	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/model"
)

// SearchScreen finds merchants by shop name.
type SearchScreen struct {
	api *client.Client
	ui  UI

	results []model.MerchantProfile
}

// NewSearchScreen creates the search controller.
func NewSearchScreen(api *client.Client, ui UI) *SearchScreen {
	return &SearchScreen{api: api, ui: ui}
}

// Query runs one search, replacing the result list wholesale.
func (s *SearchScreen) Query(ctx context.Context, q string) error {
	results, err := s.api.SearchMerchants(ctx, q)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}
	s.results = results
	return nil
}

// Results returns the loaded matches.
func (s *SearchScreen) Results() []model.MerchantProfile {
	return s.results
}
