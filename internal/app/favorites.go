package app

import (
	"context"

	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/model"
)

// FavoritesScreen lists the user's favorited merchants.
type FavoritesScreen struct {
	api *client.Client
	ui  UI

	params    Params
	favorites []model.FavoriteMerchant
}

// NewFavoritesScreen creates the favorites controller.
func NewFavoritesScreen(api *client.Client, ui UI, params Params) *FavoritesScreen {
	return &FavoritesScreen{api: api, ui: ui, params: params}
}

// Enter fetches the favorites list, replacing local state wholesale.
func (s *FavoritesScreen) Enter(ctx context.Context) error {
	favorites, err := s.api.Favorites(ctx, s.params.Session.UserID)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}
	s.favorites = favorites
	return nil
}

// Favorites returns the loaded list.
func (s *FavoritesScreen) Favorites() []model.FavoriteMerchant {
	return s.favorites
}
