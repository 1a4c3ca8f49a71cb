package app

import (
	"context"

	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/model"
)

// HomeScreen is the dashboard: the product list with purchase actions.
// Every Enter replaces the list wholesale; nothing is cached across
// visits.
type HomeScreen struct {
	api *client.Client
	ui  UI

	params   Params
	products []model.Product
}

// NewHomeScreen creates the dashboard controller.
func NewHomeScreen(api *client.Client, ui UI, params Params) *HomeScreen {
	return &HomeScreen{api: api, ui: ui, params: params}
}

// Enter fetches the product list. An empty array renders an empty list
// with no error alert.
func (s *HomeScreen) Enter(ctx context.Context) error {
	products, err := s.api.Products(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}
	s.products = products
	return nil
}

// Products returns the currently loaded listings.
func (s *HomeScreen) Products() []model.Product {
	return s.products
}

// Purchase buys one listing. On failure the backend message is alerted
// verbatim and the local list stays unchanged until the next refresh; on
// success the list is re-fetched.
func (s *HomeScreen) Purchase(ctx context.Context, productID string) error {
	_, err := s.api.Purchase(ctx, productID, s.params.Session.UserID)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Purchase failed", client.UserMessage(err))
		}
		return err
	}
	return s.Enter(ctx)
}

// CreateListing posts a new listing for merchant users and re-fetches.
func (s *HomeScreen) CreateListing(ctx context.Context, in client.NewListing) error {
	in.MerchantID = s.params.Session.UserID
	_, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Listing failed", client.UserMessage(err))
		}
		return err
	}
	return s.Enter(ctx)
}
