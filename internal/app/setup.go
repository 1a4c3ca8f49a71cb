package app

import (
	"context"
	"errors"

	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/model"
)

// ErrMissingFields means required setup fields were empty. No request
// was sent.
var ErrMissingFields = errors.New("missing required fields")

// MerchantSetupScreen collects the merchant profile for first-time
// merchant users.
type MerchantSetupScreen struct {
	api *client.Client
	ui  UI

	params Params
}

// NewMerchantSetupScreen creates the setup controller.
func NewMerchantSetupScreen(api *client.Client, ui UI, params Params) *MerchantSetupScreen {
	return &MerchantSetupScreen{api: api, ui: ui, params: params}
}

// Submit validates and submits the profile. Required-field failures
// never issue a request. On success it returns the updated session copy
// to pass forward; the caller navigates to Home with role MERCHANT.
func (s *MerchantSetupScreen) Submit(ctx context.Context, form client.MerchantSetupForm) (*model.User, error) {
	if form.ShopName == "" || form.Address == "" || form.Phone == "" {
		s.ui.Alert("Missing information", "Shop name, address and phone are required.")
		return nil, ErrMissingFields
	}

	form.UserID = s.params.Session.UserID
	if _, err := s.api.MerchantSetup(ctx, form); err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Setup failed", client.UserMessage(err))
		}
		return nil, err
	}

	updated := *s.params.Session
	updated.IsMerchant = true
	return &updated, nil
}
