package service

import (
	"context"
	"log"
	"time"

	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/pkg/apierror"
)

// MerchantService handles merchant profile business logic.
type MerchantService struct {
	merchants repository.MerchantRepository
	users     repository.UserRepository
	community repository.CommunityRepository // optional
}

// NewMerchantService creates a new merchant service. community may be
// nil, in which case details carry a zero rating summary.
func NewMerchantService(merchants repository.MerchantRepository, users repository.UserRepository, community repository.CommunityRepository) *MerchantService {
	return &MerchantService{
		merchants: merchants,
		users:     users,
		community: community,
	}
}

// SetupInput holds the merchant setup form fields.
type SetupInput struct {
	UserID             string
	ShopName           string
	Address            string
	Latitude           float64
	Longitude          float64
	Phone              string
	Email              string
	BusinessHoursOpen  string
	BusinessHoursClose string
	Category           string
	Description        string
}

// Setup stores the merchant profile and promotes the user to merchant.
func (s *MerchantService) Setup(ctx context.Context, in SetupInput) (*model.MerchantProfile, error) {
	if in.UserID == "" {
		return nil, apierror.BadRequest("user_id is required")
	}
	if in.ShopName == "" || in.Address == "" || in.Phone == "" {
		return nil, apierror.BadRequest("shop name, address and phone are required")
	}

	user, err := s.users.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, apierror.InternalError("failed to look up account")
	}
	if user == nil {
		return nil, apierror.NotFound("user not found")
	}

	profile := &model.MerchantProfile{
		UserID:             in.UserID,
		ShopName:           in.ShopName,
		Address:            in.Address,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		Phone:              in.Phone,
		Email:              in.Email,
		BusinessHoursOpen:  in.BusinessHoursOpen,
		BusinessHoursClose: in.BusinessHoursClose,
		Category:           in.Category,
		Description:        in.Description,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.merchants.UpsertProfile(ctx, profile); err != nil {
		return nil, apierror.InternalError("failed to save merchant profile")
	}

	if err := s.users.SetMerchant(ctx, in.UserID, true); err != nil {
		return nil, apierror.InternalError("failed to update account")
	}

	log.Printf("[MerchantService] Merchant setup complete for %s (%s)", in.UserID, in.ShopName)
	return profile, nil
}

// Search returns merchant profiles matching the query.
func (s *MerchantService) Search(ctx context.Context, query string) ([]model.MerchantProfile, error) {
	profiles, err := s.merchants.SearchProfiles(ctx, query)
	if err != nil {
		return nil, apierror.InternalError("failed to search merchants")
	}
	return profiles, nil
}

// Detail is the merchant detail payload.
type Detail struct {
	Merchant      *model.MerchantProfile `json:"merchant"`
	AverageRating float64                `json:"average_rating"`
	TotalReviews  int                    `json:"total_reviews"`
}

// GetDetail returns a merchant profile with its aggregate rating.
func (s *MerchantService) GetDetail(ctx context.Context, merchantID string) (*Detail, error) {
	profile, err := s.merchants.GetProfile(ctx, merchantID)
	if err != nil {
		return nil, apierror.InternalError("failed to load merchant")
	}
	if profile == nil {
		return nil, apierror.NotFound("merchant not found")
	}

	detail := &Detail{Merchant: profile}
	if s.community != nil {
		summary, err := s.community.RatingSummary(ctx, merchantID)
		if err != nil {
			log.Printf("[MerchantService] Rating summary failed for %s: %v", merchantID, err)
		} else {
			detail.AverageRating = summary.AverageRating
			detail.TotalReviews = summary.TotalReviews
		}
	}
	return detail, nil
}
