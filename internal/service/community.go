package service

import (
	"context"
	"log"
	"time"

	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/pkg/apierror"
)

// CommunityService handles reviews and favorites. All methods fail with
// 503 when the community store is not configured.
type CommunityService struct {
	repo      repository.CommunityRepository
	merchants repository.MerchantRepository
}

// NewCommunityService creates a new community service. repo may be nil
// when no community database is configured.
func NewCommunityService(repo repository.CommunityRepository, merchants repository.MerchantRepository) *CommunityService {
	return &CommunityService{repo: repo, merchants: merchants}
}

// Enabled reports whether the community store is available.
func (s *CommunityService) Enabled() bool {
	return s.repo != nil
}

func (s *CommunityService) guard() error {
	if s.repo == nil {
		return apierror.ServiceUnavailable("community features are not available")
	}
	return nil
}

// Reviews returns a merchant's reviews, newest first.
func (s *CommunityService) Reviews(ctx context.Context, merchantID string) ([]model.Review, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListReviews(ctx, merchantID)
	if err != nil {
		return nil, apierror.InternalError("failed to load reviews")
	}
	return reviews, nil
}

// AddReview stores a rating and comment for a merchant.
func (s *CommunityService) AddReview(ctx context.Context, merchantID, userID string, rating int, comment string) (*model.Review, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if merchantID == "" || userID == "" {
		return nil, apierror.BadRequest("merchant_id and user_id are required")
	}
	if rating < 1 || rating > 5 {
		return nil, apierror.BadRequest("rating must be between 1 and 5")
	}

	review := &model.Review{
		MerchantID: merchantID,
		UserID:     userID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.AddReview(ctx, review); err != nil {
		return nil, apierror.InternalError("failed to save review")
	}
	return review, nil
}

// IsFavorite reports whether the user has favorited the merchant.
func (s *CommunityService) IsFavorite(ctx context.Context, userID, merchantID string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	fav, err := s.repo.IsFavorite(ctx, userID, merchantID)
	if err != nil {
		return false, apierror.InternalError("failed to check favorite")
	}
	return fav, nil
}

// ToggleFavorite flips the favorite state and returns the new state.
func (s *CommunityService) ToggleFavorite(ctx context.Context, userID, merchantID string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if userID == "" || merchantID == "" {
		return false, apierror.BadRequest("user_id and merchant_id are required")
	}
	fav, err := s.repo.ToggleFavorite(ctx, userID, merchantID)
	if err != nil {
		return false, apierror.InternalError("failed to update favorite")
	}
	return fav, nil
}

// Favorites returns the user's favorited merchants enriched with their
// profiles. Merchants without a profile are listed by ID only.
func (s *CommunityService) Favorites(ctx context.Context, userID string) ([]model.FavoriteMerchant, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	ids, err := s.repo.FavoriteMerchantIDs(ctx, userID)
	if err != nil {
		return nil, apierror.InternalError("failed to load favorites")
	}

	favorites := make([]model.FavoriteMerchant, 0, len(ids))
	for _, id := range ids {
		fav := model.FavoriteMerchant{MerchantID: id}
		profile, err := s.merchants.GetProfile(ctx, id)
		if err != nil {
			log.Printf("[CommunityService] Profile lookup failed for %s: %v", id, err)
		} else if profile != nil {
			fav.ShopName = profile.ShopName
			fav.Address = profile.Address
			fav.Category = profile.Category
		}
		favorites = append(favorites, fav)
	}
	return favorites, nil
}
