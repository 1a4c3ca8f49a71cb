package service

import (
	"context"
	"log"
	"sync"
	"time"

	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/pkg/apierror"
	"foodrescue-platform/pkg/uid"
)

// fanoutWorkers bounds concurrent notification writes during promotion
// fan-out.
const fanoutWorkers = 4

// ProductService handles listing business logic.
type ProductService struct {
	products  repository.ProductRepository
	merchants repository.MerchantRepository
	community repository.CommunityRepository // optional
	notifier  *NotificationService
}

// NewProductService creates a new product service. community may be nil,
// in which case promotion fan-out is skipped.
func NewProductService(
	products repository.ProductRepository,
	merchants repository.MerchantRepository,
	community repository.CommunityRepository,
	notifier *NotificationService,
) *ProductService {
	return &ProductService{
		products:  products,
		merchants: merchants,
		community: community,
		notifier:  notifier,
	}
}

// List returns all listings.
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, apierror.InternalError("failed to load products")
	}
	return products, nil
}

// CreateInput holds the fields for a new listing.
type CreateInput struct {
	MerchantID    string
	Name          string
	OriginalPrice float64
	CurrentPrice  float64
	ExpiryMinutes int
	Latitude      float64
	Longitude     float64
}

// Create validates and stores a new listing, then fans out promotion
// notifications to users who favorited the merchant.
func (s *ProductService) Create(ctx context.Context, in CreateInput) (*model.Product, error) {
	if in.MerchantID == "" {
		return nil, apierror.BadRequest("merchant_id is required")
	}
	if in.Name == "" {
		return nil, apierror.BadRequest("name is required")
	}
	if in.OriginalPrice <= 0 || in.CurrentPrice <= 0 {
		return nil, apierror.BadRequest("prices must be positive")
	}
	if in.CurrentPrice > in.OriginalPrice {
		return nil, apierror.BadRequest("current price cannot exceed original price")
	}
	if in.ExpiryMinutes <= 0 {
		return nil, apierror.BadRequest("expiry_minutes must be positive")
	}

	now := time.Now().UTC()
	p := &model.Product{
		ID:            uid.New(),
		MerchantID:    in.MerchantID,
		Name:          in.Name,
		OriginalPrice: in.OriginalPrice,
		CurrentPrice:  in.CurrentPrice,
		Status:        model.ProductActive,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		ExpiresAt:     now.Add(time.Duration(in.ExpiryMinutes) * time.Minute),
		CreatedAt:     now,
	}

	if err := s.products.CreateProduct(ctx, p); err != nil {
		return nil, apierror.InternalError("failed to create product")
	}

	s.promoteToFavorites(ctx, p)
	return p, nil
}

// promoteToFavorites notifies users who favorited the merchant. Bounded
// fan-out; failures only log inside the notifier.
func (s *ProductService) promoteToFavorites(ctx context.Context, p *model.Product) {
	if s.community == nil || s.notifier == nil {
		return
	}

	userIDs, err := s.community.FavoritedBy(ctx, p.MerchantID)
	if err != nil {
		log.Printf("[ProductService] Favorite lookup failed for %s: %v", p.MerchantID, err)
		return
	}
	if len(userIDs) == 0 {
		return
	}

	shopName := p.MerchantID
	if profile, err := s.merchants.GetProfile(ctx, p.MerchantID); err == nil && profile != nil {
		shopName = profile.ShopName
	}

	sem := make(chan struct{}, fanoutWorkers)
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()
			s.notifier.NewListing(ctx, id, shopName, p.Name)
		}(userID)
	}
	wg.Wait()
}

// Purchase consumes an ACTIVE listing for the consumer. Sold and expired
// listings yield conflicts with the exact messages the clients display.
func (s *ProductService) Purchase(ctx context.Context, productID, consumerID string) (*model.Product, error) {
	if consumerID == "" {
		return nil, apierror.BadRequest("consumer_id is required")
	}

	now := time.Now().UTC()
	sold, err := s.products.MarkSold(ctx, productID, consumerID, now)
	if err != nil {
		return nil, apierror.InternalError("failed to purchase product")
	}

	if !sold {
		// The conditional update failed; inspect the listing to report why.
		p, err := s.products.GetProductByID(ctx, productID)
		if err != nil {
			return nil, apierror.InternalError("failed to purchase product")
		}
		switch {
		case p == nil:
			return nil, apierror.NotFound("product not found")
		case p.Status == model.ProductSold:
			return nil, apierror.Conflict("already sold")
		default:
			return nil, apierror.Conflict("listing expired")
		}
	}

	p, err := s.products.GetProductByID(ctx, productID)
	if err != nil || p == nil {
		return nil, apierror.InternalError("failed to load purchased product")
	}

	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, p.MerchantID, p.Name)
	}
	return p, nil
}
