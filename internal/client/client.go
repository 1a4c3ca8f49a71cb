package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"foodrescue-platform/internal/model"
)

// Client is a typed API client for the marketplace backend. One method
// per endpoint; every response decodes into an explicit result type.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends one request. Non-2xx responses decode the {"error": "..."}
// body into an *APIError; failures to send yield *TransportError; 2xx
// bodies that do not parse yield *DecodeError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Err: err}
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var wire struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil || wire.Error == "" {
			wire.Error = fmt.Sprintf("server returned status %d", resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: wire.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

type loginRequest struct {
	AuthProvider string `json:"auth_provider"`
	AuthID       string `json:"auth_id"`
	Email        string `json:"email"`
}

// Login exchanges a provider identity for the user record.
func (c *Client) Login(ctx context.Context, provider, authID, email string) (*model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/login", loginRequest{
		AuthProvider: provider,
		AuthID:       authID,
		Email:        email,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SendSMSResult is the send-code response. DemoCode is only populated by
// development backends.
type SendSMSResult struct {
	Message  string `json:"message"`
	DemoCode string `json:"demo_code"`
}

// SendSMSCode requests a verification code for the phone.
func (c *Client) SendSMSCode(ctx context.Context, phone string) (*SendSMSResult, error) {
	var result SendSMSResult
	err := c.do(ctx, http.MethodPost, "/register/send-sms", map[string]string{"phone": phone}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifySMSCode checks the code and returns the user record on success.
func (c *Client) VerifySMSCode(ctx context.Context, phone, code string) (*model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/register/verify-sms", map[string]string{
		"phone": phone,
		"code":  code,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Products lists all listings. The backend body is a bare JSON array.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// NewListing holds the fields for creating a listing.
type NewListing struct {
	MerchantID    string  `json:"merchant_id"`
	Name          string  `json:"name"`
	OriginalPrice float64 `json:"original_price"`
	CurrentPrice  float64 `json:"current_price"`
	ExpiryMinutes int     `json:"expiry_minutes"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// CreateProduct creates a listing.
func (c *Client) CreateProduct(ctx context.Context, in NewListing) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPost, "/products", in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Purchase consumes a listing for the consumer.
func (c *Client) Purchase(ctx context.Context, productID, consumerID string) (*model.Product, error) {
	var product model.Product
	err := c.do(ctx, http.MethodPost, "/purchase/"+url.PathEscape(productID),
		map[string]string{"consumer_id": consumerID}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// MerchantSetupForm holds the merchant setup fields.
type MerchantSetupForm struct {
	UserID             string  `json:"user_id"`
	ShopName           string  `json:"shop_name"`
	Address            string  `json:"address"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Phone              string  `json:"phone"`
	Email              string  `json:"email"`
	BusinessHoursOpen  string  `json:"business_hours_open"`
	BusinessHoursClose string  `json:"business_hours_close"`
	Category           string  `json:"category"`
	Description        string  `json:"description"`
}

// MerchantSetup submits the merchant profile.
func (c *Client) MerchantSetup(ctx context.Context, form MerchantSetupForm) (*model.MerchantProfile, error) {
	var profile model.MerchantProfile
	if err := c.do(ctx, http.MethodPost, "/merchant/setup", form, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SearchMerchants searches merchant profiles by shop name.
func (c *Client) SearchMerchants(ctx context.Context, query string) ([]model.MerchantProfile, error) {
	var result struct {
		Merchants []model.MerchantProfile `json:"merchants"`
	}
	path := "/merchants/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Merchants, nil
}

// MerchantDetail is the merchant detail payload.
type MerchantDetail struct {
	Merchant      model.MerchantProfile `json:"merchant"`
	AverageRating float64               `json:"average_rating"`
	TotalReviews  int                   `json:"total_reviews"`
}

// GetMerchant fetches a merchant profile with its aggregate rating.
func (c *Client) GetMerchant(ctx context.Context, merchantID string) (*MerchantDetail, error) {
	var detail MerchantDetail
	if err := c.do(ctx, http.MethodGet, "/merchant/"+url.PathEscape(merchantID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// NotificationFeed is the notifications screen payload.
type NotificationFeed struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

// Notifications fetches a user's notifications and unread count.
func (c *Client) Notifications(ctx context.Context, userID string) (*NotificationFeed, error) {
	var feed NotificationFeed
	if err := c.do(ctx, http.MethodGet, "/notifications/"+url.PathEscape(userID), nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// MarkNotificationRead marks one notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// Reviews fetches a merchant's reviews.
func (c *Client) Reviews(ctx context.Context, merchantID string) ([]model.Review, error) {
	var result struct {
		Reviews []model.Review `json:"reviews"`
	}
	if err := c.do(ctx, http.MethodGet, "/reviews/merchant/"+url.PathEscape(merchantID), nil, &result); err != nil {
		return nil, err
	}
	return result.Reviews, nil
}

// AddReview submits a rating and comment for a merchant.
func (c *Client) AddReview(ctx context.Context, merchantID, userID string, rating int, comment string) (*model.Review, error) {
	var review model.Review
	err := c.do(ctx, http.MethodPost, "/reviews/merchant/"+url.PathEscape(merchantID), map[string]interface{}{
		"user_id": userID,
		"rating":  rating,
		"comment": comment,
	}, &review)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Favorites fetches the user's favorited merchants.
func (c *Client) Favorites(ctx context.Context, userID string) ([]model.FavoriteMerchant, error) {
	var result struct {
		Favorites []model.FavoriteMerchant `json:"favorites"`
	}
	if err := c.do(ctx, http.MethodGet, "/favorites/"+url.PathEscape(userID), nil, &result); err != nil {
		return nil, err
	}
	return result.Favorites, nil
}

// FavoriteState is the check/toggle favorite payload.
type FavoriteState struct {
	IsFavorite bool   `json:"is_favorite"`
	Message    string `json:"message"`
}

// CheckFavorite reports whether the user has favorited the merchant.
func (c *Client) CheckFavorite(ctx context.Context, userID, merchantID string) (*FavoriteState, error) {
	var state FavoriteState
	path := "/favorites/check?user_id=" + url.QueryEscape(userID) + "&merchant_id=" + url.QueryEscape(merchantID)
	if err := c.do(ctx, http.MethodGet, path, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ToggleFavorite flips the favorite state.
func (c *Client) ToggleFavorite(ctx context.Context, userID, merchantID string) (*FavoriteState, error) {
	var state FavoriteState
	err := c.do(ctx, http.MethodPost, "/favorites/toggle", map[string]string{
		"user_id":     userID,
		"merchant_id": merchantID,
	}, &state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}
