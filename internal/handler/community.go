package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/service"
	"foodrescue-platform/pkg/apierror"
	"foodrescue-platform/pkg/response"
)

// CommunityHandler serves review and favorite endpoints.
type CommunityHandler struct {
	community *service.CommunityService
}

// NewCommunityHandler creates a new community handler.
func NewCommunityHandler(community *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

type reviewsResponse struct {
	Reviews []model.Review `json:"reviews"`
}

// Reviews handles GET /reviews/merchant/{id}.
func (h *CommunityHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "id")

	reviews, err := h.community.Reviews(r.Context(), merchantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	response.OK(w, reviewsResponse{Reviews: reviews})
}

type addReviewRequest struct {
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview handles POST /reviews/merchant/{id}.
func (h *CommunityHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "id")

	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	review, err := h.community.AddReview(r.Context(), merchantID, req.UserID, req.Rating, req.Comment)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, review)
}

type favoritesResponse struct {
	Favorites []model.FavoriteMerchant `json:"favorites"`
}

// Favorites handles GET /favorites/{userId}.
func (h *CommunityHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	favorites, err := h.community.Favorites(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if favorites == nil {
		favorites = []model.FavoriteMerchant{}
	}
	response.OK(w, favoritesResponse{Favorites: favorites})
}

type favoriteStateResponse struct {
	IsFavorite bool   `json:"is_favorite"`
	Message    string `json:"message,omitempty"`
}

// CheckFavorite handles GET /favorites/check?user_id=&merchant_id=.
func (h *CommunityHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	merchantID := r.URL.Query().Get("merchant_id")

	fav, err := h.community.IsFavorite(r.Context(), userID, merchantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, favoriteStateResponse{IsFavorite: fav})
}

type toggleFavoriteRequest struct {
	UserID     string `json:"user_id"`
	MerchantID string `json:"merchant_id"`
}

// ToggleFavorite handles POST /favorites/toggle.
func (h *CommunityHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	fav, err := h.community.ToggleFavorite(r.Context(), req.UserID, req.MerchantID)
	if err != nil {
		response.Error(w, err)
		return
	}

	msg := "removed from favorites"
	if fav {
		msg = "added to favorites"
	}
	response.OK(w, favoriteStateResponse{IsFavorite: fav, Message: msg})
}
