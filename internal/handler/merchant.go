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

// MerchantHandler serves merchant profile endpoints.
type MerchantHandler struct {
	merchants *service.MerchantService
}

// NewMerchantHandler creates a new merchant handler.
func NewMerchantHandler(merchants *service.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants}
}

type setupRequest struct {
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

// Setup handles POST /merchant/setup.
func (h *MerchantHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	profile, err := h.merchants.Setup(r.Context(), service.SetupInput{
		UserID:             req.UserID,
		ShopName:           req.ShopName,
		Address:            req.Address,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Phone:              req.Phone,
		Email:              req.Email,
		BusinessHoursOpen:  req.BusinessHoursOpen,
		BusinessHoursClose: req.BusinessHoursClose,
		Category:           req.Category,
		Description:        req.Description,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, profile)
}

type searchResponse struct {
	Merchants []model.MerchantProfile `json:"merchants"`
}

// Search handles GET /merchants/search?q=.
func (h *MerchantHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	merchants, err := h.merchants.Search(r.Context(), query)
	if err != nil {
		response.Error(w, err)
		return
	}
	if merchants == nil {
		merchants = []model.MerchantProfile{}
	}
	response.OK(w, searchResponse{Merchants: merchants})
}

// Detail handles GET /merchant/{id}.
func (h *MerchantHandler) Detail(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "id")

	detail, err := h.merchants.GetDetail(r.Context(), merchantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, detail)
}
