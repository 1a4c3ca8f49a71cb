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

// ProductHandler serves listing endpoints.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /products. The body is a bare JSON array.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	response.OK(w, products)
}

type createProductRequest struct {
	MerchantID    string  `json:"merchant_id"`
	Name          string  `json:"name"`
	OriginalPrice float64 `json:"original_price"`
	CurrentPrice  float64 `json:"current_price"`
	ExpiryMinutes int     `json:"expiry_minutes"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	product, err := h.products.Create(r.Context(), service.CreateInput{
		MerchantID:    req.MerchantID,
		Name:          req.Name,
		OriginalPrice: req.OriginalPrice,
		CurrentPrice:  req.CurrentPrice,
		ExpiryMinutes: req.ExpiryMinutes,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, product)
}

type purchaseRequest struct {
	ConsumerID string `json:"consumer_id"`
}

// Purchase handles POST /purchase/{productId}.
func (h *ProductHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	product, err := h.products.Purchase(r.Context(), productID, req.ConsumerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, product)
}
