package handler

import (
	"encoding/json"
	"net/http"

	"foodrescue-platform/internal/service"
	"foodrescue-platform/pkg/apierror"
	"foodrescue-platform/pkg/response"
)

// AuthHandler serves login and phone registration.
type AuthHandler struct {
	auth         *service.AuthService
	registration *service.RegistrationService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService, registration *service.RegistrationService) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration}
}

type loginRequest struct {
	AuthProvider string `json:"auth_provider"`
	AuthID       string `json:"auth_id"`
	Email        string `json:"email"`
}

// Login handles POST /login. The 200 body is the user record itself.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	user, err := h.auth.Login(r.Context(), req.AuthProvider, req.AuthID, req.Email)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, user)
}

type sendSMSRequest struct {
	Phone string `json:"phone"`
}

type sendSMSResponse struct {
	Message  string `json:"message"`
	DemoCode string `json:"demo_code,omitempty"`
}

// SendSMS handles POST /register/send-sms.
func (h *AuthHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req sendSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	code, err := h.registration.SendCode(r.Context(), req.Phone)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, sendSMSResponse{Message: "verification code sent", DemoCode: code})
}

type verifySMSRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifySMS handles POST /register/verify-sms. The 200 body is the user
// record, matching /login.
func (h *AuthHandler) VerifySMS(w http.ResponseWriter, r *http.Request) {
	var req verifySMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	user, err := h.registration.VerifyCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, user)
}
