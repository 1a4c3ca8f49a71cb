package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"foodrescue-platform/internal/service"
	"foodrescue-platform/pkg/response"
)

// NotificationHandler serves notification endpoints.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications/{userId}.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	list, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, list)
}

// MarkRead handles PUT /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "notification marked as read"})
}
