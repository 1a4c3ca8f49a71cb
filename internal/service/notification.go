package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/pkg/apierror"
	"foodrescue-platform/pkg/uid"
)

// NotificationService handles per-user notifications.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// NotificationList is the payload for the notifications screen.
type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

// List returns a user's notifications and unread count.
func (s *NotificationService) List(ctx context.Context, userID string) (*NotificationList, error) {
	notifications, unread, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return nil, apierror.InternalError("failed to load notifications")
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead flags a notification as read. Repeated calls are harmless.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return apierror.InternalError("failed to mark notification read")
	}
	return nil
}

// Push creates a notification for a user. Failures are logged, not
// returned: notifications are best-effort side effects of other actions.
func (s *NotificationService) Push(ctx context.Context, userID, title, body, kind string) {
	n := &model.Notification{
		ID:        uid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		log.Printf("[NotificationService] Failed to push %s notification to %s: %v", kind, userID, err)
	}
}

// Welcome pushes the first-login greeting.
func (s *NotificationService) Welcome(ctx context.Context, userID string) {
	s.Push(ctx, userID, "Welcome to FoodRescue", "Thanks for joining the fight against food waste!", model.NotificationWelcome)
}

// OrderPlaced notifies a merchant that a listing sold.
func (s *NotificationService) OrderPlaced(ctx context.Context, merchantID, productName string) {
	s.Push(ctx, merchantID, "Order received",
		fmt.Sprintf("Your listing %q has been purchased.", productName), model.NotificationOrder)
}

// NewListing notifies a user that a favorited merchant posted a listing.
func (s *NotificationService) NewListing(ctx context.Context, userID, shopName, productName string) {
	s.Push(ctx, userID, "New rescue deal",
		fmt.Sprintf("%s just listed %q.", shopName, productName), model.NotificationPromotion)
}
