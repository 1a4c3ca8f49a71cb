package app

import (
	"context"

	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/model"
)

// NotificationsScreen lists notifications with tap-to-read.
type NotificationsScreen struct {
	api *client.Client
	ui  UI

	params        Params
	notifications []model.Notification
	unreadCount   int
}

// NewNotificationsScreen creates the notifications controller.
func NewNotificationsScreen(api *client.Client, ui UI, params Params) *NotificationsScreen {
	return &NotificationsScreen{api: api, ui: ui, params: params}
}

// Enter fetches the feed, replacing local state wholesale.
func (s *NotificationsScreen) Enter(ctx context.Context) error {
	feed, err := s.api.Notifications(ctx, s.params.Session.UserID)
	if err != nil {
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}
	s.notifications = feed.Notifications
	s.unreadCount = feed.UnreadCount
	return nil
}

// Notifications returns the loaded feed.
func (s *NotificationsScreen) Notifications() []model.Notification {
	return s.notifications
}

// UnreadCount returns the loaded unread count.
func (s *NotificationsScreen) UnreadCount() int {
	return s.unreadCount
}

// Press handles a tap on the notification at index. Already-read items
// issue no request. Unread items are patched optimistically; the patch
// is rolled back if the request fails.
func (s *NotificationsScreen) Press(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.notifications) {
		return nil
	}
	n := &s.notifications[index]
	if n.IsRead {
		return nil
	}

	n.IsRead = true
	s.unreadCount--

	if err := s.api.MarkNotificationRead(ctx, n.ID); err != nil {
		n.IsRead = false
		s.unreadCount++
		if ctx.Err() == nil {
			s.ui.Alert("Error", client.UserMessage(err))
		}
		return err
	}
	return nil
}
