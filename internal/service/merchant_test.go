package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"foodrescue-platform/internal/model"
	"foodrescue-platform/pkg/apierror"
	"foodrescue-platform/pkg/uid"
)

func seedUser(t *testing.T, store interface {
	CreateUser(ctx context.Context, u *model.User, authID string) error
}) *model.User {
	t.Helper()
	u := &model.User{
		UserID:       uid.New(),
		Email:        "user_google@example.com",
		AuthProvider: "google",
		DisplayName:  "user_google",
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(context.Background(), u, uid.New()); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return u
}

func TestMerchantSetupPromotesUser(t *testing.T) {
	store := newTestStore(t)
	svc := NewMerchantService(store, store, nil)
	user := seedUser(t, store)

	profile, err := svc.Setup(context.Background(), SetupInput{
		UserID:   user.UserID,
		ShopName: "Happy Bakery",
		Address:  "1 Baker St",
		Phone:    "0223456789",
		Category: "bakery",
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if profile.ShopName != "Happy Bakery" {
		t.Errorf("shop name = %q", profile.ShopName)
	}

	updated, err := store.GetUserByID(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if !updated.IsMerchant {
		t.Error("setup did not flip the merchant flag")
	}
}

func TestMerchantSetupValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewMerchantService(store, store, nil)
	user := seedUser(t, store)

	tests := []struct {
		name       string
		in         SetupInput
		wantStatus int
	}{
		{"missing user", SetupInput{ShopName: "x", Address: "y", Phone: "z"}, http.StatusBadRequest},
		{"missing shop name", SetupInput{UserID: user.UserID, Address: "y", Phone: "z"}, http.StatusBadRequest},
		{"unknown user", SetupInput{UserID: "ghost", ShopName: "x", Address: "y", Phone: "z"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Setup(context.Background(), tt.in)
			apiErr, ok := err.(*apierror.Error)
			if !ok || apiErr.StatusCode != tt.wantStatus {
				t.Errorf("err = %v, want status %d", err, tt.wantStatus)
			}
		})
	}
}

func TestMerchantSetupIsUpsert(t *testing.T) {
	store := newTestStore(t)
	svc := NewMerchantService(store, store, nil)
	user := seedUser(t, store)

	in := SetupInput{UserID: user.UserID, ShopName: "First Name", Address: "1 Baker St", Phone: "0223456789"}
	if _, err := svc.Setup(context.Background(), in); err != nil {
		t.Fatalf("first Setup failed: %v", err)
	}

	in.ShopName = "Second Name"
	if _, err := svc.Setup(context.Background(), in); err != nil {
		t.Fatalf("second Setup failed: %v", err)
	}

	profile, err := store.GetProfile(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.ShopName != "Second Name" {
		t.Errorf("shop name = %q, want Second Name", profile.ShopName)
	}
}

func TestMerchantSearch(t *testing.T) {
	store := newTestStore(t)
	svc := NewMerchantService(store, store, nil)

	for _, name := range []string{"Happy Bakery", "Happy Noodles", "Sad Cafe"} {
		u := seedUser(t, store)
		if _, err := svc.Setup(context.Background(), SetupInput{
			UserID: u.UserID, ShopName: name, Address: "a", Phone: "p",
		}); err != nil {
			t.Fatalf("Setup %q failed: %v", name, err)
		}
	}

	results, err := svc.Search(context.Background(), "Happy")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestGetDetailWithoutCommunityStore(t *testing.T) {
	store := newTestStore(t)
	svc := NewMerchantService(store, store, nil)
	user := seedUser(t, store)

	if _, err := svc.Setup(context.Background(), SetupInput{
		UserID: user.UserID, ShopName: "Happy Bakery", Address: "a", Phone: "p",
	}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	detail, err := svc.GetDetail(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetDetail failed: %v", err)
	}
	if detail.TotalReviews != 0 || detail.AverageRating != 0 {
		t.Errorf("rating summary should be zero without a community store")
	}
}

func TestGetDetailUnknownMerchant(t *testing.T) {
	store := newTestStore(t)
	svc := NewMerchantService(store, store, nil)

	_, err := svc.GetDetail(context.Background(), "ghost")
	apiErr, ok := err.(*apierror.Error)
	if !ok || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	svc := NewNotificationService(store)
	ctx := context.Background()

	svc.Welcome(ctx, "u1")
	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	id := list.Notifications[0].ID

	for i := 0; i < 3; i++ {
		if err := svc.MarkRead(ctx, id); err != nil {
			t.Fatalf("MarkRead #%d failed: %v", i+1, err)
		}
	}

	list, err = svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list.UnreadCount != 0 {
		t.Errorf("unread = %d, want 0", list.UnreadCount)
	}
	if !list.Notifications[0].IsRead {
		t.Error("notification still unread")
	}
}

func TestCommunityServiceUnavailable(t *testing.T) {
	store := newTestStore(t)
	svc := NewCommunityService(nil, store)

	if svc.Enabled() {
		t.Error("nil repo must report disabled")
	}
	_, err := svc.Reviews(context.Background(), "m1")
	apiErr, ok := err.(*apierror.Error)
	if !ok || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503", err)
	}
}
