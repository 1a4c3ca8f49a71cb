package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodrescue-platform/internal/cache"
	"foodrescue-platform/internal/handler"
	"foodrescue-platform/internal/model"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/internal/service"
	"foodrescue-platform/pkg/uid"
)

func newTestServer(t *testing.T) (*httptest.Server, *repository.SQLiteStore) {
	t.Helper()

	store, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	c := cache.NewMemory()
	t.Cleanup(func() { c.Close() })

	sessions := service.NewSessionService(c)
	notifier := service.NewNotificationService(store)

	r := New(Config{
		StatusHandler:       handler.NewStatusHandler(nil),
		AuthHandler:         handler.NewAuthHandler(service.NewAuthService(store, sessions, notifier), service.NewRegistrationService(store, c, sessions, notifier, true)),
		ProductHandler:      handler.NewProductHandler(service.NewProductService(store, store, nil, notifier)),
		MerchantHandler:     handler.NewMerchantHandler(service.NewMerchantService(store, store, nil)),
		NotificationHandler: handler.NewNotificationHandler(notifier),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestLoginEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/login", map[string]string{
		"auth_provider": "google",
		"auth_id":       "google_user_abcdefghij",
		"email":         "user_google@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var user model.User
	decode(t, resp, &user)
	if user.UserID == "" || user.Token == "" {
		t.Errorf("incomplete user record: %+v", user)
	}
	if user.IsMerchant {
		t.Error("first login must create a consumer")
	}
}

func TestLoginMissingProvider(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/login", map[string]string{"auth_id": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var wire struct {
		Error string `json:"error"`
	}
	decode(t, resp, &wire)
	if wire.Error == "" {
		t.Error("error body missing the error field")
	}
}

func TestProductListIsBareArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("GET /products failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	body := strings.TrimSpace(buf.String())

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body != "[]" {
		t.Errorf("empty product list body = %q, want bare []", body)
	}
}

func TestPurchaseSoldProduct(t *testing.T) {
	srv, store := newTestServer(t)

	p := &model.Product{
		ID:            uid.New(),
		MerchantID:    "m1",
		Name:          "bento",
		OriginalPrice: 100,
		CurrentPrice:  50,
		Status:        model.ProductSold,
		ExpiresAt:     time.Now().UTC().Add(time.Hour),
		CreatedAt:     time.Now().UTC(),
	}
	if err := store.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	resp := postJSON(t, srv.URL+"/purchase/"+p.ID, map[string]string{"consumer_id": "c1"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	var wire struct {
		Error string `json:"error"`
	}
	decode(t, resp, &wire)
	if wire.Error != "already sold" {
		t.Errorf("error = %q, want %q", wire.Error, "already sold")
	}
}

func TestCreateAndPurchaseFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/products", map[string]interface{}{
		"merchant_id":    "m1",
		"name":           "surprise bag",
		"original_price": 200.0,
		"current_price":  59.0,
		"expiry_minutes": 60,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created model.Product
	decode(t, resp, &created)

	resp = postJSON(t, srv.URL+"/purchase/"+created.ID, map[string]string{"consumer_id": "c1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("purchase status = %d, want 200", resp.StatusCode)
	}
	var bought model.Product
	decode(t, resp, &bought)
	if bought.Status != model.ProductSold {
		t.Errorf("status = %q, want SOLD", bought.Status)
	}
}

func TestSMSRegistrationFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/register/send-sms", map[string]string{"phone": "0912345678"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send status = %d, want 200", resp.StatusCode)
	}
	var sent struct {
		Message  string `json:"message"`
		DemoCode string `json:"demo_code"`
	}
	decode(t, resp, &sent)
	if len(sent.DemoCode) != 6 {
		t.Fatalf("demo_code = %q, want 6 digits", sent.DemoCode)
	}

	resp = postJSON(t, srv.URL+"/register/verify-sms", map[string]string{
		"phone": "0912345678",
		"code":  sent.DemoCode,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status = %d, want 200", resp.StatusCode)
	}
	var user model.User
	decode(t, resp, &user)
	if user.Phone != "0912345678" {
		t.Errorf("phone = %q", user.Phone)
	}
}

func TestNotificationsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	n := &model.Notification{
		ID:        uid.New(),
		UserID:    "u1",
		Title:     "Welcome",
		Body:      "hi",
		Type:      model.NotificationWelcome,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateNotification(context.Background(), n); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	resp, err := http.Get(srv.URL + "/notifications/u1")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var feed struct {
		Notifications []model.Notification `json:"notifications"`
		UnreadCount   int                  `json:"unread_count"`
	}
	decode(t, resp, &feed)
	if len(feed.Notifications) != 1 || feed.UnreadCount != 1 {
		t.Fatalf("feed = %+v", feed)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/notifications/"+n.ID+"/read", nil)
	markResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	markResp.Body.Close()
	if markResp.StatusCode != http.StatusOK {
		t.Fatalf("mark-read status = %d, want 200", markResp.StatusCode)
	}

	resp, _ = http.Get(srv.URL + "/notifications/u1")
	decode(t, resp, &feed)
	if feed.UnreadCount != 0 {
		t.Errorf("unread = %d, want 0", feed.UnreadCount)
	}
}

func TestCommunityRoutesAbsentWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/favorites/u1")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var status struct {
		Service string `json:"service"`
		Status  string `json:"status"`
	}
	decode(t, resp, &status)
	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
}
