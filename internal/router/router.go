package router

import (
	"foodrescue-platform/internal/handler"
	"foodrescue-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	StatusHandler       *handler.StatusHandler
	AuthHandler         *handler.AuthHandler
	ProductHandler      *handler.ProductHandler
	MerchantHandler     *handler.MerchantHandler
	NotificationHandler *handler.NotificationHandler
	CommunityHandler    *handler.CommunityHandler
}

// New creates and configures the HTTP router. Paths are intentionally
// flat and unversioned: the mobile clients hardcode them.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.StatusHandler != nil {
		r.Get("/api/status", cfg.StatusHandler.Status)
	}

	if cfg.AuthHandler != nil {
		r.Post("/login", cfg.AuthHandler.Login)
		r.Route("/register", func(r chi.Router) {
			r.Post("/send-sms", cfg.AuthHandler.SendSMS)
			r.Post("/verify-sms", cfg.AuthHandler.VerifySMS)
		})
	}

	if cfg.ProductHandler != nil {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.ProductHandler.List)
			r.Post("/", cfg.ProductHandler.Create)
		})
		r.Post("/purchase/{productId}", cfg.ProductHandler.Purchase)
	}

	if cfg.MerchantHandler != nil {
		r.Post("/merchant/setup", cfg.MerchantHandler.Setup)
		r.Get("/merchant/{id}", cfg.MerchantHandler.Detail)
		r.Get("/merchants/search", cfg.MerchantHandler.Search)
	}

	if cfg.NotificationHandler != nil {
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/{userId}", cfg.NotificationHandler.List)
			r.Put("/{id}/read", cfg.NotificationHandler.MarkRead)
		})
	}

	// Community routes stay unmounted when no community store is
	// configured; the paths then 404 like any unknown route.
	if cfg.CommunityHandler != nil {
		r.Route("/reviews/merchant/{id}", func(r chi.Router) {
			r.Get("/", cfg.CommunityHandler.Reviews)
			r.Post("/", cfg.CommunityHandler.AddReview)
		})
		r.Route("/favorites", func(r chi.Router) {
			r.Get("/check", cfg.CommunityHandler.CheckFavorite)
			r.Post("/toggle", cfg.CommunityHandler.ToggleFavorite)
			r.Get("/{userId}", cfg.CommunityHandler.Favorites)
		})
	}

	return r
}
