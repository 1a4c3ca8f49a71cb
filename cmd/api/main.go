package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodrescue-platform/internal/cache"
	"foodrescue-platform/internal/config"
	"foodrescue-platform/internal/handler"
	"foodrescue-platform/internal/repository"
	"foodrescue-platform/internal/router"
	"foodrescue-platform/internal/service"

	_ "github.com/go-sql-driver/mysql"
)

const sweepInterval = 1 * time.Minute

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting FoodRescue API...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Marketplace store, selected by config
	var store repository.Store
	switch cfg.Store.Type {
	case "postgres", "postgresql":
		pgStore, err := repository.NewPostgresStore(cfg.Store.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		store = pgStore
		log.Println("PostgreSQL marketplace store initialized")
	default: // sqlite
		sqliteStore, err := repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		store = sqliteStore
		log.Println("SQLite marketplace store initialized")
	}
	defer store.Close()

	// Community store (MySQL, optional): reviews and favorites degrade
	// away when unavailable.
	var communityRepo repository.CommunityRepository
	mysqlDB, err := sql.Open("mysql", cfg.Community.DSN())
	if err != nil {
		log.Printf("Warning: MySQL connection failed: %v", err)
	} else {
		mysqlDB.SetMaxOpenConns(10)
		mysqlDB.SetMaxIdleConns(5)
		mysqlDB.SetConnMaxLifetime(5 * time.Minute)

		if err := mysqlDB.Ping(); err != nil {
			log.Printf("Warning: MySQL ping failed, community features disabled: %v", err)
			mysqlDB.Close()
			mysqlDB = nil
		} else {
			repo, err := repository.NewMySQLCommunityRepository(mysqlDB)
			if err != nil {
				log.Printf("Warning: community store init failed: %v", err)
				mysqlDB.Close()
				mysqlDB = nil
			} else {
				communityRepo = repo
				log.Println("MySQL community store initialized")
			}
		}
	}
	if mysqlDB != nil {
		defer mysqlDB.Close()
	}

	// Cache backs session tokens and SMS codes. Redis when configured,
	// in-memory otherwise.
	var appCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
			appCache = cache.NewMemory()
		} else {
			appCache = redisCache
			log.Println("Redis cache initialized")
		}
	} else {
		appCache = cache.NewMemory()
		log.Println("Memory cache initialized")
	}
	defer appCache.Close()

	// Services
	sessionService := service.NewSessionService(appCache)
	notificationService := service.NewNotificationService(store)
	authService := service.NewAuthService(store, sessionService, notificationService)
	registrationService := service.NewRegistrationService(store, appCache, sessionService, notificationService, cfg.App.IsDevelopment())
	productService := service.NewProductService(store, store, communityRepo, notificationService)
	merchantService := service.NewMerchantService(store, store, communityRepo)
	communityService := service.NewCommunityService(communityRepo, store)

	// Background expiry sweep
	sweeper := service.NewSweeper(store, store, sweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// Handlers
	statusHandler := handler.NewStatusHandler(func() error {
		_, err := store.GetProductByID(context.Background(), "status-probe")
		return err
	})
	authHandler := handler.NewAuthHandler(authService, registrationService)
	productHandler := handler.NewProductHandler(productService)
	merchantHandler := handler.NewMerchantHandler(merchantService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	var communityHandler *handler.CommunityHandler
	if communityService.Enabled() {
		communityHandler = handler.NewCommunityHandler(communityService)
	}

	r := router.New(router.Config{
		StatusHandler:       statusHandler,
		AuthHandler:         authHandler,
		ProductHandler:      productHandler,
		MerchantHandler:     merchantHandler,
		NotificationHandler: notificationHandler,
		CommunityHandler:    communityHandler,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
