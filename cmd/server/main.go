package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/pdvlite/pos-engine/internal/cache"
	"github.com/pdvlite/pos-engine/internal/config"
	"github.com/pdvlite/pos-engine/internal/handler"
	"github.com/pdvlite/pos-engine/internal/repository"
	"github.com/pdvlite/pos-engine/internal/service"
	"github.com/pdvlite/pos-engine/pkg/response"
)

func main() {
	// .env is optional, real deployments use environment variables
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	paymentRepo := repository.NewPaymentRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// Initialize services; all collaborators are passed in here, nothing
	// reaches for globals
	ledgerService := service.NewLedgerService(paymentRepo, saleRepo, cfg)
	dashboardService := service.NewDashboardService(paymentRepo, saleRepo)
	dashboardCache := cache.NewDashboardCache(dashboardService, redisClient, cfg.Dashboard.CacheTTL)

	paymentHandler := handler.NewPaymentHandler(ledgerService)
	dashboardHandler := handler.NewDashboardHandler(dashboardCache, dashboardService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Setup routes
	router := setupRoutes(paymentHandler, dashboardHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(paymentHandler *handler.PaymentHandler, dashboardHandler *handler.DashboardHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/payments", paymentHandler.CreatePayment).Methods("POST")
	api.HandleFunc("/payments", paymentHandler.ListPayments).Methods("GET")
	api.HandleFunc("/payments/report", paymentHandler.PeriodReport).Methods("GET")
	api.HandleFunc("/payments/{paymentId}", paymentHandler.GetPayment).Methods("GET")
	api.HandleFunc("/payments/{paymentId}/register", paymentHandler.RegisterPayment).Methods("POST")
	api.HandleFunc("/payments/{paymentId}/entries", paymentHandler.PaymentEntries).Methods("GET")

	api.HandleFunc("/dashboard", dashboardHandler.Snapshot).Methods("GET")
	api.HandleFunc("/sales/recent", dashboardHandler.RecentSales).Methods("GET")

	return router
}
