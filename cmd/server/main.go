package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tombola/api/internal/config"
	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/handler"
	"github.com/tombola/api/internal/jobs"
	"github.com/tombola/api/internal/middleware"
	"github.com/tombola/api/internal/repository"
	"github.com/tombola/api/internal/service"
	"github.com/tombola/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service (validation only in the API process)
	jwtService, err := jwt.NewService(jwt.Config{
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	raffleRepo := repository.NewRaffleRepository(db)
	entrantRepo := repository.NewEntrantRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	treasury := repository.NewTreasuryRepository(db)

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwtService,
	})

	adminService := service.NewAdminService(service.AdminServiceConfig{
		Repo:          adminRepo,
		BootstrapHash: cfg.Ledger.BootstrapSecretHash,
	})

	raffleService := service.NewRaffleService(service.RaffleServiceConfig{
		RaffleRepo:      raffleRepo,
		EntrantRepo:     entrantRepo,
		Treasury:        treasury,
		AdminRepo:       adminRepo,
		Clock:           service.SystemClock{},
		DefaultCurrency: cfg.Ledger.Asset,
	})

	entrantService := service.NewEntrantService(service.EntrantServiceConfig{
		EntrantRepo: entrantRepo,
		RaffleRepo:  raffleRepo,
		Treasury:    treasury,
		Clock:       service.SystemClock{},
	})

	// Start background jobs
	statsCollector := jobs.NewStatsCollector(raffleService, time.Minute)
	statsCollector.Start()
	defer statsCollector.Stop()

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:        100, // 100 requests per minute
		Window:      time.Minute,
		Burst:       20, // Allow bursts up to 20
		ExemptPaths: []string{"/healthz", "/metrics"},
	})
	defer rateLimiter.Stop()

	// Initialize handlers
	adminHandler := handler.NewAdminHandler(adminService)
	raffleHandler := handler.NewRaffleHandler(raffleService)
	entrantHandler := handler.NewEntrantHandler(entrantService)
	healthHandler := handler.NewHealthHandler(db)

	// Create router and register routes
	mux := http.NewServeMux()

	// Operational endpoints (public)
	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Admin bootstrap (public: authorized by bootstrap secret)
	mux.HandleFunc("POST /v1/admin", adminHandler.Init)

	// Raffle read endpoints (public)
	mux.HandleFunc("GET /v1/raffles", raffleHandler.List)
	mux.HandleFunc("GET /v1/raffles/{raffleId}", raffleHandler.Get)
	mux.HandleFunc("GET /v1/raffles/{raffleId}/entrants/{userId}", entrantHandler.GetByUser)

	// Protected endpoints
	authMiddleware := middleware.Auth(tokenService)
	mux.Handle("GET /v1/admin", authMiddleware(http.HandlerFunc(adminHandler.Get)))
	mux.Handle("PUT /v1/admin", authMiddleware(http.HandlerFunc(adminHandler.Set)))

	mux.Handle("POST /v1/raffles", authMiddleware(http.HandlerFunc(raffleHandler.Create)))
	mux.Handle("POST /v1/raffles/{raffleId}/tickets", authMiddleware(http.HandlerFunc(raffleHandler.BuyTickets)))
	mux.Handle("POST /v1/raffles/{raffleId}/rewards", authMiddleware(http.HandlerFunc(raffleHandler.SetReward)))
	mux.Handle("POST /v1/raffles/{raffleId}/proceeds", authMiddleware(http.HandlerFunc(raffleHandler.ClaimProceeds)))
	mux.Handle("DELETE /v1/raffles/{raffleId}", authMiddleware(http.HandlerFunc(raffleHandler.Close)))

	mux.Handle("POST /v1/raffles/{raffleId}/entrants", authMiddleware(http.HandlerFunc(entrantHandler.Join)))
	mux.Handle("GET /v1/raffles/{raffleId}/entrant", authMiddleware(http.HandlerFunc(entrantHandler.Get)))
	mux.Handle("POST /v1/raffles/{raffleId}/claim", authMiddleware(http.HandlerFunc(entrantHandler.Settle)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.Metrics,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
