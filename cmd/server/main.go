package main

import (
	"context"
	"errors"
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
	"github.com/sirupsen/logrus"

	"github.com/lendana/loan-engine/internal/config"
	"github.com/lendana/loan-engine/internal/handler"
	"github.com/lendana/loan-engine/internal/repository"
	"github.com/lendana/loan-engine/internal/service"
	"github.com/lendana/loan-engine/pkg/metrics"
	"github.com/lendana/loan-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	collector := metrics.NewLogCollector(log, cfg.Metrics.SlowOpThreshold)

	// Repositories
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)

	// Services
	loanService := service.NewLoanService(loanRepo, paymentRepo, redisClient, cfg, log, collector)
	authService := service.NewAuthService(userRepo, cfg, log)
	otpService := service.NewOTPService(redisClient, cfg, log)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, loanRepo, otpService, log)

	// Handlers
	loanHandler := handler.NewLoanHandler(loanService)
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(loanService, otpService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(cfg, log, authService, loanHandler, authHandler, adminHandler, withdrawalHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
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
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	cfg *config.Config,
	log *logrus.Logger,
	authService *service.AuthService,
	loanHandler *handler.LoanHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	withdrawalHandler *handler.WithdrawalHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(log))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Public auth routes
	auth := router.PathPrefix("/api/v1/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Authenticated routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.AuthMiddleware(authService))

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", loanHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/schedule", loanHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/loans/{loanId}/summary", loanHandler.GetSummary).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", loanHandler.MakePayment).Methods("POST")

	api.HandleFunc("/withdrawals", withdrawalHandler.RequestWithdrawal).Methods("POST")

	// Admin routes
	admin := router.PathPrefix("/api/v1/admin").Subrouter()
	admin.Use(handler.AuthMiddleware(authService))
	admin.Use(handler.AdminOnly)

	admin.HandleFunc("/register", authHandler.RegisterAdmin).Methods("POST")
	admin.HandleFunc("/loans/{loanId}/status", adminHandler.UpdateLoanStatus).Methods("PUT")
	admin.HandleFunc("/otp", adminHandler.GenerateOTP).Methods("POST")
	admin.HandleFunc("/reports/status", adminHandler.StatusReport).Methods("GET")

	return router
}
