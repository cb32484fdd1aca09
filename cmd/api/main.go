package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/akashbonde99/CarRentalServicesProject/internal/api"
	"github.com/akashbonde99/CarRentalServicesProject/internal/otp"
	"github.com/akashbonde99/CarRentalServicesProject/internal/ports"
	"github.com/akashbonde99/CarRentalServicesProject/internal/repository"
	"github.com/akashbonde99/CarRentalServicesProject/internal/service"
	"github.com/akashbonde99/CarRentalServicesProject/internal/utils"
	"github.com/akashbonde99/CarRentalServicesProject/pkg/config"
	"github.com/akashbonde99/CarRentalServicesProject/pkg/health"
	"github.com/akashbonde99/CarRentalServicesProject/pkg/metrics"
)

type App struct {
	config  *config.Config
	server  *http.Server
	db      *pgxpool.Pool
	metrics *metrics.HTTPMetrics
}

func NewApp(cfg *config.Config) *App {
	return &App{
		config:  cfg,
		metrics: metrics.New("carrental"),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	if err := a.setupServer(); err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	return nil
}

func (a *App) setupServer() error {
	services := a.setupServices()
	router := a.setupRouter(services)

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router,
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	return nil
}

type Services struct {
	BookingService ports.BookingService
	PaymentService ports.PaymentService
	Catalog        ports.CarCatalog
	Users          ports.UserDirectory
	OtpStore       otp.Store
}

func (a *App) setupServices() Services {
	bookingRepo := repository.NewBookingRepository(a.db)
	catalogRepo := repository.NewCatalogRepository(a.db)

	return Services{
		BookingService: service.NewBookingService(bookingRepo, catalogRepo, catalogRepo),
		PaymentService: service.NewPaymentService(bookingRepo, hmacVerifier(a.config.Payment.WebhookSecret)),
		Catalog:        catalogRepo,
		Users:          catalogRepo,
		OtpStore:       otp.NewMemoryStore(),
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := mux.NewRouter()
	// registered with Use so the route template is available for the path label
	router.Use(a.metrics.Middleware)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/health", health.HealthGet(a.db)).Methods(http.MethodGet)

	v1.HandleFunc("/bookings", utils.AllowedContentTypes(
		api.CreateBookingHandler(services.BookingService),
		"application/json",
	)).Methods(http.MethodPost)
	v1.HandleFunc("/bookings", api.RequireAdmin(services.Users, api.AllBookingsHandler(services.BookingService))).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/my", api.MyBookingsHandler(services.BookingService)).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id:[0-9]+}", api.GetBookingHandler(services.BookingService)).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id:[0-9]+}/status/{status}", api.RequireAdmin(services.Users, api.UpdateBookingStatusHandler(services.BookingService))).Methods(http.MethodPut)
	v1.HandleFunc("/bookings/{id:[0-9]+}/cancel", api.CancelBookingHandler(services.BookingService)).Methods(http.MethodPut)
	v1.HandleFunc("/bookings/{id:[0-9]+}/payment", api.BookingPaymentHandler(services.PaymentService)).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id:[0-9]+}/bookings", api.RequireAdmin(services.Users, api.UserBookingsHandler(services.BookingService))).Methods(http.MethodGet)

	v1.HandleFunc("/payments", utils.AllowedContentTypes(
		api.RecordPaymentHandler(services.PaymentService),
		"application/json",
	)).Methods(http.MethodPost)

	v1.HandleFunc("/cars", api.CarsHandler(services.Catalog)).Methods(http.MethodGet)
	v1.HandleFunc("/cars/{id:[0-9]+}", api.CarHandler(services.Catalog)).Methods(http.MethodGet)

	v1.HandleFunc("/auth/forgot-password", utils.AllowedContentTypes(
		api.ForgotPasswordHandler(services.OtpStore, services.Users),
		"application/json",
	)).Methods(http.MethodPost)
	v1.HandleFunc("/auth/verify-otp", utils.AllowedContentTypes(
		api.VerifyOtpHandler(services.OtpStore),
		"application/json",
	)).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type", "Accept", "X-User-ID"},
	}).Handler(router)
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		log.Println("Starting graceful shutdown")
		return a.Shutdown(ctx)
	case <-ctx.Done():
		return a.Shutdown(ctx)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.db != nil {
		a.db.Close()
	}

	return nil
}

// hmacVerifier checks the gateway webhook signature: hex HMAC-SHA256 of
// "orderID|paymentID" under the shared secret.
func hmacVerifier(secret string) ports.SignatureVerifierFunc {
	return func(orderID, paymentID, signature string) bool {
		if secret == "" || signature == "" {
			return false
		}
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(orderID + "|" + paymentID))
		expected := hex.EncodeToString(mac.Sum(nil))
		return hmac.Equal([]byte(expected), []byte(signature))
	}
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := NewApp(cfg)
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
