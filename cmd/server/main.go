package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"salon-backend/internal/auth"
	"salon-backend/internal/cache"
	"salon-backend/internal/calendar"
	"salon-backend/internal/config"
	"salon-backend/internal/database"
	"salon-backend/internal/db"
	"salon-backend/internal/googleauth"
	"salon-backend/internal/handlers"
	"salon-backend/internal/health"
	h "salon-backend/internal/http"
	"salon-backend/internal/mail"
	"salon-backend/internal/middleware"
	"salon-backend/internal/monitoring"
	"salon-backend/internal/repositories"
	"salon-backend/internal/services"
	"salon-backend/internal/storage"
)

// buildCalendarProvider wires the Google client when credentials exist.
// Without them every provider call fails with ErrNotConfigured, which the
// registry downgrades to fallback calendar ids.
func buildCalendarProvider(cfg *config.Config) (calendar.Provider, *mail.Sender) {
	if cfg.Google.ClientEmail == "" || cfg.Google.PrivateKey == "" {
		log.Println("[Calendar] Google credentials not configured; calendar integration disabled")
		return calendar.NewDisabledProvider(), nil
	}

	calTokens, err := googleauth.NewTokenSource(cfg.Google.ClientEmail, cfg.Google.PrivateKey, "", calendar.Scopes)
	if err != nil {
		log.Printf("[Calendar] Invalid Google credentials: %v; calendar integration disabled", err)
		return calendar.NewDisabledProvider(), nil
	}
	provider := calendar.NewGoogleClient(calTokens)

	var mailer *mail.Sender
	if cfg.Google.CalendarOwner != "" {
		mailTokens, err := googleauth.NewTokenSource(
			cfg.Google.ClientEmail, cfg.Google.PrivateKey,
			cfg.Google.CalendarOwner, []string{mail.GmailScope})
		if err != nil {
			log.Printf("[Mail] Failed to build Gmail token source: %v", err)
		} else {
			mailer = mail.NewSender(mailTokens, cfg.Google.CalendarOwner)
		}
	}
	return provider, mailer
}

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; a miss just means slower calendar lookups
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	accountRepo := repositories.NewAccountRepository(pool)
	branchRepo := repositories.NewBranchRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	serviceRepo := repositories.NewServiceRepository(pool)
	otcProductRepo := repositories.NewOTCProductRepository(pool)
	servicesProductRepo := repositories.NewServicesProductRepository(pool)
	bookingRepo := repositories.NewBookingRepository(pool)
	usedQuantityRepo := repositories.NewUsedQuantityRepository(pool)
	branchCalendarRepo := repositories.NewBranchCalendarRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)

	// Calendar subsystem
	provider, mailer := buildCalendarProvider(cfg)
	tracker := calendar.NewTracker(provider, accountRepo)
	registry := calendar.NewRegistry(provider, branchCalendarRepo, calendar.NewIDCache(), cfg.Google.TimeZone)
	registry.SetSharer(tracker)

	// Monitoring dashboard server with the live domain-event feed
	monitor := monitoring.NewServer(pool, cfg.Server.MonitoringPort)
	go monitor.Start()

	// Export bucket (optional)
	bucket, err := storage.NewBucket(ctx, cfg)
	if err != nil {
		log.Printf("[Export] Bucket unavailable: %v", err)
	}

	// Services
	inventoryService := services.NewInventoryService(usedQuantityRepo, otcProductRepo, servicesProductRepo)
	bookingService := services.NewBookingService(
		bookingRepo, clientRepo, serviceRepo, branchRepo,
		registry, tracker, provider, mailer, monitor,
	)
	transactionService := services.NewTransactionService(
		pool, transactionRepo, serviceRepo, inventoryService, monitor,
		otcProductRepo, servicesProductRepo,
	)
	receiptService := services.NewReceiptService(transactionRepo, branchRepo)
	paymentService := services.NewPaymentService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret,
		paymentRepo, transactionRepo,
	)
	var exportBucket services.ObjectStore
	if bucket != nil {
		exportBucket = bucket
	}
	exportService := services.NewExportService(usedQuantityRepo, exportBucket)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountRepo, jwtManager)
	accountHandler := handlers.NewAccountHandler(accountRepo)
	branchHandler := handlers.NewBranchHandler(branchRepo, registry)
	clientHandler := handlers.NewClientHandler(clientRepo)
	serviceHandler := handlers.NewServiceHandler(serviceRepo)
	otcProductHandler := handlers.NewProductHandler(otcProductRepo, inventoryService)
	servicesProductHandler := handlers.NewProductHandler(servicesProductRepo, inventoryService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, receiptService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	calendarHandler := handlers.NewCalendarHandler(registry, tracker, branchRepo, accountRepo, branchCalendarRepo)
	usageHandler := handlers.NewUsageHandler(inventoryService, exportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, accountRepo)

	router := h.NewRouter(
		authHandler, accountHandler, branchHandler, clientHandler,
		serviceHandler, otcProductHandler, servicesProductHandler,
		bookingHandler, transactionHandler, paymentHandler,
		calendarHandler, usageHandler, healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.NewCORS(cfg)(router))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Salon backend running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
