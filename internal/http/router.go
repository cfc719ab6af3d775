package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salon-backend/internal/handlers"
	"salon-backend/internal/middleware"
	"salon-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	accountHandler *handlers.AccountHandler,
	branchHandler *handlers.BranchHandler,
	clientHandler *handlers.ClientHandler,
	serviceHandler *handlers.ServiceHandler,
	otcProductHandler *handlers.ProductHandler,
	servicesProductHandler *handlers.ProductHandler,
	bookingHandler *handlers.BookingHandler,
	transactionHandler *handlers.TransactionHandler,
	paymentHandler *handlers.PaymentHandler,
	calendarHandler *handlers.CalendarHandler,
	usageHandler *handlers.UsageHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Razorpay posts here server-to-server; authenticated by signature
	r.HandleFunc("/api/payments/webhook", paymentHandler.Webhook).Methods("POST")

	adminOnly := authMiddleware.RequireAdmin

	// Signup is admin-only: staff accounts are provisioned, not self-served
	r.Handle("/auth/signup", adminOnly(http.HandlerFunc(authHandler.Signup))).Methods("POST")

	authAPI := r.PathPrefix("/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Accounts (admin)
	accountsAPI := r.PathPrefix("/api/accounts").Subrouter()
	accountsAPI.Use(authMiddleware.RequireRole(models.RoleMasterAdmin, models.RoleSuperAdmin))
	accountsAPI.HandleFunc("", accountHandler.List).Methods("GET")
	accountsAPI.HandleFunc("/{id}", accountHandler.Get).Methods("GET")

	// Branches
	branchesAPI := r.PathPrefix("/api/branches").Subrouter()
	branchesAPI.Use(authMiddleware.Authenticate)
	branchesAPI.HandleFunc("", branchHandler.List).Methods("GET")
	branchesAPI.HandleFunc("", adminOnly(http.HandlerFunc(branchHandler.Create)).ServeHTTP).Methods("POST")
	branchesAPI.HandleFunc("/{id}", branchHandler.Get).Methods("GET")
	branchesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(branchHandler.Update)).ServeHTTP).Methods("PUT")
	branchesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(branchHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Clients
	clientsAPI := r.PathPrefix("/api/clients").Subrouter()
	clientsAPI.Use(authMiddleware.Authenticate)
	clientsAPI.HandleFunc("", clientHandler.List).Methods("GET")
	clientsAPI.HandleFunc("", clientHandler.Create).Methods("POST")
	clientsAPI.HandleFunc("/{id}", clientHandler.Get).Methods("GET")
	clientsAPI.HandleFunc("/{id}", clientHandler.Update).Methods("PUT")
	clientsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(clientHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Services
	servicesAPI := r.PathPrefix("/api/services").Subrouter()
	servicesAPI.Use(authMiddleware.Authenticate)
	servicesAPI.HandleFunc("", serviceHandler.List).Methods("GET")
	servicesAPI.HandleFunc("", adminOnly(http.HandlerFunc(serviceHandler.Create)).ServeHTTP).Methods("POST")
	servicesAPI.HandleFunc("/{id}", serviceHandler.Get).Methods("GET")
	servicesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(serviceHandler.Update)).ServeHTTP).Methods("PUT")
	servicesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(serviceHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Products: one subrouter per stock table
	mountProducts(r, "/api/otc-products", otcProductHandler, authMiddleware)
	mountProducts(r, "/api/services-products", servicesProductHandler, authMiddleware)

	// Bookings
	bookingsAPI := r.PathPrefix("/api/bookings").Subrouter()
	bookingsAPI.Use(authMiddleware.Authenticate)
	bookingsAPI.HandleFunc("/per-branch", bookingHandler.Create).Methods("POST")
	bookingsAPI.HandleFunc("", bookingHandler.List).Methods("GET")
	bookingsAPI.HandleFunc("/{id}", bookingHandler.Get).Methods("GET")
	bookingsAPI.HandleFunc("/{id}/status", bookingHandler.UpdateStatus).Methods("PATCH")
	bookingsAPI.HandleFunc("/{id}/cancel", bookingHandler.Cancel).Methods("POST")

	// Transactions
	transactionsAPI := r.PathPrefix("/api/transactions").Subrouter()
	transactionsAPI.Use(authMiddleware.Authenticate)
	transactionsAPI.HandleFunc("", transactionHandler.List).Methods("GET")
	transactionsAPI.HandleFunc("", transactionHandler.Create).Methods("POST")
	transactionsAPI.HandleFunc("/{id}", transactionHandler.Get).Methods("GET")
	transactionsAPI.HandleFunc("/{id}/void", adminOnly(http.HandlerFunc(transactionHandler.Void)).ServeHTTP).Methods("POST")
	transactionsAPI.HandleFunc("/{id}/receipt", transactionHandler.DownloadReceipt).Methods("GET")

	// Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/status", paymentHandler.Status).Methods("GET")
	paymentsAPI.HandleFunc("/order", paymentHandler.CreateOrder).Methods("POST")
	paymentsAPI.HandleFunc("/verify", paymentHandler.Verify).Methods("POST")

	// Calendars (admin)
	calendarsAPI := r.PathPrefix("/api/calendars").Subrouter()
	calendarsAPI.Use(authMiddleware.RequireRole(models.RoleMasterAdmin, models.RoleSuperAdmin))
	calendarsAPI.HandleFunc("", calendarHandler.List).Methods("GET")
	calendarsAPI.HandleFunc("/provision", calendarHandler.Provision).Methods("POST")
	calendarsAPI.HandleFunc("/reset-shared", calendarHandler.ResetShared).Methods("POST")
	calendarsAPI.HandleFunc("/{branch_id}/share", calendarHandler.Share).Methods("POST")

	// Usage ledger
	usageAPI := r.PathPrefix("/api/used-quantities").Subrouter()
	usageAPI.Use(authMiddleware.Authenticate)
	usageAPI.HandleFunc("", usageHandler.List).Methods("GET")
	usageAPI.HandleFunc("/low-stock", usageHandler.LowStock).Methods("GET")
	usageAPI.HandleFunc("/export", adminOnly(http.HandlerFunc(usageHandler.ExportDaily)).ServeHTTP).Methods("POST")
	usageAPI.HandleFunc("/exports", adminOnly(http.HandlerFunc(usageHandler.ListExports)).ServeHTTP).Methods("GET")

	return r
}

func mountProducts(r *mux.Router, prefix string, h *handlers.ProductHandler, authMiddleware *middleware.AuthMiddleware) {
	api := r.PathPrefix(prefix).Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("", h.List).Methods("GET")
	api.HandleFunc("", h.Create).Methods("POST")
	api.HandleFunc("/{id}", h.Get).Methods("GET")
	api.HandleFunc("/{id}", h.Update).Methods("PUT")
	api.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	api.HandleFunc("/{id}/used-quantity", h.UpdateUsedQuantity).Methods("POST")
	api.HandleFunc("/{id}/used-quantity", h.History).Methods("GET")
}
