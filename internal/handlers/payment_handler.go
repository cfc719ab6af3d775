package handlers

import (
	"errors"
	"io"
	"net/http"

	"salon-backend/internal/models"
	"salon-backend/internal/services"
	"salon-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentOrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentsConfigured):
			utils.Error(w, http.StatusServiceUnavailable, "Online payments are not configured")
		case errors.Is(err, services.ErrTransactionNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidTransaction):
			utils.Error(w, http.StatusBadRequest, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.Service.Verify(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			utils.Error(w, http.StatusBadRequest, "Invalid payment signature")
		case errors.Is(err, services.ErrPaymentNotFound):
			utils.Error(w, http.StatusNotFound, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

// Webhook receives Razorpay server-to-server notifications
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if err := h.Service.HandleWebhook(r.Context(), body, signature); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			utils.Error(w, http.StatusBadRequest, "Invalid webhook signature")
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status tells the frontend whether online payments are available
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": h.Service.Enabled()})
}
