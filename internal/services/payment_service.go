package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"salon-backend/internal/models"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrPaymentsConfigured = errors.New("online payments not configured")
)

// PaymentStore persists payment orders and their outcomes
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	MarkSuccess(ctx context.Context, orderID, paymentID string) error
	MarkFailed(ctx context.Context, orderID, reason string) error
}

// PaymentOrderResponse gives the frontend what Razorpay checkout needs
type PaymentOrderResponse struct {
	OrderID     string  `json:"order_id"`
	Amount      int     `json:"amount"` // paise
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
	Transaction int     `json:"transaction_id"`
	TotalAmount float64 `json:"total_amount"`
}

// PaymentService raises Razorpay orders against POS tickets and verifies
// completed checkouts.
type PaymentService struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
	payments      PaymentStore
	transactions  TransactionStore
}

func NewPaymentService(keyID, keySecret, webhookSecret string, payments PaymentStore, transactions TransactionStore) *PaymentService {
	s := &PaymentService{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		payments:      payments,
		transactions:  transactions,
	}
	if keyID != "" && keySecret != "" {
		s.client = razorpay.NewClient(keyID, keySecret)
	}
	return s
}

// Enabled reports whether online payments can be taken
func (s *PaymentService) Enabled() bool {
	return s.client != nil
}

// CreateOrder raises a Razorpay order for an existing ticket's total
func (s *PaymentService) CreateOrder(ctx context.Context, req *models.CreatePaymentOrderRequest) (*PaymentOrderResponse, error) {
	if !s.Enabled() {
		return nil, ErrPaymentsConfigured
	}

	ticket, err := s.transactions.Get(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTransactionNotFound
	}
	if ticket.Status == models.TransactionStatusVoided {
		return nil, fmt.Errorf("%w: cannot pay a voided ticket", ErrInvalidTransaction)
	}

	amountPaise := int(ticket.TotalAmount * 100)
	order, err := s.client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("txn_%d_%d", ticket.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"transaction_id": ticket.ID,
			"branch_id":      ticket.BranchID,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	payment := &models.Payment{
		TransactionID: ticket.ID,
		OrderID:       orderID,
		Amount:        ticket.TotalAmount,
		Status:        models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to store payment: %w", err)
	}

	return &PaymentOrderResponse{
		OrderID:     orderID,
		Amount:      amountPaise,
		Currency:    "INR",
		KeyID:       s.keyID,
		Transaction: ticket.ID,
		TotalAmount: ticket.TotalAmount,
	}, nil
}

// Verify checks the checkout signature and settles the payment. Already
// settled payments return as-is, so checkout retries are idempotent.
func (s *PaymentService) Verify(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Payment, error) {
	if !s.verifySignature(req.OrderID, req.PaymentID, req.Signature) {
		if err := s.payments.MarkFailed(ctx, req.OrderID, "invalid signature"); err != nil {
			log.Printf("[Payment] Failed to mark order %s failed: %v", req.OrderID, err)
		}
		return nil, ErrInvalidSignature
	}

	payment, err := s.payments.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == models.PaymentStatusSuccess {
		return payment, nil
	}

	if err := s.payments.MarkSuccess(ctx, req.OrderID, req.PaymentID); err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}
	return s.payments.GetByOrderID(ctx, req.OrderID)
}

// HandleWebhook processes Razorpay webhook deliveries. The webhook backs up
// the browser callback: payment.captured settles, payment.failed records the
// failure. Signature mismatches are rejected.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.verifyWebhookSignature(body, signature) {
		return ErrInvalidSignature
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID               string `json:"id"`
					OrderID          string `json:"order_id"`
					ErrorDescription string `json:"error_description"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed webhook body: %w", err)
	}
	entity := event.Payload.Payment.Entity

	switch event.Event {
	case "payment.captured":
		payment, err := s.payments.GetByOrderID(ctx, entity.OrderID)
		if err != nil {
			return err
		}
		if payment == nil || payment.Status == models.PaymentStatusSuccess {
			return nil
		}
		return s.payments.MarkSuccess(ctx, entity.OrderID, entity.ID)
	case "payment.failed":
		reason := entity.ErrorDescription
		if reason == "" {
			reason = "payment failed"
		}
		return s.payments.MarkFailed(ctx, entity.OrderID, reason)
	default:
		log.Printf("[Payment] Ignoring webhook event %q", event.Event)
		return nil
	}
}

func (s *PaymentService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *PaymentService) verifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true // verification opt-in via config
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
