package models

import "time"

// Online payment statuses
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Payment is an online payment order raised against a POS transaction
type Payment struct {
	ID            int        `json:"id"`
	TransactionID int        `json:"transaction_id"`
	OrderID       string     `json:"order_id"`
	PaymentID     *string    `json:"payment_id,omitempty"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// CreatePaymentOrderRequest is the body of POST /api/payments/order
type CreatePaymentOrderRequest struct {
	TransactionID int `json:"transaction_id"`
}

// VerifyPaymentRequest carries the checkout callback fields whose signature
// is verified before the payment is marked successful
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
