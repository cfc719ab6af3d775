package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (transaction_id, order_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, p.TransactionID, p.OrderID, p.Amount, models.PaymentStatusPending).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	p.Status = models.PaymentStatusPending
	return nil
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	query := `
		SELECT id, transaction_id, order_id, payment_id, amount, status,
		       COALESCE(failure_reason, ''), created_at, completed_at
		FROM payments WHERE order_id = $1
	`
	var p models.Payment
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&p.ID, &p.TransactionID, &p.OrderID, &p.PaymentID, &p.Amount, &p.Status,
		&p.FailureReason, &p.CreatedAt, &p.CompletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) MarkSuccess(ctx context.Context, orderID, paymentID string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET status = $1, payment_id = $2, completed_at = NOW()
		WHERE order_id = $3
	`, models.PaymentStatusSuccess, paymentID, orderID)
	return err
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET status = $1, failure_reason = $2, completed_at = NOW()
		WHERE order_id = $3
	`, models.PaymentStatusFailed, reason, orderID)
	return err
}
