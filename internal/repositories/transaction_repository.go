package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

// CreateTx inserts the transaction and its line items inside a caller-held
// pgx transaction, so the ticket commits atomically with the item counter
// decrements the caller performs alongside it.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (branch_id, client_id, cashier_account_id,
			total_amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRow(ctx, query,
		t.BranchID, t.ClientID, t.CashierAccountID,
		t.TotalAmount, t.PaymentMethod, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	for _, item := range t.Items {
		item.TransactionID = t.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO transaction_items (transaction_id, item_id, item_type,
				item_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, item.TransactionID, item.ItemID, item.ItemType,
			item.ItemName, item.Quantity, item.UnitPrice, item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create transaction item: %w", err)
		}
	}
	return nil
}

func (r *TransactionRepository) Get(ctx context.Context, id int) (*models.Transaction, error) {
	query := `
		SELECT id, branch_id, client_id, cashier_account_id, total_amount,
		       payment_method, status, voided_at, COALESCE(void_reason, ''),
		       created_at, updated_at
		FROM transactions WHERE id = $1
	`
	var t models.Transaction
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.BranchID, &t.ClientID, &t.CashierAccountID, &t.TotalAmount,
		&t.PaymentMethod, &t.Status, &t.VoidedAt, &t.VoidReason,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

func (r *TransactionRepository) listItems(ctx context.Context, transactionID int) ([]*models.TransactionItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, transaction_id, item_id, item_type, item_name, quantity,
		       unit_price, line_total
		FROM transaction_items WHERE transaction_id = $1 ORDER BY id
	`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.TransactionItem
	for rows.Next() {
		var i models.TransactionItem
		if err := rows.Scan(
			&i.ID, &i.TransactionID, &i.ItemID, &i.ItemType, &i.ItemName,
			&i.Quantity, &i.UnitPrice, &i.LineTotal,
		); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}

func (r *TransactionRepository) List(ctx context.Context, branchID *int, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, branch_id, client_id, cashier_account_id, total_amount,
		       payment_method, status, voided_at, COALESCE(void_reason, ''),
		       created_at, updated_at
		FROM transactions
		WHERE $1::int IS NULL OR branch_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.DB.Query(ctx, query, branchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.BranchID, &t.ClientID, &t.CashierAccountID, &t.TotalAmount,
			&t.PaymentMethod, &t.Status, &t.VoidedAt, &t.VoidReason,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}

// MarkVoidedTx flips the ticket to voided inside a caller-held transaction
func (r *TransactionRepository) MarkVoidedTx(ctx context.Context, tx pgx.Tx, id int, reason string) error {
	_, err := tx.Exec(ctx, `
		UPDATE transactions
		SET status = 'voided', voided_at = NOW(), void_reason = $1, updated_at = NOW()
		WHERE id = $2
	`, reason, id)
	return err
}
