package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

// UsedQuantityRepository is the append-only inventory usage ledger. Entries
// are inserted and read, never updated or deleted.
type UsedQuantityRepository struct {
	DB *pgxpool.Pool
}

func NewUsedQuantityRepository(db *pgxpool.Pool) *UsedQuantityRepository {
	return &UsedQuantityRepository{DB: db}
}

const usedQuantityColumns = `
	id, transaction_id, branch_id, item_id, COALESCE(item_name, ''), item_type,
	quantity_used, quantity_added, old_quantity, new_quantity, change_type,
	update_reason, date_created
`

func scanUsedQuantity(row pgx.Row) (*models.UsedQuantity, error) {
	var u models.UsedQuantity
	err := row.Scan(
		&u.ID, &u.TransactionID, &u.BranchID, &u.ItemID, &u.ItemName, &u.ItemType,
		&u.QuantityUsed, &u.QuantityAdded, &u.OldQuantity, &u.NewQuantity, &u.ChangeType,
		&u.UpdateReason, &u.DateCreated,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsedQuantityRepository) Create(ctx context.Context, u *models.UsedQuantity) error {
	query := `
		INSERT INTO used_quantities (transaction_id, branch_id, item_id, item_name,
			item_type, quantity_used, quantity_added, old_quantity, new_quantity,
			change_type, update_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, date_created
	`
	err := r.DB.QueryRow(ctx, query,
		u.TransactionID, u.BranchID, u.ItemID, u.ItemName,
		u.ItemType, u.QuantityUsed, u.QuantityAdded, u.OldQuantity, u.NewQuantity,
		u.ChangeType, u.UpdateReason,
	).Scan(&u.ID, &u.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// ListByItem returns the consumption history of one item, newest first
func (r *UsedQuantityRepository) ListByItem(ctx context.Context, itemType string, itemID, limit int) ([]*models.UsedQuantity, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + usedQuantityColumns + `
		FROM used_quantities
		WHERE item_type = $1 AND item_id = $2
		ORDER BY date_created DESC, id DESC
		LIMIT $3
	`
	rows, err := r.DB.Query(ctx, query, itemType, itemID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsedQuantities(rows)
}

// ListByTransaction returns the consumption/reversal pair set for a ticket
func (r *UsedQuantityRepository) ListByTransaction(ctx context.Context, transactionID int) ([]*models.UsedQuantity, error) {
	query := `
		SELECT ` + usedQuantityColumns + `
		FROM used_quantities
		WHERE transaction_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsedQuantities(rows)
}

// DailyAggregate sums ledger movement per item for one day (YYYY-MM-DD)
func (r *UsedQuantityRepository) DailyAggregate(ctx context.Context, day string) ([]*models.DailyUsage, error) {
	query := `
		SELECT to_char(date_created::date, 'YYYY-MM-DD') AS day,
		       item_id,
		       MAX(item_name) AS item_name,
		       item_type,
		       COALESCE(SUM(quantity_used), 0) AS total_used,
		       COALESCE(SUM(quantity_added), 0) AS total_added,
		       COUNT(*) AS entry_count,
		       (array_agg(new_quantity ORDER BY date_created DESC, id DESC))[1] AS final_quantity
		FROM used_quantities
		WHERE date_created::date = $1::date
		GROUP BY date_created::date, item_id, item_type
		ORDER BY item_type, item_id
	`
	rows, err := r.DB.Query(ctx, query, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []*models.DailyUsage
	for rows.Next() {
		var u models.DailyUsage
		if err := rows.Scan(
			&u.Day, &u.ItemID, &u.ItemName, &u.ItemType,
			&u.TotalUsed, &u.TotalAdded, &u.EntryCount, &u.FinalQuantity,
		); err != nil {
			return nil, err
		}
		usages = append(usages, &u)
	}
	return usages, rows.Err()
}

// NetMovement returns sum(quantity_used) and sum(quantity_added) for an item
// across the whole ledger, used to audit the live counter against the log
func (r *UsedQuantityRepository) NetMovement(ctx context.Context, itemType string, itemID int) (used, added int, err error) {
	query := `
		SELECT COALESCE(SUM(quantity_used), 0), COALESCE(SUM(quantity_added), 0)
		FROM used_quantities
		WHERE item_type = $1 AND item_id = $2
	`
	err = r.DB.QueryRow(ctx, query, itemType, itemID).Scan(&used, &added)
	return used, added, err
}

func collectUsedQuantities(rows pgx.Rows) ([]*models.UsedQuantity, error) {
	var entries []*models.UsedQuantity
	for rows.Next() {
		u, err := scanUsedQuantity(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, u)
	}
	return entries, rows.Err()
}
