package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

// ProductRepository serves one of the two stock-carrying product tables.
// otc_products and services_products share a schema, so a single repository
// parametrized by table keeps the ledger path identical for both.
type ProductRepository struct {
	DB       *pgxpool.Pool
	table    string
	itemType string
}

func NewOTCProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db, table: "otc_products", itemType: models.ItemTypeOTCProduct}
}

func NewServicesProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db, table: "services_products", itemType: models.ItemTypeServicesProduct}
}

// ItemType returns the ledger item_type this repository serves
func (r *ProductRepository) ItemType() string {
	return r.itemType
}

func (r *ProductRepository) Create(ctx context.Context, p *models.InventoryItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, branch_id, quantity, min_quantity, unit_value, total_value)
		VALUES ($1, $2, $3, $4, $5, $3 * $5)
		RETURNING id, total_value, created_at, updated_at
	`, r.table)
	err := r.DB.QueryRow(ctx, query, p.Name, p.BranchID, p.Quantity, p.MinQuantity, p.UnitValue).
		Scan(&p.ID, &p.TotalValue, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product in %s: %w", r.table, err)
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT id, name, branch_id, quantity, min_quantity, unit_value, total_value,
		       created_at, updated_at
		FROM %s WHERE id = $1
	`, r.table)
	var p models.InventoryItem
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.BranchID, &p.Quantity, &p.MinQuantity,
		&p.UnitValue, &p.TotalValue, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetForUpdate locks the product row inside tx for a read-modify-write
func (r *ProductRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int) (*models.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT id, name, branch_id, quantity, min_quantity, unit_value, total_value,
		       created_at, updated_at
		FROM %s WHERE id = $1 FOR UPDATE
	`, r.table)
	var p models.InventoryItem
	err := tx.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.BranchID, &p.Quantity, &p.MinQuantity,
		&p.UnitValue, &p.TotalValue, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, branchID *int) ([]*models.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT id, name, branch_id, quantity, min_quantity, unit_value, total_value,
		       created_at, updated_at
		FROM %s
		WHERE $1::int IS NULL OR branch_id = $1
		ORDER BY name
	`, r.table)
	rows, err := r.DB.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.InventoryItem
	for rows.Next() {
		var p models.InventoryItem
		if err := rows.Scan(
			&p.ID, &p.Name, &p.BranchID, &p.Quantity, &p.MinQuantity,
			&p.UnitValue, &p.TotalValue, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// ListLowStock returns items at or below their minimum quantity
func (r *ProductRepository) ListLowStock(ctx context.Context, branchID *int) ([]*models.InventoryItem, error) {
	query := fmt.Sprintf(`
		SELECT id, name, branch_id, quantity, min_quantity, unit_value, total_value,
		       created_at, updated_at
		FROM %s
		WHERE quantity <= min_quantity AND ($1::int IS NULL OR branch_id = $1)
		ORDER BY quantity
	`, r.table)
	rows, err := r.DB.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.InventoryItem
	for rows.Next() {
		var p models.InventoryItem
		if err := rows.Scan(
			&p.ID, &p.Name, &p.BranchID, &p.Quantity, &p.MinQuantity,
			&p.UnitValue, &p.TotalValue, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *models.InventoryItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, quantity = $2, min_quantity = $3, unit_value = $4,
		    total_value = $2 * $4, updated_at = NOW()
		WHERE id = $5
	`, r.table)
	_, err := r.DB.Exec(ctx, query, p.Name, p.Quantity, p.MinQuantity, p.UnitValue, p.ID)
	return err
}

// SetQuantity updates the live counter only (total_value follows)
func (r *ProductRepository) SetQuantity(ctx context.Context, id, quantity int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET quantity = $1, total_value = $1 * unit_value, updated_at = NOW()
		WHERE id = $2
	`, r.table)
	_, err := r.DB.Exec(ctx, query, quantity, id)
	return err
}

// SetQuantityTx is SetQuantity inside a caller-held transaction, used by
// transaction create/void so item counters move atomically with the ticket
func (r *ProductRepository) SetQuantityTx(ctx context.Context, tx pgx.Tx, id, quantity int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET quantity = $1, total_value = $1 * unit_value, updated_at = NOW()
		WHERE id = $2
	`, r.table)
	_, err := tx.Exec(ctx, query, quantity, id)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	return err
}
