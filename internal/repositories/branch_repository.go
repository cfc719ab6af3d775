package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

type BranchRepository struct {
	DB *pgxpool.Pool
}

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{DB: db}
}

func (r *BranchRepository) Create(ctx context.Context, b *models.Branch) error {
	query := `
		INSERT INTO branches (name, address, phone, time_zone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, b.Name, b.Address, b.Phone, b.TimeZone).
		Scan(&b.ID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *BranchRepository) Get(ctx context.Context, id int) (*models.Branch, error) {
	query := `
		SELECT id, name, address, phone, time_zone, is_active, created_at, updated_at
		FROM branches WHERE id = $1
	`
	var b models.Branch
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.Address, &b.Phone, &b.TimeZone,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) List(ctx context.Context) ([]*models.Branch, error) {
	query := `
		SELECT id, name, address, phone, time_zone, is_active, created_at, updated_at
		FROM branches ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*models.Branch
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Address, &b.Phone, &b.TimeZone,
			&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		branches = append(branches, &b)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) Update(ctx context.Context, b *models.Branch) error {
	query := `
		UPDATE branches
		SET name = $1, address = $2, phone = $3, time_zone = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.DB.Exec(ctx, query, b.Name, b.Address, b.Phone, b.TimeZone, b.IsActive, b.ID)
	return err
}

func (r *BranchRepository) Delete(ctx context.Context, id int) error {
	// Soft delete: branches are referenced everywhere
	_, err := r.DB.Exec(ctx,
		"UPDATE branches SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	return err
}
