package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

type ServiceRepository struct {
	DB *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{DB: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *models.Service) error {
	query := `
		INSERT INTO services (name, branch_id, price, duration_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, s.Name, s.BranchID, s.Price, s.DurationMinutes).
		Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *ServiceRepository) Get(ctx context.Context, id int) (*models.Service, error) {
	query := `
		SELECT id, name, branch_id, price, duration_minutes, is_active, created_at, updated_at
		FROM services WHERE id = $1
	`
	var s models.Service
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.BranchID, &s.Price, &s.DurationMinutes,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListByIDs resolves the service snapshot set for a booking
func (r *ServiceRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, name, branch_id, price, duration_minutes, is_active, created_at, updated_at
		FROM services WHERE id = ANY($1)
	`
	rows, err := r.DB.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServices(rows)
}

func (r *ServiceRepository) List(ctx context.Context, branchID *int) ([]*models.Service, error) {
	query := `
		SELECT id, name, branch_id, price, duration_minutes, is_active, created_at, updated_at
		FROM services
		WHERE $1::int IS NULL OR branch_id = $1
		ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServices(rows)
}

func (r *ServiceRepository) Update(ctx context.Context, s *models.Service) error {
	query := `
		UPDATE services
		SET name = $1, price = $2, duration_minutes = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.DB.Exec(ctx, query, s.Name, s.Price, s.DurationMinutes, s.IsActive, s.ID)
	return err
}

func (r *ServiceRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		"UPDATE services SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	return err
}

func collectServices(rows pgx.Rows) ([]*models.Service, error) {
	var services []*models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(
			&s.ID, &s.Name, &s.BranchID, &s.Price, &s.DurationMinutes,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		services = append(services, &s)
	}
	return services, rows.Err()
}
