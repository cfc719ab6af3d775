package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO clients (name, phone, email, branch_id, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, c.Name, c.Phone, c.Email, c.BranchID, c.Notes).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *ClientRepository) Get(ctx context.Context, id int) (*models.Client, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), branch_id,
		       COALESCE(notes, ''), created_at, updated_at
		FROM clients WHERE id = $1
	`
	var c models.Client
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.BranchID,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context, branchID *int) ([]*models.Client, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), branch_id,
		       COALESCE(notes, ''), created_at, updated_at
		FROM clients
		WHERE $1::int IS NULL OR branch_id = $1
		ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email, &c.BranchID,
			&c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) SearchByPhone(ctx context.Context, phone string) ([]*models.Client, error) {
	query := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), branch_id,
		       COALESCE(notes, ''), created_at, updated_at
		FROM clients WHERE phone LIKE $1 || '%' ORDER BY name LIMIT 50
	`
	rows, err := r.DB.Query(ctx, query, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email, &c.BranchID,
			&c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, phone = $2, email = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.DB.Exec(ctx, query, c.Name, c.Phone, c.Email, c.Notes, c.ID)
	return err
}

func (r *ClientRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	return err
}
