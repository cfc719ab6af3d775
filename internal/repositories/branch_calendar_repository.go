package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

type BranchCalendarRepository struct {
	DB *pgxpool.Pool
}

func NewBranchCalendarRepository(db *pgxpool.Pool) *BranchCalendarRepository {
	return &BranchCalendarRepository{DB: db}
}

// Upsert persists a branch to calendar mapping. On a replay for an existing
// branch only branch_name and calendar_name are refreshed; calendar_id is
// immutable once set.
func (r *BranchCalendarRepository) Upsert(ctx context.Context, bc *models.BranchCalendar) error {
	query := `
		INSERT INTO branch_calendars (branch_id, branch_name, calendar_id, calendar_name, status)
		VALUES ($1, $2, $3, $4, 'active')
		ON CONFLICT (branch_id) DO UPDATE
		SET branch_name = EXCLUDED.branch_name,
		    calendar_name = EXCLUDED.calendar_name,
		    updated_at = NOW()
		RETURNING id, calendar_id, status, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, bc.BranchID, bc.BranchName, bc.CalendarID, bc.CalendarName).
		Scan(&bc.ID, &bc.CalendarID, &bc.Status, &bc.CreatedAt, &bc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert branch calendar: %w", err)
	}
	return nil
}

func (r *BranchCalendarRepository) GetByBranchID(ctx context.Context, branchID int) (*models.BranchCalendar, error) {
	query := `
		SELECT id, branch_id, branch_name, calendar_id, calendar_name, status,
		       created_at, updated_at
		FROM branch_calendars WHERE branch_id = $1
	`
	var bc models.BranchCalendar
	err := r.DB.QueryRow(ctx, query, branchID).Scan(
		&bc.ID, &bc.BranchID, &bc.BranchName, &bc.CalendarID, &bc.CalendarName,
		&bc.Status, &bc.CreatedAt, &bc.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &bc, nil
}

func (r *BranchCalendarRepository) List(ctx context.Context) ([]*models.BranchCalendar, error) {
	query := `
		SELECT id, branch_id, branch_name, calendar_id, calendar_name, status,
		       created_at, updated_at
		FROM branch_calendars ORDER BY branch_name
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calendars []*models.BranchCalendar
	for rows.Next() {
		var bc models.BranchCalendar
		if err := rows.Scan(
			&bc.ID, &bc.BranchID, &bc.BranchName, &bc.CalendarID, &bc.CalendarName,
			&bc.Status, &bc.CreatedAt, &bc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		calendars = append(calendars, &bc)
	}
	return calendars, rows.Err()
}
