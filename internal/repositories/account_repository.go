package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

type AccountRepository struct {
	DB *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `
	id, email, COALESCE(name, '') AS name, password_hash, role, branch_id,
	is_active, is_calendar_shared, calendar_shared_at, shared_calendar_id,
	created_at, updated_at
`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.BranchID,
		&a.IsActive, &a.IsCalendarShared, &a.CalendarSharedAt, &a.SharedCalendarID,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (email, name, password_hash, role, branch_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, is_calendar_shared, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, a.Email, a.Name, a.PasswordHash, a.Role, a.BranchID).
		Scan(&a.ID, &a.IsActive, &a.IsCalendarShared, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, id int) (*models.Account, error) {
	a, err := scanAccount(r.DB.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := scanAccount(r.DB.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email = $1", email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *AccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT "+accountColumns+" FROM accounts ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListUnshared returns active accounts still lacking calendar access for the
// given branch: master_admin and super_admin unconditionally, branch and
// cashier accounts scoped to branchID (all branches when branchID is nil).
func (r *AccountRepository) ListUnshared(ctx context.Context, branchID *int) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE is_active = TRUE
		  AND is_calendar_shared = FALSE
		  AND (role IN ('master_admin', 'super_admin')
		       OR ($1::int IS NULL OR branch_id = $1))
		ORDER BY role, email
	`
	rows, err := r.DB.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListMasterAdmins returns active master_admin accounts regardless of the
// shared flag (used right after a calendar is first created)
func (r *AccountRepository) ListMasterAdmins(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.DB.Query(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE role = 'master_admin' AND is_active = TRUE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// MarkCalendarShared flips the durable shared flag and stamps the grant
func (r *AccountRepository) MarkCalendarShared(ctx context.Context, accountID int, calendarID string) error {
	query := `
		UPDATE accounts
		SET is_calendar_shared = TRUE,
		    calendar_shared_at = NOW(),
		    shared_calendar_id = $1,
		    updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.DB.Exec(ctx, query, calendarID, accountID)
	return err
}

// ResetCalendarShared clears the shared flag for every account. Maintenance
// operation: forces a full re-share on the next EnsureShared pass.
func (r *AccountRepository) ResetCalendarShared(ctx context.Context) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE accounts
		SET is_calendar_shared = FALSE,
		    calendar_shared_at = NULL,
		    shared_calendar_id = NULL,
		    updated_at = NOW()
		WHERE is_calendar_shared = TRUE
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectAccounts(rows pgx.Rows) ([]*models.Account, error) {
	var accounts []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
