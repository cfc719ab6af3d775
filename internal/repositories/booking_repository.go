package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon-backend/internal/models"
)

// ErrSlotTaken is returned by CreateIfAbsent when another live booking
// already occupies the (branch, date, time) slot.
var ErrSlotTaken = errors.New("booking slot already taken")

type BookingRepository struct {
	DB *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{DB: db}
}

const bookingColumns = `
	id, client_id, branch_id, to_char(booking_date, 'YYYY-MM-DD'), booking_time,
	service_ids, status, COALESCE(notes, ''), calendar_event_id, calendar_id,
	calendar_event_link, created_at, updated_at
`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.ClientID, &b.BranchID, &b.Date, &b.Time,
		&b.ServiceIDs, &b.Status, &b.Notes, &b.CalendarEventID, &b.CalendarID,
		&b.CalendarEventLink, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateIfAbsent inserts the booking with create-if-absent semantics: the
// partial unique index on (branch_id, booking_date, booking_time) closes the
// check-then-write race at the storage layer. Returns ErrSlotTaken on
// conflict.
func (r *BookingRepository) CreateIfAbsent(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (client_id, branch_id, booking_date, booking_time,
			service_ids, status, notes, calendar_event_id, calendar_id, calendar_event_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		b.ClientID, b.BranchID, b.Date, b.Time,
		b.ServiceIDs, b.Status, b.Notes,
		b.CalendarEventID, b.CalendarID, b.CalendarEventLink,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetBySlot returns the live booking occupying (branch, date, time), if any
func (r *BookingRepository) GetBySlot(ctx context.Context, branchID int, date, clock string) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE branch_id = $1 AND booking_date = $2 AND booking_time = $3
		  AND status <> 'cancelled'
	`
	b, err := scanBooking(r.DB.QueryRow(ctx, query, branchID, date, clock))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *BookingRepository) Get(ctx context.Context, id int) (*models.Booking, error) {
	b, err := scanBooking(r.DB.QueryRow(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *BookingRepository) List(ctx context.Context, branchID *int, date string) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1::int IS NULL OR branch_id = $1)
		  AND ($2 = '' OR booking_date = $2::date)
		ORDER BY booking_date DESC, booking_time
	`
	rows, err := r.DB.Query(ctx, query, branchID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.Exec(ctx,
		"UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return err
}
