package models

import "time"

// Booking statuses
const (
	BookingStatusScheduled   = "scheduled"
	BookingStatusConfirmed   = "confirmed"
	BookingStatusPending     = "pending"
	BookingStatusCancelled   = "cancelled"
	BookingStatusCompleted   = "completed"
	BookingStatusNoShow      = "no-show"
	BookingStatusRescheduled = "rescheduled"
)

// Booking is an appointment slot. Calendar fields are nil when the external
// calendar event could not be created; the booking stands on its own.
type Booking struct {
	ID                int       `json:"id"`
	ClientID          int       `json:"client_id"`
	BranchID          int       `json:"branch_id"`
	Date              string    `json:"date"` // YYYY-MM-DD
	Time              string    `json:"time"` // HH:mm or HH:mm:ss
	ServiceIDs        []int     `json:"service_ids"`
	Status            string    `json:"status"`
	Notes             string    `json:"notes"`
	CalendarEventID   *string   `json:"calendar_event_id"`
	CalendarID        *string   `json:"calendar_id"`
	CalendarEventLink *string   `json:"calendar_event_link"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateBookingRequest is the body of POST /api/bookings/per-branch
type CreateBookingRequest struct {
	ClientID   int    `json:"client_id"`
	BranchID   int    `json:"branch_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	ServiceIDs []int  `json:"service_ids"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// ValidBookingStatus reports whether status is one of the known states.
// Unknown statuses are still bookable; they just fall back to the default
// calendar color.
func ValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusScheduled, BookingStatusConfirmed, BookingStatusPending,
		BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow,
		BookingStatusRescheduled:
		return true
	}
	return false
}
