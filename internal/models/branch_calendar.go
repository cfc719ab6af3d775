package models

import "time"

// BranchCalendar maps a branch to its external calendar resource. One row
// per branch; CalendarID is immutable once set, renames update CalendarName
// only.
type BranchCalendar struct {
	ID           int       `json:"id"`
	BranchID     int       `json:"branch_id"`
	BranchName   string    `json:"branch_name"`
	CalendarID   string    `json:"calendar_id"`
	CalendarName string    `json:"calendar_name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
