package models

import "time"

// Service is a bookable salon treatment. Plain services carry no stock; the
// back-bar products they consume are tracked separately as services_products.
type Service struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	BranchID        *int      `json:"branch_id"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateServiceRequest is used when adding a service to the menu
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	BranchID        *int    `json:"branch_id"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}
