package models

import "time"

// Branch is a physical salon location; the tenant-partition key for nearly
// all data.
type Branch struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	TimeZone  string    `json:"time_zone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBranchRequest is used when registering a new branch
type CreateBranchRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	TimeZone string `json:"time_zone"`
}

// UpdateBranchRequest is used for branch edits. A rename flows through to
// the branch's calendar title but never to its calendar id.
type UpdateBranchRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	TimeZone string `json:"time_zone"`
	IsActive *bool  `json:"is_active"`
}
