package models

import "time"

// Account roles, ordered by privilege
const (
	RoleMasterAdmin = "master_admin"
	RoleSuperAdmin  = "super_admin"
	RoleBranch      = "branch"
	RoleCashier     = "cashier"
)

// Account is a staff login. IsCalendarShared is the durable record of "this
// account has already been granted access to its relevant calendar"; it is
// flipped true after a successful share and only ever reset by the explicit
// maintenance endpoint.
type Account struct {
	ID               int        `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	PasswordHash     string     `json:"-"`
	Role             string     `json:"role"`
	BranchID         *int       `json:"branch_id"`
	IsActive         bool       `json:"is_active"`
	IsCalendarShared bool       `json:"is_calendar_shared"`
	CalendarSharedAt *time.Time `json:"calendar_shared_at,omitempty"`
	SharedCalendarID *string    `json:"shared_calendar_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateAccountRequest is used when registering staff
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	BranchID *int   `json:"branch_id"`
}

// LoginRequest is the credential payload for /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token plus the account snapshot
type LoginResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}

// ValidRole reports whether role is one of the four known roles
func ValidRole(role string) bool {
	switch role {
	case RoleMasterAdmin, RoleSuperAdmin, RoleBranch, RoleCashier:
		return true
	}
	return false
}
