package calendar

import (
	"context"
	"log"

	"salon-backend/internal/metrics"
	"salon-backend/internal/models"
)

// RoleAccess maps staff roles to the calendar ACL role they receive. Admins
// own branch calendars outright; branch staff can manage events; cashiers
// only need to see the schedule.
var RoleAccess = map[string]string{
	models.RoleMasterAdmin: ACLRoleOwner,
	models.RoleSuperAdmin:  ACLRoleOwner,
	models.RoleBranch:      ACLRoleWriter,
	models.RoleCashier:     ACLRoleReader,
}

// AccountStore is the slice of account persistence the tracker needs.
type AccountStore interface {
	ListUnshared(ctx context.Context, branchID *int) ([]*models.Account, error)
	ListMasterAdmins(ctx context.Context) ([]*models.Account, error)
	MarkCalendarShared(ctx context.Context, accountID int, calendarID string) error
}

// ShareResult reports one EnsureShared pass.
type ShareResult struct {
	SharedCount       int      `json:"shared_count"`
	NewlySharedEmails []string `json:"newly_shared_emails"`
	FailedShares      []string `json:"failed_shares,omitempty"`
	Skipped           bool     `json:"skipped"`
}

// Tracker grants staff accounts ACL access to branch calendars and records
// which accounts already have it. The durable flag is an optimization, not a
// correctness boundary: re-sharing an already shared calendar is a no-op at
// the provider, so a stale flag costs one redundant API call at worst.
type Tracker struct {
	provider Provider
	accounts AccountStore
}

func NewTracker(provider Provider, accounts AccountStore) *Tracker {
	return &Tracker{provider: provider, accounts: accounts}
}

// EnsureShared grants calendar access to every active account that should
// have it but is not yet flagged as shared. branchID nil means the calendar
// is admin-scoped and only master/super admins are considered; otherwise
// admins plus that branch's staff.
//
// Individual ACL failures are collected, not fatal: one broken email address
// must not block the rest of the staff.
func (t *Tracker) EnsureShared(ctx context.Context, calendarID string, branchID *int) (*ShareResult, error) {
	accounts, err := t.accounts.ListUnshared(ctx, branchID)
	if err != nil {
		return nil, err
	}

	result := &ShareResult{NewlySharedEmails: []string{}}
	if len(accounts) == 0 {
		result.Skipped = true
		return result, nil
	}

	for _, a := range accounts {
		role, ok := RoleAccess[a.Role]
		if !ok {
			continue
		}
		if err := t.provider.InsertACL(ctx, calendarID, a.Email, role); err != nil {
			metrics.CalendarAPIErrorsTotal.WithLabelValues("acl.insert").Inc()
			log.Printf("[CalendarSharing] Failed to share calendar %s with %s: %v", calendarID, a.Email, err)
			result.FailedShares = append(result.FailedShares, a.Email)
			continue
		}

		result.SharedCount++
		result.NewlySharedEmails = append(result.NewlySharedEmails, a.Email)
		metrics.CalendarSharesTotal.Inc()

		// The grant already happened; a failed flag write only means one
		// redundant re-share on the next pass
		if err := t.accounts.MarkCalendarShared(ctx, a.ID, calendarID); err != nil {
			log.Printf("[CalendarSharing] Failed to mark account %d as shared: %v", a.ID, err)
		}
	}
	return result, nil
}

// ShareWithMasterAdmins grants owner access to all master admins on a
// freshly created calendar. Runs best-effort during calendar provisioning,
// so failures are logged rather than returned.
func (t *Tracker) ShareWithMasterAdmins(ctx context.Context, calendarID string) {
	admins, err := t.accounts.ListMasterAdmins(ctx)
	if err != nil {
		log.Printf("[CalendarSharing] Failed to list master admins: %v", err)
		return
	}
	for _, a := range admins {
		if err := t.provider.InsertACL(ctx, calendarID, a.Email, ACLRoleOwner); err != nil {
			metrics.CalendarAPIErrorsTotal.WithLabelValues("acl.insert").Inc()
			log.Printf("[CalendarSharing] Failed to share new calendar %s with admin %s: %v", calendarID, a.Email, err)
			continue
		}
		metrics.CalendarSharesTotal.Inc()
		if err := t.accounts.MarkCalendarShared(ctx, a.ID, calendarID); err != nil {
			log.Printf("[CalendarSharing] Failed to mark admin %d as shared: %v", a.ID, err)
		}
	}
}
