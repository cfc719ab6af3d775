package calendar

import (
	"context"
	"errors"
	"testing"

	"salon-backend/internal/models"
)

type fakeAccountStore struct {
	accounts []*models.Account
	markErr  error
}

func intp(v int) *int { return &v }

func (s *fakeAccountStore) ListUnshared(ctx context.Context, branchID *int) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range s.accounts {
		if a.IsCalendarShared || !a.IsActive {
			continue
		}
		if a.Role == models.RoleMasterAdmin || a.Role == models.RoleSuperAdmin {
			out = append(out, a)
			continue
		}
		if branchID == nil || (a.BranchID != nil && *a.BranchID == *branchID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeAccountStore) ListMasterAdmins(ctx context.Context) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range s.accounts {
		if a.Role == models.RoleMasterAdmin && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeAccountStore) MarkCalendarShared(ctx context.Context, accountID int, calendarID string) error {
	if s.markErr != nil {
		return s.markErr
	}
	for _, a := range s.accounts {
		if a.ID == accountID {
			a.IsCalendarShared = true
			a.SharedCalendarID = &calendarID
		}
	}
	return nil
}

func TestEnsureShared_GrantsByRole(t *testing.T) {
	accounts := &fakeAccountStore{accounts: []*models.Account{
		{ID: 1, Email: "owner@salon.ph", Role: models.RoleMasterAdmin, IsActive: true},
		{ID: 2, Email: "super@salon.ph", Role: models.RoleSuperAdmin, IsActive: true},
		{ID: 3, Email: "staff@salon.ph", Role: models.RoleBranch, BranchID: intp(1), IsActive: true},
		{ID: 4, Email: "till@salon.ph", Role: models.RoleCashier, BranchID: intp(1), IsActive: true},
	}}
	provider := &fakeProvider{}
	tracker := NewTracker(provider, accounts)

	result, err := tracker.EnsureShared(context.Background(), "cal-1", intp(1))
	if err != nil {
		t.Fatalf("EnsureShared failed: %v", err)
	}
	if result.SharedCount != 4 {
		t.Errorf("shared count = %d, want 4", result.SharedCount)
	}

	wantGrants := map[string]bool{
		"cal-1/owner@salon.ph/owner": true,
		"cal-1/super@salon.ph/owner": true,
		"cal-1/staff@salon.ph/writer": true,
		"cal-1/till@salon.ph/reader": true,
	}
	for _, grant := range provider.aclGrants {
		if !wantGrants[grant] {
			t.Errorf("unexpected grant %q", grant)
		}
		delete(wantGrants, grant)
	}
	for missing := range wantGrants {
		t.Errorf("missing grant %q", missing)
	}
}

func TestEnsureShared_NoDuplicateSharing(t *testing.T) {
	accounts := &fakeAccountStore{accounts: []*models.Account{
		{ID: 1, Email: "owner@salon.ph", Role: models.RoleMasterAdmin, IsActive: true},
		{ID: 3, Email: "staff@salon.ph", Role: models.RoleBranch, BranchID: intp(1), IsActive: true},
	}}
	provider := &fakeProvider{}
	tracker := NewTracker(provider, accounts)
	ctx := context.Background()

	if _, err := tracker.EnsureShared(ctx, "cal-1", intp(1)); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	grants := len(provider.aclGrants)

	result, err := tracker.EnsureShared(ctx, "cal-1", intp(1))
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if !result.Skipped {
		t.Error("expected second pass to be skipped")
	}
	if len(provider.aclGrants) != grants {
		t.Errorf("second pass issued %d extra grants", len(provider.aclGrants)-grants)
	}
}

func TestEnsureShared_CollectsFailures(t *testing.T) {
	accounts := &fakeAccountStore{accounts: []*models.Account{
		{ID: 1, Email: "good@salon.ph", Role: models.RoleMasterAdmin, IsActive: true},
		{ID: 2, Email: "bad@salon.ph", Role: models.RoleSuperAdmin, IsActive: true},
	}}
	provider := &failingACLProvider{failEmail: "bad@salon.ph"}
	tracker := NewTracker(provider, accounts)

	result, err := tracker.EnsureShared(context.Background(), "cal-1", nil)
	if err != nil {
		t.Fatalf("EnsureShared failed: %v", err)
	}
	if result.SharedCount != 1 {
		t.Errorf("shared count = %d, want 1", result.SharedCount)
	}
	if len(result.FailedShares) != 1 || result.FailedShares[0] != "bad@salon.ph" {
		t.Errorf("failed shares = %v, want [bad@salon.ph]", result.FailedShares)
	}
	// The failed account must stay unshared for the next pass
	if accounts.accounts[1].IsCalendarShared {
		t.Error("failed share was flagged as shared")
	}
}

func TestEnsureShared_MarkFailureDoesNotAbort(t *testing.T) {
	accounts := &fakeAccountStore{
		accounts: []*models.Account{
			{ID: 1, Email: "owner@salon.ph", Role: models.RoleMasterAdmin, IsActive: true},
		},
		markErr: errors.New("db down"),
	}
	provider := &fakeProvider{}
	tracker := NewTracker(provider, accounts)

	result, err := tracker.EnsureShared(context.Background(), "cal-1", nil)
	if err != nil {
		t.Fatalf("EnsureShared failed: %v", err)
	}
	if result.SharedCount != 1 {
		t.Errorf("shared count = %d, want 1; the grant itself succeeded", result.SharedCount)
	}
}

func TestShareWithMasterAdmins(t *testing.T) {
	accounts := &fakeAccountStore{accounts: []*models.Account{
		{ID: 1, Email: "owner@salon.ph", Role: models.RoleMasterAdmin, IsActive: true},
		{ID: 2, Email: "staff@salon.ph", Role: models.RoleBranch, BranchID: intp(1), IsActive: true},
	}}
	provider := &fakeProvider{}
	tracker := NewTracker(provider, accounts)

	tracker.ShareWithMasterAdmins(context.Background(), "cal-new")

	if len(provider.aclGrants) != 1 {
		t.Fatalf("expected 1 grant, got %d", len(provider.aclGrants))
	}
	if provider.aclGrants[0] != "cal-new/owner@salon.ph/owner" {
		t.Errorf("unexpected grant %q", provider.aclGrants[0])
	}
}

// failingACLProvider fails InsertACL for one email only
type failingACLProvider struct {
	fakeProvider
	failEmail string
}

func (f *failingACLProvider) InsertACL(ctx context.Context, calendarID, email, role string) error {
	if email == f.failEmail {
		return errors.New("acl rejected")
	}
	return f.fakeProvider.InsertACL(ctx, calendarID, email, role)
}
