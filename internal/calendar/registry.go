package calendar

import (
	"context"
	"fmt"
	"log"
	"strings"

	"salon-backend/internal/cache"
	"salon-backend/internal/metrics"
	"salon-backend/internal/models"
)

const (
	calendarTitleSuffix = " - Bookings Calendar"

	calendarDescription = "Appointment bookings for this salon branch. " +
		"Events are created automatically by the booking system; edits made " +
		"here are not synced back."
)

// CalendarStore persists the branch to calendar mapping
type CalendarStore interface {
	Upsert(ctx context.Context, bc *models.BranchCalendar) error
	GetByBranchID(ctx context.Context, branchID int) (*models.BranchCalendar, error)
}

// masterAdminSharer grants calendar access to master admins after a calendar
// is first created. Satisfied by *Tracker.
type masterAdminSharer interface {
	ShareWithMasterAdmins(ctx context.Context, calendarID string)
}

// Registry maps branches to external calendar resources, creating them on
// first use. Lookups go in-process cache -> Redis -> Postgres -> provider
// list scan; only then is a calendar created.
type Registry struct {
	provider Provider
	store    CalendarStore
	ids      *IDCache
	sharer   masterAdminSharer
	timeZone string
}

func NewRegistry(provider Provider, store CalendarStore, ids *IDCache, timeZone string) *Registry {
	return &Registry{
		provider: provider,
		store:    store,
		ids:      ids,
		timeZone: timeZone,
	}
}

// SetSharer wires the permission tracker for post-create sharing. Separate
// from the constructor because registry and tracker reference each other.
func (r *Registry) SetSharer(s masterAdminSharer) {
	r.sharer = s
}

// SanitizeBranchName strips everything but letters, digits, spaces and
// hyphens, and collapses the result's surrounding whitespace.
func SanitizeBranchName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == ' ', c == '-':
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// FallbackCalendarID derives a deterministic synthetic id from the branch
// name. It is not a real provider resource: event creation against it fails,
// which the booking orchestrator already downgrades, so provider outages
// never need special-casing at this layer.
func FallbackCalendarID(branchName string) string {
	slug := strings.ToLower(SanitizeBranchName(branchName))
	slug = strings.ReplaceAll(slug, " ", "-")
	return fmt.Sprintf("fallback-%s-salon-booking", slug)
}

// CalendarTitle is the provisioned title for a branch calendar
func CalendarTitle(branchName string) string {
	return SanitizeBranchName(branchName) + calendarTitleSuffix
}

// GetOrCreateCalendar resolves the calendar id for a branch, creating the
// calendar on first use. It always returns a usable-looking id: on provider
// failure the deterministic fallback id is returned and the error is only
// logged.
func (r *Registry) GetOrCreateCalendar(ctx context.Context, branchName string, branchID int) string {
	name := SanitizeBranchName(branchName)

	// Process-local cache: not safe across restarts, purely a hot-path skip
	if id, ok := r.ids.Get(name); ok {
		return id
	}

	if id, ok := cache.GetCachedCalendarID(ctx, name); ok {
		r.ids.Put(name, id)
		return id
	}

	// Durable mapping avoids re-scanning the provider's calendar list after
	// restarts (API quota)
	if bc, err := r.store.GetByBranchID(ctx, branchID); err != nil {
		log.Printf("[CalendarRegistry] Mapping lookup failed for branch %d: %v", branchID, err)
	} else if bc != nil {
		r.remember(ctx, name, bc.CalendarID)
		return bc.CalendarID
	}

	// Scan the provider's calendar list for an adoptable title match
	calendars, err := r.provider.ListCalendars(ctx)
	if err != nil {
		metrics.CalendarAPIErrorsTotal.WithLabelValues("calendarList.list").Inc()
		log.Printf("[CalendarRegistry] Calendar list failed for branch %q: %v", branchName, err)
		return FallbackCalendarID(branchName)
	}
	for _, cal := range calendars {
		if titleMatches(cal.Summary, name) {
			r.persist(ctx, branchID, name, cal.ID, cal.Summary)
			r.remember(ctx, name, cal.ID)
			return cal.ID
		}
	}

	// Nothing to adopt: create the calendar
	created, err := r.provider.CreateCalendar(ctx, CalendarTitle(branchName), calendarDescription, r.timeZone)
	if err != nil {
		metrics.CalendarAPIErrorsTotal.WithLabelValues("calendars.insert").Inc()
		log.Printf("[CalendarRegistry] Calendar create failed for branch %q: %v", branchName, err)
		return FallbackCalendarID(branchName)
	}

	r.persist(ctx, branchID, name, created.ID, created.Summary)
	r.remember(ctx, name, created.ID)

	if r.sharer != nil {
		r.sharer.ShareWithMasterAdmins(ctx, created.ID)
	}
	return created.ID
}

// RenameCalendar updates the calendar title after a branch rename. The
// calendar id never changes; only the title and stored calendar_name move.
func (r *Registry) RenameCalendar(ctx context.Context, branchID int, newBranchName string) error {
	bc, err := r.store.GetByBranchID(ctx, branchID)
	if err != nil {
		return err
	}
	if bc == nil {
		return nil // branch has no calendar yet; nothing to rename
	}

	title := CalendarTitle(newBranchName)
	if err := r.provider.RenameCalendar(ctx, bc.CalendarID, title); err != nil {
		metrics.CalendarAPIErrorsTotal.WithLabelValues("calendars.patch").Inc()
		return err
	}

	// Old sanitized name no longer resolves; drop both cache layers
	oldName := SanitizeBranchName(bc.BranchName)
	r.ids.Invalidate(oldName)
	cache.InvalidateCalendarID(ctx, oldName)

	bc.BranchName = newBranchName
	bc.CalendarName = title
	if err := r.store.Upsert(ctx, bc); err != nil {
		log.Printf("[CalendarRegistry] Failed to persist rename for branch %d: %v", branchID, err)
	}
	r.remember(ctx, SanitizeBranchName(newBranchName), bc.CalendarID)
	return nil
}

func titleMatches(summary, sanitizedName string) bool {
	if summary == sanitizedName+calendarTitleSuffix {
		return true
	}
	return strings.Contains(summary, sanitizedName) && strings.Contains(summary, "Booking")
}

func (r *Registry) remember(ctx context.Context, sanitizedName, calendarID string) {
	r.ids.Put(sanitizedName, calendarID)
	cache.CacheCalendarID(ctx, sanitizedName, calendarID)
}

// persist stores the mapping durably. Storage failure is logged, never
// propagated: the calendar itself exists and the id is already in hand.
func (r *Registry) persist(ctx context.Context, branchID int, branchName, calendarID, calendarName string) {
	bc := &models.BranchCalendar{
		BranchID:     branchID,
		BranchName:   branchName,
		CalendarID:   calendarID,
		CalendarName: calendarName,
	}
	if err := r.store.Upsert(ctx, bc); err != nil {
		log.Printf("[CalendarRegistry] Failed to persist calendar mapping for branch %d: %v", branchID, err)
	}
}
