package calendar

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"salon-backend/internal/models"
)

type fakeProvider struct {
	mu        sync.Mutex
	calendars []Calendar
	creates   int
	fail      bool
	aclGrants []string // "calendarID/email/role"
}

func (f *fakeProvider) ListCalendars(ctx context.Context) ([]Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("provider down")
	}
	return append([]Calendar(nil), f.calendars...), nil
}

func (f *fakeProvider) CreateCalendar(ctx context.Context, summary, description, timeZone string) (*Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("provider down")
	}
	f.creates++
	cal := Calendar{ID: "cal-" + summary, Summary: summary, Description: description, TimeZone: timeZone}
	f.calendars = append(f.calendars, cal)
	return &cal, nil
}

func (f *fakeProvider) RenameCalendar(ctx context.Context, calendarID, summary string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider down")
	}
	for i := range f.calendars {
		if f.calendars[i].ID == calendarID {
			f.calendars[i].Summary = summary
			return nil
		}
	}
	return errors.New("calendar not found")
}

func (f *fakeProvider) DeleteCalendar(ctx context.Context, calendarID string) error { return nil }

func (f *fakeProvider) InsertEvent(ctx context.Context, calendarID string, ev *Event) (*Event, error) {
	if f.fail {
		return nil, errors.New("provider down")
	}
	out := *ev
	out.ID = "event-1"
	out.HTMLLink = "https://calendar.example/event-1"
	return &out, nil
}

func (f *fakeProvider) InsertACL(ctx context.Context, calendarID, email, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("provider down")
	}
	f.aclGrants = append(f.aclGrants, calendarID+"/"+email+"/"+role)
	return nil
}

type fakeCalendarStore struct {
	byBranch map[int]*models.BranchCalendar
	failGet  bool
}

func newFakeCalendarStore() *fakeCalendarStore {
	return &fakeCalendarStore{byBranch: make(map[int]*models.BranchCalendar)}
}

func (s *fakeCalendarStore) Upsert(ctx context.Context, bc *models.BranchCalendar) error {
	copied := *bc
	s.byBranch[bc.BranchID] = &copied
	return nil
}

func (s *fakeCalendarStore) GetByBranchID(ctx context.Context, branchID int) (*models.BranchCalendar, error) {
	if s.failGet {
		return nil, errors.New("store down")
	}
	bc, ok := s.byBranch[branchID]
	if !ok {
		return nil, nil
	}
	copied := *bc
	return &copied, nil
}

func newTestRegistry(p Provider, s CalendarStore) *Registry {
	return NewRegistry(p, s, NewIDCache(), "Asia/Manila")
}

func TestGetOrCreateCalendar_CreatesOnce(t *testing.T) {
	provider := &fakeProvider{}
	store := newFakeCalendarStore()
	r := newTestRegistry(provider, store)

	ctx := context.Background()
	first := r.GetOrCreateCalendar(ctx, "Makati Salon", 1)
	if first == "" {
		t.Fatal("expected a calendar id")
	}

	for i := 0; i < 5; i++ {
		if got := r.GetOrCreateCalendar(ctx, "Makati Salon", 1); got != first {
			t.Errorf("call %d returned %q, want %q", i, got, first)
		}
	}
	if provider.creates != 1 {
		t.Errorf("expected exactly 1 provider create, got %d", provider.creates)
	}
}

func TestGetOrCreateCalendar_PersistsMapping(t *testing.T) {
	provider := &fakeProvider{}
	store := newFakeCalendarStore()
	r := newTestRegistry(provider, store)

	id := r.GetOrCreateCalendar(context.Background(), "Quezon City", 7)

	bc := store.byBranch[7]
	if bc == nil {
		t.Fatal("expected mapping to be persisted")
	}
	if bc.CalendarID != id {
		t.Errorf("persisted calendar id %q, want %q", bc.CalendarID, id)
	}
	if bc.BranchName != "Quezon City" {
		t.Errorf("persisted branch name %q, want %q", bc.BranchName, "Quezon City")
	}
}

func TestGetOrCreateCalendar_AdoptsTitleMatch(t *testing.T) {
	provider := &fakeProvider{
		calendars: []Calendar{
			{ID: "existing-1", Summary: "Makati Salon - Bookings Calendar"},
			{ID: "other", Summary: "Holidays"},
		},
	}
	store := newFakeCalendarStore()
	r := newTestRegistry(provider, store)

	id := r.GetOrCreateCalendar(context.Background(), "Makati Salon", 1)
	if id != "existing-1" {
		t.Errorf("expected adoption of existing-1, got %q", id)
	}
	if provider.creates != 0 {
		t.Errorf("expected no creates, got %d", provider.creates)
	}
}

func TestGetOrCreateCalendar_AdoptsLooseTitleMatch(t *testing.T) {
	provider := &fakeProvider{
		calendars: []Calendar{
			{ID: "loose-1", Summary: "Booking schedule for Cebu"},
		},
	}
	r := newTestRegistry(provider, newFakeCalendarStore())

	if id := r.GetOrCreateCalendar(context.Background(), "Cebu", 2); id != "loose-1" {
		t.Errorf("expected loose-1, got %q", id)
	}
}

func TestGetOrCreateCalendar_FallbackOnProviderFailure(t *testing.T) {
	provider := &fakeProvider{fail: true}
	r := newTestRegistry(provider, newFakeCalendarStore())

	id := r.GetOrCreateCalendar(context.Background(), "Makati Salon", 1)
	if !strings.HasPrefix(id, "fallback-") {
		t.Errorf("expected fallback id, got %q", id)
	}
	if id != FallbackCalendarID("Makati Salon") {
		t.Errorf("fallback id not deterministic: %q vs %q", id, FallbackCalendarID("Makati Salon"))
	}
}

func TestGetOrCreateCalendar_UsesDurableMapping(t *testing.T) {
	store := newFakeCalendarStore()
	store.byBranch[3] = &models.BranchCalendar{
		BranchID:   3,
		BranchName: "Pasig",
		CalendarID: "durable-cal",
	}
	provider := &fakeProvider{}
	r := newTestRegistry(provider, store)

	if id := r.GetOrCreateCalendar(context.Background(), "Pasig", 3); id != "durable-cal" {
		t.Errorf("expected durable-cal, got %q", id)
	}
	if provider.creates != 0 {
		t.Errorf("expected no provider creates, got %d", provider.creates)
	}
}

func TestRenameCalendar_KeepsCalendarID(t *testing.T) {
	provider := &fakeProvider{}
	store := newFakeCalendarStore()
	r := newTestRegistry(provider, store)

	ctx := context.Background()
	id := r.GetOrCreateCalendar(ctx, "Old Name", 4)

	if err := r.RenameCalendar(ctx, 4, "New Name"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	bc := store.byBranch[4]
	if bc.CalendarID != id {
		t.Errorf("calendar id changed on rename: %q -> %q", id, bc.CalendarID)
	}
	if bc.CalendarName != "New Name - Bookings Calendar" {
		t.Errorf("unexpected calendar name %q", bc.CalendarName)
	}
	if got := r.GetOrCreateCalendar(ctx, "New Name", 4); got != id {
		t.Errorf("lookup under new name returned %q, want %q", got, id)
	}
}

func TestSanitizeBranchName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Makati Salon", "Makati Salon"},
		{"  Makati  ", "Makati"},
		{"Café & Spa!", "Caf  Spa"},
		{"Branch-01", "Branch-01"},
	}
	for _, c := range cases {
		if got := SanitizeBranchName(c.in); got != c.want {
			t.Errorf("SanitizeBranchName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFallbackCalendarID_Deterministic(t *testing.T) {
	a := FallbackCalendarID("Makati Salon")
	b := FallbackCalendarID("Makati Salon")
	if a != b {
		t.Errorf("fallback ids differ: %q vs %q", a, b)
	}
	if a == FallbackCalendarID("Cebu") {
		t.Error("different branches produced the same fallback id")
	}
}

func TestIDCache(t *testing.T) {
	c := NewIDCache()
	if _, ok := c.Get("x"); ok {
		t.Error("expected miss on empty cache")
	}
	c.Put("x", "cal-1")
	if id, ok := c.Get("x"); !ok || id != "cal-1" {
		t.Errorf("got (%q, %v), want (cal-1, true)", id, ok)
	}
	c.Invalidate("x")
	if _, ok := c.Get("x"); ok {
		t.Error("expected miss after invalidate")
	}
}
