package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"salon-backend/internal/calendar"
	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
)

func intp(v int) *int { return &v }

type fakeBookingStore struct {
	bookings []*models.Booking
	nextID   int
}

func (f *fakeBookingStore) CreateIfAbsent(ctx context.Context, b *models.Booking) error {
	for _, existing := range f.bookings {
		if existing.BranchID == b.BranchID && existing.Date == b.Date &&
			existing.Time == b.Time && existing.Status != models.BookingStatusCancelled {
			return repositories.ErrSlotTaken
		}
	}
	f.nextID++
	b.ID = f.nextID
	copied := *b
	f.bookings = append(f.bookings, &copied)
	return nil
}

func (f *fakeBookingStore) GetBySlot(ctx context.Context, branchID int, date, clock string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.BranchID == branchID && b.Date == date && b.Time == clock &&
			b.Status != models.BookingStatusCancelled {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) Get(ctx context.Context, id int) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) List(ctx context.Context, branchID *int, date string) ([]*models.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, id int, status string) error {
	for _, b := range f.bookings {
		if b.ID == id {
			b.Status = status
		}
	}
	return nil
}

type fakeClientStore struct{ clients map[int]*models.Client }

func (f *fakeClientStore) Get(ctx context.Context, id int) (*models.Client, error) {
	return f.clients[id], nil
}

type fakeServiceStore struct{ services map[int]*models.Service }

func (f *fakeServiceStore) ListByIDs(ctx context.Context, ids []int) ([]*models.Service, error) {
	var out []*models.Service
	for _, id := range ids {
		if s, ok := f.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeBranchStore struct{ branches map[int]*models.Branch }

func (f *fakeBranchStore) Get(ctx context.Context, id int) (*models.Branch, error) {
	return f.branches[id], nil
}

type fakeRegistry struct{ id string }

func (f *fakeRegistry) GetOrCreateCalendar(ctx context.Context, branchName string, branchID int) string {
	return f.id
}

type fakeTracker struct{ calls int }

func (f *fakeTracker) EnsureShared(ctx context.Context, calendarID string, branchID *int) (*calendar.ShareResult, error) {
	f.calls++
	return &calendar.ShareResult{}, nil
}

type fakeEventInserter struct {
	fail   bool
	events []*calendar.Event
}

func (f *fakeEventInserter) InsertEvent(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error) {
	if f.fail {
		return nil, errors.New("quota exceeded")
	}
	out := *ev
	out.ID = "event-1"
	out.HTMLLink = "https://calendar.example/event-1"
	f.events = append(f.events, &out)
	return &out, nil
}

func newBookingFixture() (*BookingService, *fakeBookingStore, *fakeEventInserter, *fakeTracker) {
	bookings := &fakeBookingStore{}
	events := &fakeEventInserter{}
	tracker := &fakeTracker{}
	svc := NewBookingService(
		bookings,
		&fakeClientStore{clients: map[int]*models.Client{
			10: {ID: 10, Name: "Ana Cruz", Phone: "0917", Email: ""},
		}},
		&fakeServiceStore{services: map[int]*models.Service{
			100: {ID: 100, Name: "Haircut", Price: 500, DurationMinutes: 45},
			101: {ID: 101, Name: "Color", Price: 2500, DurationMinutes: 90},
		}},
		&fakeBranchStore{branches: map[int]*models.Branch{
			1: {ID: 1, Name: "Makati Salon"},
		}},
		&fakeRegistry{id: "cal-makati"},
		tracker,
		events,
		nil,
		nil,
	)
	return svc, bookings, events, tracker
}

func validRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		ClientID:   10,
		BranchID:   1,
		Date:       "2026-09-01",
		Time:       "14:00",
		ServiceIDs: []int{100, 101},
		Status:     models.BookingStatusConfirmed,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	svc, bookings, events, tracker := newBookingFixture()

	result, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !result.CalendarCreated {
		t.Error("expected calendar_created = true")
	}
	if result.Booking.ID == 0 {
		t.Error("booking was not persisted")
	}
	if result.Booking.CalendarEventID == nil || *result.Booking.CalendarEventID != "event-1" {
		t.Error("calendar event id not recorded on booking")
	}
	if result.TotalCost != 3000 {
		t.Errorf("total cost = %v, want 3000", result.TotalCost)
	}
	if tracker.calls != 1 {
		t.Errorf("tracker called %d times, want 1", tracker.calls)
	}
	if len(bookings.bookings) != 1 {
		t.Fatalf("stored %d bookings, want 1", len(bookings.bookings))
	}

	ev := events.events[0]
	if ev.Summary != "Ana Cruz - Makati Salon (Haircut, Color)" {
		t.Errorf("event title = %q", ev.Summary)
	}
	// confirmed -> green
	if ev.ColorID != "10" {
		t.Errorf("event color = %q, want 10", ev.ColorID)
	}
}

func TestCreateBooking_SurvivesCalendarFailure(t *testing.T) {
	svc, bookings, events, _ := newBookingFixture()
	events.fail = true

	result, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create failed: %v; booking must survive calendar failure", err)
	}
	if result.CalendarCreated {
		t.Error("expected calendar_created = false")
	}
	if result.CalendarError == "" {
		t.Error("expected the calendar error message in the result")
	}
	if len(bookings.bookings) != 1 {
		t.Fatalf("stored %d bookings, want 1", len(bookings.bookings))
	}
	b := bookings.bookings[0]
	if b.CalendarEventID != nil || b.CalendarID != nil || b.CalendarEventLink != nil {
		t.Error("calendar fields must be null when event creation failed")
	}
}

func TestCreateBooking_DuplicateSlot(t *testing.T) {
	svc, _, _, _ := newBookingFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err = svc.Create(ctx, validRequest())
	var dup *DuplicateSlotError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSlotError, got %v", err)
	}
	if dup.Existing.ID != first.Booking.ID {
		t.Errorf("duplicate error points at booking %d, want %d", dup.Existing.ID, first.Booking.ID)
	}
}

func TestCreateBooking_CancelledSlotRebookable(t *testing.T) {
	svc, _, _, _ := newBookingFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if err := svc.Cancel(ctx, first.Booking.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := svc.Create(ctx, validRequest()); err != nil {
		t.Errorf("rebooking a cancelled slot failed: %v", err)
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	svc, _, _, _ := newBookingFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*models.CreateBookingRequest)
	}{
		{"missing client", func(r *models.CreateBookingRequest) { r.ClientID = 0 }},
		{"missing branch", func(r *models.CreateBookingRequest) { r.BranchID = 0 }},
		{"missing date", func(r *models.CreateBookingRequest) { r.Date = "" }},
		{"missing time", func(r *models.CreateBookingRequest) { r.Time = "" }},
		{"bad status", func(r *models.CreateBookingRequest) { r.Status = "teleported" }},
		{"bad date format", func(r *models.CreateBookingRequest) { r.Date = "09/01/2026" }},
	}
	for _, c := range cases {
		req := validRequest()
		c.mutate(req)
		if _, err := svc.Create(ctx, req); !errors.Is(err, ErrInvalidBooking) {
			t.Errorf("%s: expected ErrInvalidBooking, got %v", c.name, err)
		}
	}
}

func TestCreateBooking_DefaultDuration(t *testing.T) {
	bookings := &fakeBookingStore{}
	events := &fakeEventInserter{}
	svc := NewBookingService(
		bookings,
		&fakeClientStore{clients: map[int]*models.Client{10: {ID: 10, Name: "Ana"}}},
		&fakeServiceStore{services: map[int]*models.Service{
			100: {ID: 100, Name: "Consultation", Price: 0, DurationMinutes: 0},
		}},
		&fakeBranchStore{branches: map[int]*models.Branch{1: {ID: 1, Name: "Makati"}}},
		&fakeRegistry{id: "cal"},
		&fakeTracker{},
		events,
		nil,
		nil,
	)

	req := validRequest()
	req.ServiceIDs = []int{100}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ev := events.events[0]
	if !strings.HasPrefix(ev.Start.DateTime, "2026-09-01T14:00:00") {
		t.Errorf("start = %q", ev.Start.DateTime)
	}
	// zero-duration services fall back to 60 minutes
	if !strings.HasPrefix(ev.End.DateTime, "2026-09-01T15:00:00") {
		t.Errorf("end = %q, want one hour after start", ev.End.DateTime)
	}
}

func TestCreateBooking_NoServices(t *testing.T) {
	svc, bookings, events, _ := newBookingFixture()

	req := validRequest()
	req.ServiceIDs = nil
	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("service-less booking failed: %v", err)
	}
	if result.TotalCost != 0 {
		t.Errorf("total cost = %v, want 0", result.TotalCost)
	}
	if len(bookings.bookings) != 1 {
		t.Fatalf("stored %d bookings, want 1", len(bookings.bookings))
	}

	ev := events.events[0]
	if ev.Summary != "Ana Cruz - Makati Salon" {
		t.Errorf("event title = %q", ev.Summary)
	}
	if !strings.HasPrefix(ev.End.DateTime, "2026-09-01T15:00:00") {
		t.Errorf("end = %q, want the default one-hour slot", ev.End.DateTime)
	}
}

func TestUpdateStatus_RejectsUnknown(t *testing.T) {
	svc, _, _, _ := newBookingFixture()
	if err := svc.UpdateStatus(context.Background(), 1, "vanished"); !errors.Is(err, ErrInvalidBooking) {
		t.Errorf("expected ErrInvalidBooking, got %v", err)
	}
}
