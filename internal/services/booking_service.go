package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"salon-backend/internal/calendar"
	"salon-backend/internal/metrics"
	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
	"salon-backend/internal/timeutil"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrBranchNotFound = errors.New("branch not found")
	ErrInvalidBooking = errors.New("invalid booking request")
)

// DuplicateSlotError is returned when the requested (branch, date, time)
// slot is already taken. Carries the occupying booking so handlers can put
// its id in the 409 body.
type DuplicateSlotError struct {
	Existing *models.Booking
}

func (e *DuplicateSlotError) Error() string {
	return fmt.Sprintf("slot already booked (booking %d)", e.Existing.ID)
}

// defaultEventDuration applies when the booked services carry no durations
const defaultEventDuration = 60 * time.Minute

// BookingStore is the booking persistence surface the orchestrator needs
type BookingStore interface {
	CreateIfAbsent(ctx context.Context, b *models.Booking) error
	GetBySlot(ctx context.Context, branchID int, date, clock string) (*models.Booking, error)
	Get(ctx context.Context, id int) (*models.Booking, error)
	List(ctx context.Context, branchID *int, date string) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type ClientStore interface {
	Get(ctx context.Context, id int) (*models.Client, error)
}

type ServiceStore interface {
	ListByIDs(ctx context.Context, ids []int) ([]*models.Service, error)
}

type BranchStore interface {
	Get(ctx context.Context, id int) (*models.Branch, error)
}

// CalendarRegistry resolves branch calendars; implemented by *calendar.Registry
type CalendarRegistry interface {
	GetOrCreateCalendar(ctx context.Context, branchName string, branchID int) string
}

// PermissionTracker grants calendar access; implemented by *calendar.Tracker
type PermissionTracker interface {
	EnsureShared(ctx context.Context, calendarID string, branchID *int) (*calendar.ShareResult, error)
}

// EventInserter is the one provider call the orchestrator makes itself
type EventInserter interface {
	InsertEvent(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error)
}

// Notifier delivers booking confirmations; nil-able, implemented by *mail.Sender
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Broadcaster pushes domain events to the live monitoring feed
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// BookingResult is the 201 payload of POST /api/bookings/per-branch
type BookingResult struct {
	Booking         *models.Booking   `json:"booking"`
	Client          *models.Client    `json:"client"`
	Branch          *models.Branch    `json:"branch"`
	Services        []*models.Service `json:"services"`
	TotalCost       float64           `json:"total_cost"`
	CalendarCreated bool              `json:"calendar_created"`
	CalendarError   string            `json:"calendar_error,omitempty"`
}

// BookingService orchestrates appointment creation: slot uniqueness,
// calendar event creation with graceful degradation, sharing, notification.
type BookingService struct {
	bookings BookingStore
	clients  ClientStore
	services ServiceStore
	branches BranchStore
	registry CalendarRegistry
	tracker  PermissionTracker
	events   EventInserter
	mailer   Notifier
	monitor  Broadcaster
}

func NewBookingService(
	bookings BookingStore,
	clients ClientStore,
	services ServiceStore,
	branches BranchStore,
	registry CalendarRegistry,
	tracker PermissionTracker,
	events EventInserter,
	mailer Notifier,
	monitor Broadcaster,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		clients:  clients,
		services: services,
		branches: branches,
		registry: registry,
		tracker:  tracker,
		events:   events,
		mailer:   mailer,
		monitor:  monitor,
	}
}

// Create books an appointment. The booking itself must never fail because
// the calendar integration failed: provider errors downgrade the response
// to calendar_created=false, they do not block persistence.
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest) (*BookingResult, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.BookingStatusScheduled
	}

	branch, err := s.branches.Get(ctx, req.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}

	loc := timeutil.BranchZone(branch.TimeZone)
	start, err := timeutil.ParseBookingDateTime(req.Date, req.Time, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}

	// Pre-check gives the common duplicate case a clean 409 with the
	// occupying booking; the unique index below still closes the race.
	if existing, err := s.bookings.GetBySlot(ctx, req.BranchID, req.Date, req.Time); err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	} else if existing != nil {
		return nil, &DuplicateSlotError{Existing: existing}
	}

	client, err := s.clients.Get(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	bookedServices, err := s.services.ListByIDs(ctx, req.ServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}

	calendarID := s.registry.GetOrCreateCalendar(ctx, branch.Name, branch.ID)

	// Best-effort: sharing failures must not block the booking
	if _, err := s.tracker.EnsureShared(ctx, calendarID, &branch.ID); err != nil {
		log.Printf("[BookingService] Calendar sharing failed for branch %d: %v", branch.ID, err)
	}

	totalCost := 0.0
	for _, svc := range bookedServices {
		totalCost += svc.Price
	}

	booking := &models.Booking{
		ClientID:   req.ClientID,
		BranchID:   req.BranchID,
		Date:       req.Date,
		Time:       req.Time,
		ServiceIDs: req.ServiceIDs,
		Status:     status,
		Notes:      req.Notes,
	}

	result := &BookingResult{
		Client:    client,
		Branch:    branch,
		Services:  bookedServices,
		TotalCost: totalCost,
	}

	event := buildBookingEvent(client, branch, bookedServices, booking, start, totalCost, loc)
	created, evErr := s.events.InsertEvent(ctx, calendarID, event)
	if evErr != nil {
		metrics.CalendarAPIErrorsTotal.WithLabelValues("events.insert").Inc()
		log.Printf("[BookingService] Calendar event creation failed for branch %d: %v", branch.ID, evErr)
		result.CalendarError = evErr.Error()
	} else {
		booking.CalendarEventID = &created.ID
		booking.CalendarID = &calendarID
		if created.HTMLLink != "" {
			booking.CalendarEventLink = &created.HTMLLink
		}
		result.CalendarCreated = true
	}

	if err := s.bookings.CreateIfAbsent(ctx, booking); err != nil {
		if errors.Is(err, repositories.ErrSlotTaken) {
			// Lost the race after the pre-check. The orphaned calendar
			// event (if any) is left for the winning booking's staff to
			// spot; logged so it can be cleaned up manually.
			if result.CalendarCreated {
				log.Printf("[BookingService] Orphaned calendar event %s after slot conflict", *booking.CalendarEventID)
			}
			existing, lookupErr := s.bookings.GetBySlot(ctx, req.BranchID, req.Date, req.Time)
			if lookupErr != nil || existing == nil {
				return nil, err
			}
			return nil, &DuplicateSlotError{Existing: existing}
		}
		return nil, err
	}
	result.Booking = booking

	metrics.BookingsCreatedTotal.WithLabelValues(fmt.Sprintf("%t", result.CalendarCreated)).Inc()

	if s.monitor != nil {
		s.monitor.Broadcast("booking_created", map[string]interface{}{
			"booking_id": booking.ID,
			"branch_id":  booking.BranchID,
			"date":       booking.Date,
			"time":       booking.Time,
			"status":     booking.Status,
		})
	}
	s.notify(ctx, client, branch, booking, bookedServices)
	return result, nil
}

// Get returns one booking by id, nil when absent
func (s *BookingService) Get(ctx context.Context, id int) (*models.Booking, error) {
	return s.bookings.Get(ctx, id)
}

// List returns bookings, optionally filtered by branch and date
func (s *BookingService) List(ctx context.Context, branchID *int, date string) ([]*models.Booking, error) {
	return s.bookings.List(ctx, branchID, date)
}

// UpdateStatus moves a booking into a new status
func (s *BookingService) UpdateStatus(ctx context.Context, id int, status string) error {
	if !models.ValidBookingStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBooking, status)
	}
	return s.bookings.UpdateStatus(ctx, id, status)
}

// Cancel marks a booking cancelled, freeing its slot for rebooking
func (s *BookingService) Cancel(ctx context.Context, id int) error {
	return s.bookings.UpdateStatus(ctx, id, models.BookingStatusCancelled)
}

func validateBookingRequest(req *models.CreateBookingRequest) error {
	switch {
	case req.ClientID <= 0:
		return fmt.Errorf("%w: client_id is required", ErrInvalidBooking)
	case req.BranchID <= 0:
		return fmt.Errorf("%w: branch_id is required", ErrInvalidBooking)
	case req.Date == "":
		return fmt.Errorf("%w: date is required", ErrInvalidBooking)
	case req.Time == "":
		return fmt.Errorf("%w: time is required", ErrInvalidBooking)
	}
	if req.Status != "" && !models.ValidBookingStatus(req.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBooking, req.Status)
	}
	return nil
}

func buildBookingEvent(
	client *models.Client,
	branch *models.Branch,
	services []*models.Service,
	booking *models.Booking,
	start time.Time,
	totalCost float64,
	loc *time.Location,
) *calendar.Event {
	names := make([]string, 0, len(services))
	duration := time.Duration(0)
	for _, svc := range services {
		names = append(names, svc.Name)
		duration += time.Duration(svc.DurationMinutes) * time.Minute
	}
	if duration == 0 {
		duration = defaultEventDuration
	}
	end := start.Add(duration)

	var desc strings.Builder
	fmt.Fprintf(&desc, "Client: %s\n", client.Name)
	if client.Phone != "" {
		fmt.Fprintf(&desc, "Phone: %s\n", client.Phone)
	}
	fmt.Fprintf(&desc, "Branch: %s\n", branch.Name)
	if len(names) > 0 {
		fmt.Fprintf(&desc, "Services: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&desc, "Total: %.2f\n", totalCost)
	fmt.Fprintf(&desc, "Status: %s\n", booking.Status)
	if booking.Notes != "" {
		fmt.Fprintf(&desc, "Notes: %s\n", booking.Notes)
	}

	summary := fmt.Sprintf("%s - %s", client.Name, branch.Name)
	if len(names) > 0 {
		summary = fmt.Sprintf("%s (%s)", summary, strings.Join(names, ", "))
	}

	color := calendar.ColorForStatus(booking.Status)
	tz := loc.String()
	return &calendar.Event{
		Summary:     summary,
		Description: desc.String(),
		Start:       calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		End:         calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: tz},
		ColorID:     color.ColorID,
	}
}

func (s *BookingService) notify(ctx context.Context, client *models.Client, branch *models.Branch, booking *models.Booking, services []*models.Service) {
	if s.mailer == nil || client.Email == "" {
		return
	}
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, svc.Name)
	}
	subject := fmt.Sprintf("Booking confirmed at %s", branch.Name)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment at %s is booked for %s at %s.\nServices: %s\n\nSee you then!",
		client.Name, branch.Name, booking.Date, booking.Time, strings.Join(names, ", "))
	if err := s.mailer.Send(ctx, client.Email, subject, body); err != nil {
		log.Printf("[BookingService] Confirmation email failed for booking %d: %v", booking.ID, err)
	}
}
