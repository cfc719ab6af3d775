package calendar

import (
	"context"
	"errors"
)

// ACL roles accepted by the provider
const (
	ACLRoleOwner  = "owner"
	ACLRoleWriter = "writer"
	ACLRoleReader = "reader"
)

// Calendar is an external calendar resource
type Calendar struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timeZone,omitempty"`
}

// EventDateTime is a zoned instant in the provider's wire format
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is an external calendar event
type Event struct {
	ID          string        `json:"id,omitempty"`
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
	ColorID     string        `json:"colorId,omitempty"`
	HTMLLink    string        `json:"htmlLink,omitempty"`
}

// Provider is the external calendar API surface the registry, tracker and
// booking orchestrator consume. Implemented by googleClient; tests use fakes.
type Provider interface {
	ListCalendars(ctx context.Context) ([]Calendar, error)
	CreateCalendar(ctx context.Context, summary, description, timeZone string) (*Calendar, error)
	RenameCalendar(ctx context.Context, calendarID, summary string) error
	DeleteCalendar(ctx context.Context, calendarID string) error
	InsertEvent(ctx context.Context, calendarID string, ev *Event) (*Event, error)
	InsertACL(ctx context.Context, calendarID, email, role string) error
}

// ErrNotConfigured is returned by the disabled provider when no calendar
// credentials are present. The registry's fallback-id path absorbs it, so a
// deployment without Google credentials still books normally.
var ErrNotConfigured = errors.New("calendar provider not configured")

type disabledProvider struct{}

// NewDisabledProvider returns a Provider whose every call fails with
// ErrNotConfigured.
func NewDisabledProvider() Provider { return disabledProvider{} }

func (disabledProvider) ListCalendars(context.Context) ([]Calendar, error) {
	return nil, ErrNotConfigured
}
func (disabledProvider) CreateCalendar(context.Context, string, string, string) (*Calendar, error) {
	return nil, ErrNotConfigured
}
func (disabledProvider) RenameCalendar(context.Context, string, string) error {
	return ErrNotConfigured
}
func (disabledProvider) DeleteCalendar(context.Context, string) error {
	return ErrNotConfigured
}
func (disabledProvider) InsertEvent(context.Context, string, *Event) (*Event, error) {
	return nil, ErrNotConfigured
}
func (disabledProvider) InsertACL(context.Context, string, string, string) error {
	return ErrNotConfigured
}
