package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"salon-backend/internal/googleauth"
)

const googleCalendarBase = "https://www.googleapis.com/calendar/v3"

// Scopes required for calendar provisioning, events and ACL management
var Scopes = []string{"https://www.googleapis.com/auth/calendar"}

// googleClient implements Provider against the Google Calendar REST API
// using a service-account token source.
type googleClient struct {
	tokens *googleauth.TokenSource
	http   *http.Client
	base   string
}

// NewGoogleClient returns a Provider backed by the Google Calendar API
func NewGoogleClient(tokens *googleauth.TokenSource) Provider {
	return &googleClient{
		tokens: tokens,
		http:   &http.Client{Timeout: 30 * time.Second},
		base:   googleCalendarBase,
	}
}

// APIError carries the provider's status and response body so callers can
// log full context before downgrading the failure.
type APIError struct {
	Operation string
	Status    int
	Body      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar %s failed: status %d, body %s", e.Operation, e.Status, e.Body)
}

func (c *googleClient) do(ctx context.Context, operation, method, path string, in, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("calendar %s: %w", operation, err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calendar %s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Operation: operation, Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("calendar %s: failed to decode response: %w", operation, err)
		}
	}
	return nil
}

func (c *googleClient) ListCalendars(ctx context.Context) ([]Calendar, error) {
	var payload struct {
		Items []Calendar `json:"items"`
	}
	if err := c.do(ctx, "calendarList.list", http.MethodGet, "/users/me/calendarList", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

func (c *googleClient) CreateCalendar(ctx context.Context, summary, description, timeZone string) (*Calendar, error) {
	in := Calendar{Summary: summary, Description: description, TimeZone: timeZone}
	var out Calendar
	if err := c.do(ctx, "calendars.insert", http.MethodPost, "/calendars", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *googleClient) RenameCalendar(ctx context.Context, calendarID, summary string) error {
	in := map[string]string{"summary": summary}
	return c.do(ctx, "calendars.patch", http.MethodPatch,
		"/calendars/"+url.PathEscape(calendarID), in, nil)
}

func (c *googleClient) DeleteCalendar(ctx context.Context, calendarID string) error {
	return c.do(ctx, "calendars.delete", http.MethodDelete,
		"/calendars/"+url.PathEscape(calendarID), nil, nil)
}

func (c *googleClient) InsertEvent(ctx context.Context, calendarID string, ev *Event) (*Event, error) {
	var out Event
	if err := c.do(ctx, "events.insert", http.MethodPost,
		"/calendars/"+url.PathEscape(calendarID)+"/events", ev, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *googleClient) InsertACL(ctx context.Context, calendarID, email, role string) error {
	in := map[string]interface{}{
		"role": role,
		"scope": map[string]string{
			"type":  "user",
			"value": email,
		},
	}
	return c.do(ctx, "acl.insert", http.MethodPost,
		"/calendars/"+url.PathEscape(calendarID)+"/acl", in, nil)
}
