package timeutil

import (
	"fmt"
	"time"
)

// Default is the business-wide fallback time zone. Branches may carry their
// own zone; anything without one schedules in this zone.
var Default *time.Location

func init() {
	var err error
	Default, err = time.LoadLocation("Asia/Manila")
	if err != nil {
		// Fallback: fixed zone if the tz database is unavailable
		Default = time.FixedZone("PHT", 8*60*60) // UTC+8
	}
}

// Now returns the current time in the default business zone
func Now() time.Time {
	return time.Now().In(Default)
}

// BranchZone resolves a branch's configured zone name, falling back to the
// default when the name is empty or unknown.
func BranchZone(name string) *time.Location {
	if name == "" {
		return Default
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Default
	}
	return loc
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// bookingLayouts are tried in order when parsing a booking's date+time pair.
var bookingLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// ParseBookingDateTime parses a booking's date and time strings in the given
// zone. Each supported layout is tried in order; the error reports the raw
// input only after all layouts fail.
func ParseBookingDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = Default
	}
	raw := date + " " + clock
	for _, layout := range bookingLayouts {
		value := raw
		if layout == "2006-01-02T15:04:05" {
			value = date + "T" + clock
		}
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable booking date/time %q %q", date, clock)
}

// StartOfDay returns 00:00:00 of t's day in the default zone
func StartOfDay(t time.Time) time.Time {
	lt := t.In(Default)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, Default)
}

// EndOfDay returns the last instant of t's day in the default zone
func EndOfDay(t time.Time) time.Time {
	lt := t.In(Default)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, 999999999, Default)
}
