package timeutil

import (
	"testing"
	"time"
)

func TestParseBookingDateTime_Layouts(t *testing.T) {
	cases := []struct {
		date, clock string
	}{
		{"2026-09-01", "14:00:00"},
		{"2026-09-01", "14:00"},
		{"2026-09-01", "14:00:00"}, // T-joined layout matched below
	}
	for _, c := range cases {
		got, err := ParseBookingDateTime(c.date, c.clock, Default)
		if err != nil {
			t.Errorf("ParseBookingDateTime(%q, %q) failed: %v", c.date, c.clock, err)
			continue
		}
		want := time.Date(2026, 9, 1, 14, 0, 0, 0, Default)
		if !got.Equal(want) {
			t.Errorf("ParseBookingDateTime(%q, %q) = %v, want %v", c.date, c.clock, got, want)
		}
	}
}

func TestParseBookingDateTime_NilLocationUsesDefault(t *testing.T) {
	got, err := ParseBookingDateTime("2026-09-01", "09:30", nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Location() != Default {
		t.Errorf("location = %v, want default zone", got.Location())
	}
}

func TestParseBookingDateTime_Invalid(t *testing.T) {
	cases := [][2]string{
		{"09/01/2026", "14:00"},
		{"2026-09-01", "2pm"},
		{"", ""},
	}
	for _, c := range cases {
		if _, err := ParseBookingDateTime(c[0], c[1], Default); err == nil {
			t.Errorf("ParseBookingDateTime(%q, %q) accepted bad input", c[0], c[1])
		}
	}
}

func TestBranchZone(t *testing.T) {
	if loc := BranchZone(""); loc != Default {
		t.Errorf("empty name resolved to %v, want default", loc)
	}
	if loc := BranchZone("Mars/Olympus"); loc != Default {
		t.Errorf("unknown name resolved to %v, want default", loc)
	}
	if loc := BranchZone("Asia/Tokyo"); loc.String() != "Asia/Tokyo" {
		t.Errorf("BranchZone(\"Asia/Tokyo\") = %v", loc)
	}
}

func TestDayBounds(t *testing.T) {
	ref := time.Date(2026, 9, 1, 15, 42, 10, 0, Default)

	start := StartOfDay(ref)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("StartOfDay = %v", start)
	}
	if start.Day() != 1 || start.Month() != time.September {
		t.Errorf("StartOfDay moved the date: %v", start)
	}

	end := EndOfDay(ref)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("EndOfDay = %v", end)
	}
	if !end.After(start) {
		t.Error("EndOfDay not after StartOfDay")
	}
}
