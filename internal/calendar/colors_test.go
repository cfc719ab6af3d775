package calendar

import "testing"

func TestColorForStatus(t *testing.T) {
	cases := []struct {
		status     string
		colorID    string
		background string
	}{
		{"scheduled", "7", "#E3F2FD"},
		{"confirmed", "10", "#E8F5E8"},
		{"pending", "6", "#FFF3E0"},
		{"cancelled", "11", "#FFEBEE"},
		{"completed", "3", "#F3E5F5"},
		{"no-show", "8", "#FAFAFA"},
		{"rescheduled", "9", "#E1F5FE"},
		{"something-new", "7", "#E3F2FD"}, // unknown falls back to default
		{"", "7", "#E3F2FD"},
	}
	for _, c := range cases {
		got := ColorForStatus(c.status)
		if got.ColorID != c.colorID || got.Background != c.background {
			t.Errorf("ColorForStatus(%q) = %+v, want {%s %s}", c.status, got, c.colorID, c.background)
		}
	}
}
