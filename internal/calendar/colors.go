package calendar

// StatusColor is the calendar rendering for a booking status
type StatusColor struct {
	ColorID    string `json:"color_id"`
	Background string `json:"background"`
}

// statusColors maps booking status to event color. Unknown statuses fall
// back to the scheduled blue.
var statusColors = map[string]StatusColor{
	"scheduled":   {ColorID: "7", Background: "#E3F2FD"},
	"confirmed":   {ColorID: "10", Background: "#E8F5E8"},
	"pending":     {ColorID: "6", Background: "#FFF3E0"},
	"cancelled":   {ColorID: "11", Background: "#FFEBEE"},
	"completed":   {ColorID: "3", Background: "#F3E5F5"},
	"no-show":     {ColorID: "8", Background: "#FAFAFA"},
	"rescheduled": {ColorID: "9", Background: "#E1F5FE"},
}

var defaultStatusColor = StatusColor{ColorID: "7", Background: "#E3F2FD"}

// ColorForStatus returns the fixed color for a booking status
func ColorForStatus(status string) StatusColor {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return defaultStatusColor
}
