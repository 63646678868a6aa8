package assemble

import (
	"omnivox-backend/lib/timezone"
	"time"
)

// DateFormat is the fixed textual layout a record kind's dates are rendered
// in. Pattern is the same layout in the notation the portal documents it in.
type DateFormat struct {
	Layout  string
	Pattern string
}

// Parse reads a date as midnight in the portal's time zone.
func (f DateFormat) Parse(value string) (time.Time, error) {
	return time.ParseInLocation(f.Layout, value, timezone.Location)
}

func (f DateFormat) Format(t time.Time) string {
	return t.In(timezone.Location).Format(f.Layout)
}

var (
	// MMM d, yyyy
	DocumentDate = DateFormat{Layout: "Jan 2, 2006", Pattern: "MMM d, yyyy"}
	// MMM-d, yyyy
	AssignmentDate = DateFormat{Layout: "Jan-2, 2006", Pattern: "MMM-d, yyyy"}
	// d MMMM yyyy
	CalendarDate = DateFormat{Layout: "2 January 2006", Pattern: "d MMMM yyyy"}
)
