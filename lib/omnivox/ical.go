package omnivox

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
)

// eventUid is stable across runs so calendar clients update events in
// place instead of duplicating them on re-import.
func eventUid(institution string, event CalendarEvent) string {
	hash := sha1.New()
	fmt.Fprintf(hash, "%s\x00%s\x00%s\x00%s", institution, event.CourseName, event.Title, event.OccursOn.Format(dateLayout))
	return hex.EncodeToString(hash.Sum(nil)) + "@omnivox"
}

// ExportCalendar writes the events as an iCalendar file, each event takes
// up the whole day it occurs on.
func ExportCalendar(w io.Writer, institution string, events []CalendarEvent, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//omnivox-backend//omnivox-cli//EN")
	cal.SetXWRCalName(fmt.Sprintf("%s calendar", institution))

	for _, e := range events {
		vevent := cal.AddEvent(eventUid(institution, e))
		vevent.SetDtStampTime(now)
		vevent.SetAllDayStartAt(e.OccursOn)
		vevent.SetAllDayEndAt(e.OccursOn.AddDate(0, 0, 1))

		summary := e.Title
		if e.IsCourseEvent {
			summary = fmt.Sprintf("%s (%s)", e.Title, e.CourseName)
		}
		vevent.SetSummary(summary)
		if e.HasDescription {
			vevent.SetDescription(e.Description)
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}
