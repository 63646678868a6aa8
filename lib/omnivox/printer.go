package omnivox

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// PrintStudent renders the student's documents, assignments and calendar
// events as tables, in that order.
func PrintStudent(w io.Writer, student *Student) {
	PrintDocuments(w, student.Documents)
	fmt.Fprintln(w)
	PrintAssignments(w, student.Assignments)
	fmt.Fprintln(w)
	PrintEvents(w, student.Events)
}

func PrintDocuments(w io.Writer, documents []CourseDocument) {
	t := newTable(w, fmt.Sprintf("Documents (%d)", len(documents)))
	t.AppendHeader(table.Row{"Course", "Title", "Distributed", "Seen", "View"})
	for _, d := range documents {
		t.AppendRow(table.Row{
			d.CourseName,
			d.Title,
			formatDate(d.DistributedOn),
			yesNo(d.Seen),
			d.ViewLabel,
		})
	}
	t.Render()
}

func PrintAssignments(w io.Writer, assignments []CourseAssignment) {
	t := newTable(w, fmt.Sprintf("Assignments (%d)", len(assignments)))
	t.AppendHeader(table.Row{"Course", "Title", "Distributed", "Seen", "Completed"})
	for _, a := range assignments {
		t.AppendRow(table.Row{
			a.CourseName,
			a.Title,
			formatDate(a.DistributedOn),
			yesNo(a.Seen),
			yesNo(a.Completed),
		})
	}
	t.Render()
}

func PrintEvents(w io.Writer, events []CalendarEvent) {
	t := newTable(w, fmt.Sprintf("Calendar (%d)", len(events)))
	t.AppendHeader(table.Row{"Date", "Course", "Title", "Description"})
	for _, e := range events {
		t.AppendRow(table.Row{
			formatDate(e.OccursOn),
			e.CourseName,
			e.Title,
			e.Description,
		})
	}
	t.Render()
}
