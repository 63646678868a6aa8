package omnivox

import "time"

type RecordKind int

const (
	KindDocument RecordKind = iota
	KindAssignment
	KindCalendarEvent
)

func (k RecordKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindAssignment:
		return "assignment"
	case KindCalendarEvent:
		return "calendar event"
	}
	return "unknown"
}

const (
	NotACourse    = "Not A Course"
	NoDescription = "No Description"
)

// CourseDocument is a file or notice published within a course.
type CourseDocument struct {
	CourseName    string
	Title         string
	DistributedOn time.Time
	Seen          bool
	ViewLabel     string
}

type CourseAssignment struct {
	CourseName    string
	Title         string
	DistributedOn time.Time
	Seen          bool
	// Completed is true when the row links to a submission.
	Completed bool
}

// CalendarEvent is a single entry of the portal calendar.
//
// CourseName and Description hold the NotACourse and NoDescription literals
// when the markup omits them, IsCourseEvent and HasDescription tell the two
// cases apart without comparing strings.
type CalendarEvent struct {
	CourseName     string
	Title          string
	OccursOn       time.Time
	Description    string
	IsCourseEvent  bool
	HasDescription bool
}
