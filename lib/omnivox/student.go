package omnivox

// Student holds everything collected for one student during a run. It is
// filled by a Manager and read by the presentation layer.
type Student struct {
	Documents   []CourseDocument
	Assignments []CourseAssignment
	Events      []CalendarEvent
}

func (s *Student) setDocuments(documents []CourseDocument) {
	s.Documents = documents
}

func (s *Student) setAssignments(assignments []CourseAssignment) {
	s.Assignments = assignments
}

func (s *Student) setEvents(events []CalendarEvent) {
	s.Events = events
}
