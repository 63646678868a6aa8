package assemble

// Markup is where an institution's portal renders each piece of a record.
// Selectors are relative to the page, or to the row or block they belong to.
type Markup struct {
	CourseName string

	DocumentRows  string
	DocumentTitle string
	// DocumentStar is the "new" icon of the leading cell, its absence means
	// the document was seen.
	DocumentStar string

	AssignmentRows string
	AssignmentStar string
	// SubmissionLink only exists on rows of assignments that were handed in.
	SubmissionLink string

	EventBlocks string
	EventHeader string
	EventDay    string
	EventMonth  string
	EventBody   string
	EventTitle  string

	// EventDetails are children of the body, the first one holds the
	// description as its own text and the course as a child.
	EventDetails string
	EventCourse  string

	DocumentDate   DateFormat
	AssignmentDate DateFormat
	CalendarDate   DateFormat
}

// LeaMarkup is how the Léa module of omnivox renders course documents,
// assignments and the calendar.
var LeaMarkup = Markup{
	CourseName: ".TitrePageLigne2",

	DocumentRows:  "tr.itemDataGrid, tr.itemDataGridAltern",
	DocumentTitle: "div > a",
	DocumentStar:  "img",

	AssignmentRows: "#tabListeTravEtu > tbody > tr[height='30']",
	AssignmentStar: "img",
	SubmissionLink: "td > table > tbody > tr > td:nth-child(2) > a",

	EventBlocks: "#tblCalendrierEvenement > tbody > tr > td > div:nth-of-type(4) > div",
	EventHeader: "div",
	EventDay:    "div:nth-of-type(2)",
	EventMonth:  "div:nth-of-type(3)",
	EventBody:   "div:nth-of-type(3)",
	EventTitle:  "h3",

	EventDetails: "div",
	EventCourse:  "span",

	DocumentDate:   DocumentDate,
	AssignmentDate: AssignmentDate,
	CalendarDate:   CalendarDate,
}
