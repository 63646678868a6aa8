package assemble

import (
	"fmt"
	"omnivox-backend/lib/htmlutil"
	"omnivox-backend/lib/omnivox"
	"omnivox-backend/lib/timezone"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Assembler turns the pages of one institution's portal into records. It
// holds no session state, the same Assembler can be used on any number of
// pages.
type Assembler struct {
	Institution string
	Markup      Markup
	// the calendar omits the year of its events, they are assumed to occur
	// in the current year of this clock.
	clock timezone.Clock
}

func New(institution string, markup Markup, clock timezone.Clock) Assembler {
	if clock == nil {
		clock = timezone.StandardClock{}
	}
	return Assembler{
		Institution: institution,
		Markup:      markup,
		clock:       clock,
	}
}

func SaintFoy(clock timezone.Clock) Assembler {
	return New("Cégep de Sainte-Foy", LeaMarkup, clock)
}

func Champlain(clock timezone.Clock) Assembler {
	return New("Champlain College", LeaMarkup, clock)
}

func (a Assembler) malformed(kind omnivox.RecordKind, course string, doc *goquery.Document, row int, missing string) error {
	return &omnivox.MalformedRecordError{
		Institution: a.Institution,
		Kind:        kind,
		Course:      course,
		Page:        omnivox.PageIdentity(doc),
		Row:         row,
		Missing:     missing,
	}
}

func (a Assembler) parseDate(
	format DateFormat,
	kind omnivox.RecordKind,
	course string,
	doc *goquery.Document,
	row int,
	raw string,
) (time.Time, error) {
	date, err := format.Parse(raw)
	if err != nil {
		return time.Time{}, &omnivox.DateParseError{
			Institution: a.Institution,
			Kind:        kind,
			Course:      course,
			Page:        omnivox.PageIdentity(doc),
			Row:         row,
			Raw:         raw,
			Layout:      format.Layout,
			Err:         err,
		}
	}
	return date, nil
}

func (a Assembler) courseName(doc *goquery.Document, kind omnivox.RecordKind) (string, error) {
	label := doc.Find(a.Markup.CourseName).First()
	if label.Length() == 0 {
		return "", a.malformed(kind, "", doc, -1, "course name")
	}
	return htmlutil.Text(label), nil
}

func (a Assembler) AssembleDocuments(doc *goquery.Document) ([]omnivox.CourseDocument, error) {
	course, err := a.courseName(doc, omnivox.KindDocument)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(a.Markup.DocumentRows)
	documents := make([]omnivox.CourseDocument, 0, rows.Length())
	for i := range rows.Nodes {
		cells := rows.Eq(i).ChildrenFiltered("td")
		if cells.Length() < 4 {
			return nil, a.malformed(
				omnivox.KindDocument, course, doc, i,
				fmt.Sprintf("cells (expected 4, got %d)", cells.Length()),
			)
		}

		link := cells.Eq(1).Find(a.Markup.DocumentTitle).First()
		if link.Length() == 0 {
			return nil, a.malformed(omnivox.KindDocument, course, doc, i, "title link")
		}
		title := htmlutil.Text(link)

		distributedOn, err := a.parseDate(
			a.Markup.DocumentDate, omnivox.KindDocument,
			course, doc, i, htmlutil.Text(cells.Eq(2)),
		)
		if err != nil {
			return nil, err
		}

		viewLabel := htmlutil.Text(cells.Eq(3))
		if viewLabel == "" {
			viewLabel = title
		}

		star := cells.Eq(0).ChildrenFiltered(a.Markup.DocumentStar)
		documents = append(documents, omnivox.CourseDocument{
			CourseName:    course,
			Title:         title,
			DistributedOn: distributedOn,
			Seen:          star.Length() == 0,
			ViewLabel:     viewLabel,
		})
	}

	return documents, nil
}

// the date cell of an assignment may carry a time or a due date after the
// date it was distributed on
var dateTokenRegex = regexp.MustCompile(`^.*?\d{4}`)

func (a Assembler) AssembleAssignments(doc *goquery.Document) ([]omnivox.CourseAssignment, error) {
	course, err := a.courseName(doc, omnivox.KindAssignment)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(a.Markup.AssignmentRows)
	assignments := make([]omnivox.CourseAssignment, 0, rows.Length())
	for i := range rows.Nodes {
		row := rows.Eq(i)
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 3 {
			return nil, a.malformed(
				omnivox.KindAssignment, course, doc, i,
				fmt.Sprintf("date cell (expected 3 cells, got %d)", cells.Length()),
			)
		}

		raw := htmlutil.Text(cells.Eq(2))
		token := dateTokenRegex.FindString(raw)
		if token == "" {
			token = raw
		}
		distributedOn, err := a.parseDate(
			a.Markup.AssignmentDate, omnivox.KindAssignment,
			course, doc, i, token,
		)
		if err != nil {
			return nil, err
		}

		star := cells.Eq(0).ChildrenFiltered(a.Markup.AssignmentStar)
		assignments = append(assignments, omnivox.CourseAssignment{
			CourseName:    course,
			Title:         htmlutil.Text(cells.Eq(1)),
			DistributedOn: distributedOn,
			Seen:          star.Length() == 0,
			Completed:     row.Find(a.Markup.SubmissionLink).Length() > 0,
		})
	}

	return assignments, nil
}

// AssembleCalendarEvents returns omnivox.ErrWrongDisplayMode when the page
// has no event blocks at all.
func (a Assembler) AssembleCalendarEvents(doc *goquery.Document) ([]omnivox.CalendarEvent, error) {
	blocks := doc.Find(a.Markup.EventBlocks)
	if blocks.Length() == 0 {
		return nil, fmt.Errorf(
			"%s: %s: %w",
			a.Institution, omnivox.PageIdentity(doc), omnivox.ErrWrongDisplayMode,
		)
	}

	year := a.clock.Now().Year()
	events := make([]omnivox.CalendarEvent, 0, blocks.Length())
	for i := range blocks.Nodes {
		block := blocks.Eq(i)
		header := block.ChildrenFiltered(a.Markup.EventHeader)

		day := header.ChildrenFiltered(a.Markup.EventDay).First()
		if day.Length() == 0 {
			return nil, a.malformed(omnivox.KindCalendarEvent, "", doc, i, "day")
		}
		month := header.ChildrenFiltered(a.Markup.EventMonth).First()
		if month.Length() == 0 {
			return nil, a.malformed(omnivox.KindCalendarEvent, "", doc, i, "month")
		}

		body := block.ChildrenFiltered(a.Markup.EventBody).First()
		title := body.ChildrenFiltered(a.Markup.EventTitle).First()
		if title.Length() == 0 {
			return nil, a.malformed(omnivox.KindCalendarEvent, "", doc, i, "title")
		}

		event := omnivox.CalendarEvent{
			Title:          htmlutil.Text(title),
			CourseName:     omnivox.NotACourse,
			Description:    omnivox.NoDescription,
			IsCourseEvent:  false,
			HasDescription: false,
		}

		details := body.ChildrenFiltered(a.Markup.EventDetails)
		course := htmlutil.Text(details.ChildrenFiltered(a.Markup.EventCourse).First())
		if course != "" {
			event.CourseName = course
			event.IsCourseEvent = true
		}
		description := htmlutil.OwnText(details.First())
		if description != "" {
			event.Description = description
			event.HasDescription = true
		}

		raw := fmt.Sprintf("%s %s %d", htmlutil.Text(day), htmlutil.Text(month), year)
		occursOn, err := a.parseDate(
			a.Markup.CalendarDate, omnivox.KindCalendarEvent,
			event.CourseName, doc, i, raw,
		)
		if err != nil {
			return nil, err
		}
		event.OccursOn = occursOn

		events = append(events, event)
	}

	return events, nil
}
