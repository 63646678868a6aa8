package omnivox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"omnivox-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("omnivox.lib.omnivox")

// PageFetcher owns an authenticated portal session and returns raw pages.
// Every method other than Login fails with ErrNotAuthenticated until Login
// succeeds.
type PageFetcher interface {
	Login(ctx context.Context, username, password string) error
	// DocumentPages returns one page per course the student is enrolled in.
	DocumentPages(ctx context.Context) ([]*goquery.Document, error)
	// AssignmentPages returns one page per course the student is enrolled in.
	AssignmentPages(ctx context.Context) ([]*goquery.Document, error)
	CalendarPage(ctx context.Context) (*goquery.Document, error)
	// SwitchCalendarMode toggles the calendar display mode of the account,
	// the next CalendarPage call must reflect the new mode.
	SwitchCalendarMode(ctx context.Context) error
	PrintWhatsNew(ctx context.Context, w io.Writer) error
}

// RecordAssembler extracts typed records out of a single page. It holds no
// session state.
type RecordAssembler interface {
	AssembleDocuments(doc *goquery.Document) ([]CourseDocument, error)
	AssembleAssignments(doc *goquery.Document) ([]CourseAssignment, error)
	// AssembleCalendarEvents returns ErrWrongDisplayMode when the page
	// contains no event blocks.
	AssembleCalendarEvents(doc *goquery.Document) ([]CalendarEvent, error)
}

const (
	report_manager_page_failed = "manager.page-failed"
	report_manager_documents   = "manager.documents"
	report_manager_assignments = "manager.assignments"
	report_manager_events      = "manager.events"
)

// Manager runs the extraction pipeline, it fetches pages through a
// PageFetcher, assembles them and stores the results on a Student.
//
// A Manager is not safe for concurrent use, it owns the fetcher's session.
type Manager struct {
	fetcher       PageFetcher
	assembler     RecordAssembler
	student       *Student
	tel           telemetry.API
	authenticated bool
}

func NewManager(fetcher PageFetcher, assembler RecordAssembler, student *Student, tel telemetry.API) *Manager {
	return &Manager{
		fetcher:   fetcher,
		assembler: assembler,
		student:   student,
		tel:       tel,
	}
}

func (m *Manager) Student() *Student {
	return m.student
}

func (m *Manager) Authenticated() bool {
	return m.authenticated
}

func (m *Manager) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	err := m.fetcher.Login(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to login")
		return err
	}
	m.authenticated = true
	return nil
}

// collect assembles every page on its own, a page that fails to assemble
// adds to the returned error without dropping the records of other pages.
func collect[T any](
	m *Manager,
	kind RecordKind,
	pages []*goquery.Document,
	assemble func(*goquery.Document) ([]T, error),
) ([]T, error) {
	out := []T{}
	var errs []error
	for i, page := range pages {
		records, err := assemble(page)
		if err != nil {
			m.tel.ReportWarning(report_manager_page_failed, kind.String(), PageIdentity(page), err)
			errs = append(errs, fmt.Errorf("%s page %d (%s): %w", kind, i, PageIdentity(page), err))
			continue
		}
		out = append(out, records...)
	}
	return out, errors.Join(errs...)
}

// CollectDocuments replaces the student's documents with those found on every
// course's document page.
func (m *Manager) CollectDocuments(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CollectDocuments")
	defer span.End()

	if !m.authenticated {
		return ErrNotAuthenticated
	}

	pages, err := m.fetcher.DocumentPages(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch document pages")
		return err
	}
	documents, err := collect(m, KindDocument, pages, m.assembler.AssembleDocuments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to assemble some document pages")
	}
	span.SetAttributes(attribute.Int("count", len(documents)))

	m.student.setDocuments(documents)
	m.tel.ReportCount(report_manager_documents, int64(len(documents)))
	return err
}

// CollectAssignments replaces the student's assignments with those found on
// every course's assignment page.
func (m *Manager) CollectAssignments(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CollectAssignments")
	defer span.End()

	if !m.authenticated {
		return ErrNotAuthenticated
	}

	pages, err := m.fetcher.AssignmentPages(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch assignment pages")
		return err
	}
	assignments, err := collect(m, KindAssignment, pages, m.assembler.AssembleAssignments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to assemble some assignment pages")
	}
	span.SetAttributes(attribute.Int("count", len(assignments)))

	m.student.setAssignments(assignments)
	m.tel.ReportCount(report_manager_assignments, int64(len(assignments)))
	return err
}

// CollectCalendarEvents replaces the student's calendar events. When the
// calendar page has no event blocks, the display mode is switched and the
// page fetched again exactly once, an empty result after that is accepted as
// having no events.
func (m *Manager) CollectCalendarEvents(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CollectCalendarEvents")
	defer span.End()

	if !m.authenticated {
		return ErrNotAuthenticated
	}

	events, err := m.fetchEvents(ctx)
	if errors.Is(err, ErrWrongDisplayMode) {
		span.AddEvent("switching calendar display mode")
		m.tel.ReportDebug("calendar has no events, switching display mode")

		err = m.fetcher.SwitchCalendarMode(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to switch calendar mode")
			return err
		}
		events, err = m.fetchEvents(ctx)
		if errors.Is(err, ErrWrongDisplayMode) {
			events, err = []CalendarEvent{}, nil
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to collect calendar events")
		return err
	}
	span.SetAttributes(attribute.Int("count", len(events)))

	m.student.setEvents(events)
	m.tel.ReportCount(report_manager_events, int64(len(events)))
	return nil
}

func (m *Manager) fetchEvents(ctx context.Context) ([]CalendarEvent, error) {
	page, err := m.fetcher.CalendarPage(ctx)
	if err != nil {
		return nil, err
	}
	events, err := m.assembler.AssembleCalendarEvents(page)
	if err != nil && !errors.Is(err, ErrWrongDisplayMode) {
		m.tel.ReportWarning(report_manager_page_failed, KindCalendarEvent.String(), PageIdentity(page), err)
		return nil, fmt.Errorf("%s page (%s): %w", KindCalendarEvent, PageIdentity(page), err)
	}
	return events, err
}

func (m *Manager) PrintWhatsNew(ctx context.Context, w io.Writer) error {
	if !m.authenticated {
		return ErrNotAuthenticated
	}
	return m.fetcher.PrintWhatsNew(ctx, w)
}
