package lea

import (
	"bytes"
	"context"
	"omnivox-backend/lib/omnivox"
	"omnivox-backend/lib/scrapers/omnivox/assemble"
	"omnivox-backend/lib/scrapers/omnivox/core"
	"omnivox-backend/lib/telemetry"
	"omnivox-backend/lib/testutil"
	"omnivox-backend/lib/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestFetcher(portal *testutil.Portal) (*Fetcher, *telemetry.Recorder) {
	tel := &telemetry.Recorder{}
	fetcher := NewFetcher(SaintFoy, core.ClientOptions{
		LoginUrl:          portal.LoginUrl(),
		RequestsPerSecond: 1000,
		Transport:         portal.Transport(),
		Telemetry:         tel,
	})
	return fetcher, tel
}

func TestNotAuthenticated(t *testing.T) {
	portal := testutil.NewPortal(t)
	fetcher, _ := newTestFetcher(portal)
	ctx := context.Background()

	_, err := fetcher.DocumentPages(ctx)
	require.ErrorIs(t, err, omnivox.ErrNotAuthenticated)
	_, err = fetcher.AssignmentPages(ctx)
	require.ErrorIs(t, err, omnivox.ErrNotAuthenticated)
	_, err = fetcher.CalendarPage(ctx)
	require.ErrorIs(t, err, omnivox.ErrNotAuthenticated)
	require.ErrorIs(t, fetcher.SwitchCalendarMode(ctx), omnivox.ErrNotAuthenticated)
	_, err = fetcher.WhatsNew(ctx)
	require.ErrorIs(t, err, omnivox.ErrNotAuthenticated)
}

func TestLoginInvalidEndpoint(t *testing.T) {
	portal := testutil.NewPortal(t)
	fetcher := NewFetcher(SaintFoy, core.ClientOptions{
		LoginUrl:  "https://csf.omnivox.ca/intr/",
		Transport: portal.Transport(),
	})

	err := fetcher.Login(context.Background(), portal.Username, portal.Password)
	require.ErrorIs(t, err, omnivox.ErrInvalidEndpoint)
	require.Equal(t, 0, portal.Requests(testutil.LoginPath))
}

func TestCoursePages(t *testing.T) {
	portal := testutil.NewPortal(t)
	fetcher, _ := newTestFetcher(portal)
	ctx := context.Background()

	require.NoError(t, fetcher.Login(ctx, portal.Username, portal.Password))

	documents, err := fetcher.DocumentPages(ctx)
	require.NoError(t, err)
	require.Len(t, documents, 2)
	require.Equal(t, "C=101", documents[0].Url.RawQuery)
	require.Equal(t, "C=202", documents[1].Url.RawQuery)

	assignments, err := fetcher.AssignmentPages(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, testutil.AssignmentsPath, assignments[0].Url.Path)
}

func TestCoursePageFailureIsSkipped(t *testing.T) {
	portal := testutil.NewPortal(t)
	portal.SetPage(testutil.LeaPath, `<html><body>
		<a href="/cvir/doce/Default.aspx?C=101">Documents</a>
		<a href="/cvir/doce/Default.aspx?C=404">Documents</a>
	</body></html>`)
	fetcher, tel := newTestFetcher(portal)
	ctx := context.Background()

	require.NoError(t, fetcher.Login(ctx, portal.Username, portal.Password))

	documents, err := fetcher.DocumentPages(ctx)
	require.NoError(t, err)
	require.Len(t, documents, 1)

	warnings := tel.Filter("warning")
	require.NotEmpty(t, warnings)
	require.Equal(t, "lea: "+report_fetcher_course_page, warnings[len(warnings)-1].Id)
}

func TestSwitchCalendarMode(t *testing.T) {
	portal := testutil.NewPortal(t)
	fetcher, _ := newTestFetcher(portal)
	ctx := context.Background()

	require.NoError(t, fetcher.Login(ctx, portal.Username, portal.Password))

	grid, err := fetcher.CalendarPage(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, grid.Find("#tblCalendrierEvenement h3").Length())

	require.NoError(t, fetcher.SwitchCalendarMode(ctx))
	require.Equal(t, 1, portal.ModeSwitches())

	list, err := fetcher.CalendarPage(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, list.Find("#tblCalendrierEvenement h3").Length())
}

func TestSwitchCalendarModeRedirectedLink(t *testing.T) {
	portal := testutil.NewPortal(t)
	portal.SetPage(testutil.HomePath, `<html><body>
		<a href="/intr/Module/Lea/Default.aspx">Léa</a>
		<a href="/intr/Module/Calendrier/Default.aspx?r=1">Calendrier</a>
	</body></html>`)
	portal.SetRedirect(testutil.CalendarPath+"?r=1", testutil.CalendarPath)
	fetcher, _ := newTestFetcher(portal)
	clock := timezone.FixedClock{Time: time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	student := &omnivox.Student{}
	manager := omnivox.NewManager(fetcher, assemble.SaintFoy(clock), student, &telemetry.Recorder{})

	require.NoError(t, manager.Login(ctx, portal.Username, portal.Password))
	require.NoError(t, manager.CollectCalendarEvents(ctx))

	require.Equal(t, 1, portal.ModeSwitches())
	require.Len(t, student.Events, 2)
}

func TestPrintWhatsNew(t *testing.T) {
	portal := testutil.NewPortal(t)
	fetcher, _ := newTestFetcher(portal)
	ctx := context.Background()

	require.NoError(t, fetcher.Login(ctx, portal.Username, portal.Password))

	notices, err := fetcher.WhatsNew(ctx)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	require.Equal(t, "1 new assignment in Calculus I", notices[1].Title)

	var out bytes.Buffer
	require.NoError(t, fetcher.PrintWhatsNew(ctx, &out))
	require.Contains(t, out.String(), "What's new:")
	require.Contains(t, out.String(), "1 new document in Physics NYA (https://csf.omnivox.ca/cvir/doce/Default.aspx?C=101)")
}

func TestPipeline(t *testing.T) {
	portal := testutil.NewPortal(t)
	fetcher, _ := newTestFetcher(portal)
	clock := timezone.FixedClock{Time: time.Date(2024, time.September, 15, 12, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	student := &omnivox.Student{}
	manager := omnivox.NewManager(fetcher, assemble.SaintFoy(clock), student, &telemetry.Recorder{})

	require.NoError(t, manager.Login(ctx, portal.Username, portal.Password))
	require.NoError(t, manager.CollectDocuments(ctx))
	require.NoError(t, manager.CollectAssignments(ctx))
	require.NoError(t, manager.CollectCalendarEvents(ctx))

	require.Len(t, student.Documents, 3)
	require.Equal(t, "Syllabus.pdf", student.Documents[0].ViewLabel)
	require.False(t, student.Documents[0].Seen)
	require.True(t, student.Documents[1].Seen)

	require.Len(t, student.Assignments, 2)
	require.True(t, student.Assignments[0].Completed)
	require.Equal(t, timezone.Date(2024, time.September, 3), student.Assignments[0].DistributedOn)
	require.False(t, student.Assignments[1].Seen)

	// the account starts in grid mode, the manager switches it exactly once
	require.Equal(t, 1, portal.ModeSwitches())
	require.Len(t, student.Events, 2)
	require.Equal(t, timezone.Date(2024, time.March, 15), student.Events[0].OccursOn)
	require.Equal(t, omnivox.NotACourse, student.Events[1].CourseName)

	// the course list isn't fetched again for assignments
	require.Equal(t, 1, portal.Requests(testutil.LeaPath))
}
