package lea

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"omnivox-backend/lib/htmlutil"
	"omnivox-backend/lib/omnivox"
	"omnivox-backend/lib/scrapers/omnivox/core"
	"omnivox-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("omnivox.lib.scrapers.omnivox.lea")

const (
	report_fetcher_course_page = "fetcher.course-page"
	report_fetcher_whats_new   = "fetcher.whats-new"
)

// Fetcher navigates an omnivox portal through its Léa module. It implements
// omnivox.PageFetcher.
type Fetcher struct {
	Portal Portal

	opts   core.ClientOptions
	tel    telemetry.API
	client *core.Client
	lea    *goquery.Document
}

var _ omnivox.PageFetcher = (*Fetcher)(nil)

// NewFetcher creates a fetcher for a portal, opts.LoginUrl defaults to the
// portal's login url.
func NewFetcher(portal Portal, opts core.ClientOptions) *Fetcher {
	if opts.LoginUrl == "" {
		opts.LoginUrl = portal.LoginUrl
	}
	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	opts.Telemetry = tel
	return &Fetcher{
		Portal: portal,
		opts:   opts,
		tel:    telemetry.NewScopedAPI("lea", tel),
	}
}

func (f *Fetcher) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	f.client = nil
	f.lea = nil

	client, err := core.NewClient(ctx, f.opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create client")
		return err
	}
	err = client.LoginUsernamePassword(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to login")
		return err
	}

	home, err := client.HomePage()
	if err != nil {
		return err
	}
	links := htmlutil.GetAnchors(ctx, home.Url, home.Find(f.Portal.LeaSelector))
	if len(links) == 0 {
		err = fmt.Errorf(
			"%s: could not find the Léa link ('%s') on %s",
			f.Portal.Institution, f.Portal.LeaSelector, omnivox.PageIdentity(home),
		)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	lea, err := client.Get(ctx, links[0].Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch Léa")
		return err
	}

	f.client = client
	f.lea = lea
	return nil
}

// coursePages fetches every page the selector links to on the Léa page, a
// page that can't be fetched is reported and skipped.
func (f *Fetcher) coursePages(ctx context.Context, selector string) ([]*goquery.Document, error) {
	if f.client == nil {
		return nil, omnivox.ErrNotAuthenticated
	}

	links := htmlutil.GetAnchors(ctx, f.lea.Url, f.lea.Find(selector))
	pages := make([]*goquery.Document, 0, len(links))
	for _, link := range links {
		page, err := f.client.Get(ctx, link.Url)
		if err != nil {
			f.tel.ReportWarning(report_fetcher_course_page, link.Url.String(), err)
			continue
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (f *Fetcher) DocumentPages(ctx context.Context) ([]*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentPages")
	defer span.End()

	pages, err := f.coursePages(ctx, f.Portal.DocumentsSelector)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch document pages")
		return nil, err
	}
	span.SetAttributes(attribute.Int("pages", len(pages)))
	return pages, nil
}

func (f *Fetcher) AssignmentPages(ctx context.Context) ([]*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "AssignmentPages")
	defer span.End()

	pages, err := f.coursePages(ctx, f.Portal.AssignmentsSelector)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch assignment pages")
		return nil, err
	}
	span.SetAttributes(attribute.Int("pages", len(pages)))
	return pages, nil
}

func (f *Fetcher) calendarUrl(ctx context.Context) (*url.URL, error) {
	if f.client == nil {
		return nil, omnivox.ErrNotAuthenticated
	}
	home, err := f.client.HomePage()
	if err != nil {
		return nil, err
	}
	links := htmlutil.GetAnchors(ctx, home.Url, home.Find(f.Portal.CalendarSelector))
	if len(links) == 0 {
		return nil, fmt.Errorf(
			"%s: could not find the calendar link ('%s') on %s",
			f.Portal.Institution, f.Portal.CalendarSelector, omnivox.PageIdentity(home),
		)
	}
	return links[0].Url, nil
}

func (f *Fetcher) CalendarPage(ctx context.Context) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "CalendarPage")
	defer span.End()

	link, err := f.calendarUrl(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find calendar")
		return nil, err
	}
	page, err := f.client.Get(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch calendar")
		return nil, err
	}
	return page, nil
}

// SwitchCalendarMode follows the display mode link of the calendar page, the
// portal remembers the mode on the account.
func (f *Fetcher) SwitchCalendarMode(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "SwitchCalendarMode")
	defer span.End()

	link, err := f.calendarUrl(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find calendar")
		return err
	}
	calendar, err := f.client.Get(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch calendar")
		return err
	}
	links := htmlutil.GetAnchors(ctx, calendar.Url, calendar.Find(f.Portal.DisplayModeSelector))
	if len(links) == 0 {
		err = fmt.Errorf(
			"%s: could not find the display mode link ('%s') on %s",
			f.Portal.Institution, f.Portal.DisplayModeSelector, omnivox.PageIdentity(calendar),
		)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	toggle := links[0].Url
	_, err = f.client.Get(ctx, toggle)
	// the toggle and the calendar must be requested again the next time,
	// pages are cached under the link that was followed, not where it
	// redirected to
	f.client.Forget(toggle)
	f.client.Forget(link)
	f.client.Forget(calendar.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to switch display mode")
		return err
	}
	return nil
}

// Notice is an entry of the portal's "what's new" section.
type Notice struct {
	Title string
	Url   *url.URL
}

func (f *Fetcher) WhatsNew(ctx context.Context) ([]Notice, error) {
	ctx, span := tracer.Start(ctx, "WhatsNew")
	defer span.End()

	if f.client == nil {
		return nil, omnivox.ErrNotAuthenticated
	}
	home, err := f.client.HomePage()
	if err != nil {
		return nil, err
	}

	anchors := htmlutil.GetAnchors(ctx, home.Url, home.Find(f.Portal.WhatsNewSelector))
	notices := make([]Notice, len(anchors))
	for i, a := range anchors {
		notices[i] = Notice{Title: a.Name, Url: a.Url}
	}
	if len(notices) == 0 {
		f.tel.ReportDebug("no notices found", f.Portal.WhatsNewSelector)
	}
	return notices, nil
}

func (f *Fetcher) PrintWhatsNew(ctx context.Context, w io.Writer) error {
	notices, err := f.WhatsNew(ctx)
	if err != nil {
		f.tel.ReportWarning(report_fetcher_whats_new, err)
		return err
	}

	if len(notices) == 0 {
		_, err = fmt.Fprintln(w, "What's new: nothing new.")
		return err
	}
	_, err = fmt.Fprintln(w, "What's new:")
	if err != nil {
		return err
	}
	for _, n := range notices {
		_, err = fmt.Fprintf(w, "  - %s (%s)\n", n.Title, n.Url)
		if err != nil {
			return err
		}
	}
	return nil
}
