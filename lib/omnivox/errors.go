package omnivox

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrInvalidEndpoint  = errors.New("invalid login endpoint")
	ErrAuthentication   = errors.New("failed to authenticate")
	ErrNotAuthenticated = errors.New("not authenticated, login first")
	// ErrWrongDisplayMode is returned by assemblers when a calendar page
	// contains no event blocks, which means the account renders the calendar
	// in a display mode the assembler doesn't understand.
	ErrWrongDisplayMode = errors.New("calendar is not in the expected display mode")
)

// DateParseError is returned when a date cell doesn't match the fixed layout
// of its record kind.
type DateParseError struct {
	Institution string
	Kind        RecordKind
	Course      string
	Page        string
	Row         int
	Raw         string
	Layout      string
	Err         error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf(
		"%s: %s row %d of '%s' (%s): could not parse date %q with layout %q: %v",
		e.Institution, e.Kind, e.Row, e.Course, e.Page, e.Raw, e.Layout, e.Err,
	)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// MalformedRecordError is returned when a row or block lacks a required
// element. Row is -1 when the element belongs to the page rather than a row.
type MalformedRecordError struct {
	Institution string
	Kind        RecordKind
	Course      string
	Page        string
	Row         int
	Missing     string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf(
		"%s: malformed %s row %d of '%s' (%s): missing %s",
		e.Institution, e.Kind, e.Row, e.Course, e.Page, e.Missing,
	)
}

// PageIdentity returns the url of a page, or a placeholder when the page
// wasn't fetched over http.
func PageIdentity(doc *goquery.Document) string {
	if doc == nil || doc.Url == nil {
		return "<unknown page>"
	}
	return doc.Url.String()
}
