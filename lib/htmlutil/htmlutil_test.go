package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, contents string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestOwnText(t *testing.T) {
	doc := parse(t, `<div id="target">
		<span>Calculus I</span>
		Bring your
		calculator.
	</div><div id="empty"><span>only nested</span></div>`)

	require.Equal(t, "Bring your calculator.", OwnText(doc.Find("#target")))
	require.Equal(t, "", OwnText(doc.Find("#empty")))
	require.Equal(t, "", OwnText(doc.Find("#missing")))
}

func TestText(t *testing.T) {
	doc := parse(t, "<p>  Oct 3,\n 2024 </p>")
	require.Equal(t, "Oct 3, 2024", Text(doc.Find("p")))
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `<ul>
		<li><a href="/cvir/doce/Default.aspx?C=101"> Physics
			NYA </a></li>
		<li><a href="https://other.omnivox.ca/x">Other</a></li>
		<li><a>No href</a></li>
	</ul>`)

	base, err := url.Parse("https://csf.omnivox.ca/intr/Module/Lea/Default.aspx")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), base, doc.Find("a"))
	require.Len(t, anchors, 2)

	require.Equal(t, "Physics NYA", anchors[0].Name)
	require.Equal(t, "https://csf.omnivox.ca/cvir/doce/Default.aspx?C=101", anchors[0].Url.String())
	require.Equal(t, "https://other.omnivox.ca/x", anchors[1].Url.String())
}
