package core

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"omnivox-backend/lib/omnivox"
	"omnivox-backend/lib/restyutil"
	"omnivox-backend/lib/telemetry"
	"regexp"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout           = time.Second * 10
	DefaultRequestsPerSecond = 2

	PortalDomain = "omnivox.ca"
	LoginPath    = "/intr/Module/Identification/Login/Login.aspx"
)

var loginUrlRegex = regexp.MustCompile(`(?i)^https://([a-z0-9-]+)\.omnivox\.ca/intr/Module/Identification/Login/Login\.aspx$`)

// ValidateLoginUrl checks that a login url has the shape
// https://<institution>.omnivox.ca/intr/Module/Identification/Login/Login.aspx
func ValidateLoginUrl(raw string) error {
	if !loginUrlRegex.MatchString(raw) {
		return fmt.Errorf(
			"%w: '%s' should look like https://<institution>.%s%s",
			omnivox.ErrInvalidEndpoint, raw, PortalDomain, LoginPath,
		)
	}
	return nil
}

type Client struct {
	LoginUrl *url.URL
	Http     *resty.Client

	tel   telemetry.API
	cache pageCache
	home  *goquery.Document
}

type ClientOptions struct {
	LoginUrl string
	// per request timeout, defaults to DefaultTimeout
	Timeout           time.Duration
	RequestsPerSecond float64
	// Transport replaces the default cloudflare bypassing transport.
	Transport        http.RoundTripper
	InstrumentOutput restyutil.InstrumentOutput
	Telemetry        telemetry.API
}

func redirectPolicy(maxRedirects int) resty.RedirectPolicy {
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		host := strings.ToLower(req.URL.Hostname())
		if host != PortalDomain && !strings.HasSuffix(host, "."+PortalDomain) {
			return fmt.Errorf("redirect to '%s' is outside of %s", host, PortalDomain)
		}
		return nil
	})
}

// NewClient creates an unauthenticated session, it fails with
// omnivox.ErrInvalidEndpoint before making any request if the login url
// isn't an omnivox login url.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	err := ValidateLoginUrl(opts.LoginUrl)
	if err != nil {
		return nil, err
	}
	loginUrl, err := url.Parse(opts.LoginUrl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", omnivox.ErrInvalidEndpoint, err)
	}

	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	tel = telemetry.NewScopedAPI("omnivox_core", tel)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	} else {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(redirectPolicy(10))
	client.SetTimeout(timeout)

	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(rate.Limit(rps), 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "omnivox.lib.scrapers.omnivox.core/http")
	restyutil.InstrumentClient(client, opts.InstrumentOutput)

	c := &Client{
		LoginUrl: loginUrl,
		Http:     client,
		tel:      tel,
		cache:    newPageCache(),
	}
	return c, nil
}

func parsePage(res *resty.Response) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		doc.Url = res.RawResponse.Request.URL
	} else {
		doc.Url, _ = url.Parse(res.Request.URL)
	}
	return doc, nil
}

func authError(reason string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", omnivox.ErrAuthentication, reason)
	}
	return fmt.Errorf("%w: %s: %w", omnivox.ErrAuthentication, reason, err)
}

// LoginUsernamePassword submits the login form, every failure is wrapped in
// omnivox.ErrAuthentication. On success the page the portal lands on is kept
// as the home page.
func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	c.home = nil
	c.cache.purge()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.LoginUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		c.tel.ReportBroken(report_client_login, err)
		return authError("fetch login page", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "login page returned an error status")
		return authError(fmt.Sprintf("login page returned %s", res.Status()), nil)
	}
	doc, err := parsePage(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login page")
		return authError("parse login page", err)
	}

	form := doc.Find("form[name=formLogin]")
	k, ok := form.Find("input[name=k]").Attr("value")
	if form.Length() == 0 || !ok {
		span.SetStatus(codes.Error, "failed to find login token")
		c.tel.ReportBroken(report_client_login, fmt.Errorf("login token not found on %s", omnivox.PageIdentity(doc)))
		return authError("could not find login token", nil)
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"NoDA":               username,
			"PasswordEtu":        password,
			"TypeIdentification": "Etudiant",
			"TypeLogin":          "PostSolutionLogin",
			"k":                  k,
		}).
		Post(c.LoginUrl.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		c.tel.ReportBroken(report_client_login, err)
		return authError("submit login form", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "login request returned an error status")
		return authError(fmt.Sprintf("login request returned %s", res.Status()), nil)
	}
	home, err := parsePage(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse home page")
		return authError("parse home page", err)
	}

	if home.Find("form[name=formLogin]").Length() > 0 {
		span.SetStatus(codes.Error, "credentials rejected")
		return authError("credentials were rejected", nil)
	}

	c.home = home
	c.tel.ReportDebug("logged in", omnivox.PageIdentity(home))
	return nil
}

func (c *Client) Authenticated() bool {
	return c.home != nil
}

// HomePage returns the page the portal landed on after login.
func (c *Client) HomePage() (*goquery.Document, error) {
	if c.home == nil {
		return nil, omnivox.ErrNotAuthenticated
	}
	return c.home, nil
}

// Get fetches and parses a page of the portal, pages are cached for the
// lifetime of the client.
func (c *Client) Get(ctx context.Context, link *url.URL) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:Get")
	defer span.End()

	if c.home == nil {
		return nil, omnivox.ErrNotAuthenticated
	}
	span.SetAttributes(attribute.String("url", link.String()))

	doc, ok := c.cache.get(link)
	if ok {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return doc, nil
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		c.tel.ReportWarning(report_client_get, link.String(), err)
		return nil, err
	}
	if res.IsError() {
		err = fmt.Errorf("get '%s': %s", link.String(), res.Status())
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportWarning(report_client_get, link.String(), err)
		return nil, err
	}
	doc, err = parsePage(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	c.cache.set(link, doc)
	return doc, nil
}

// Forget drops a page from the cache so the next Get fetches it again.
func (c *Client) Forget(link *url.URL) {
	c.cache.forget(link)
}
