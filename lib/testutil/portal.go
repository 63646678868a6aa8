// Package testutil serves a fake omnivox portal over TLS so that the
// session and navigation code can be tested without the real thing.
package testutil

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const (
	PortalHost = "csf.omnivox.ca"
	LoginPath  = "/intr/Module/Identification/Login/Login.aspx"
	HomePath   = "/intr/"
	LeaPath    = "/intr/Module/Lea/Default.aspx"

	CalendarPath     = "/intr/Module/Calendrier/Default.aspx"
	SwitchModePath   = "/intr/Module/Calendrier/ChangerAffichage.aspx"
	DocumentsPath    = "/cvir/doce/Default.aspx"
	AssignmentsPath  = "/cvir/dtrv/Default.aspx"
	loginToken       = "a1b2c3"
	sessionCookie    = "OmnivoxSession"
	sessionCookieVal = "authenticated"
)

// Portal is a fake omnivox portal. Pages are looked up by path and query,
// tests can replace any of them with SetPage before making requests.
type Portal struct {
	Server   *httptest.Server
	Username string
	Password string

	mutex        sync.Mutex
	pages        map[string]string
	redirects    map[string]string
	listMode     bool
	modeSwitches int
	requests     map[string]int
}

func NewPortal(t testing.TB) *Portal {
	p := &Portal{
		Username:  "1234567",
		Password:  "hunter2",
		pages:     defaultPages(),
		redirects: map[string]string{},
		listMode:  false,
		requests:  map[string]int{},
	}
	p.Server = httptest.NewTLSServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

// LoginUrl is the url of the login page as the portal would advertise it,
// requests to it must go through Transport.
func (p *Portal) LoginUrl() string {
	return fmt.Sprintf("https://%s%s", PortalHost, LoginPath)
}

// Transport sends every request to the fake portal regardless of the host
// it was made to.
func (p *Portal) Transport() http.RoundTripper {
	transport := p.Server.Client().Transport.(*http.Transport).Clone()
	addr := p.Server.Listener.Addr().String()
	dialer := &net.Dialer{}
	transport.DialContext = func(ctx context.Context, network, _ string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return transport
}

func (p *Portal) SetPage(pathAndQuery, contents string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.pages[pathAndQuery] = contents
}

// SetRedirect makes the portal answer requests to pathAndQuery with a 302
// to target once the session is authenticated.
func (p *Portal) SetRedirect(pathAndQuery, target string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.redirects[pathAndQuery] = target
}

// SetListMode sets the calendar display mode the account starts in, only
// the list mode renders event blocks.
func (p *Portal) SetListMode(listMode bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.listMode = listMode
}

func (p *Portal) ModeSwitches() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.modeSwitches
}

// Requests returns how many times a path (without its query) was requested.
func (p *Portal) Requests(path string) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.requests[path]
}

func (p *Portal) serve(w http.ResponseWriter, r *http.Request) {
	p.mutex.Lock()
	p.requests[r.URL.Path]++
	p.mutex.Unlock()

	w.Header().Set("content-type", "text/html; charset=utf-8")

	if r.URL.Path == LoginPath {
		p.serveLogin(w, r)
		return
	}

	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value != sessionCookieVal {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	p.mutex.Lock()
	target, redirect := p.redirects[key]
	p.mutex.Unlock()
	if redirect {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	switch r.URL.Path {
	case SwitchModePath:
		p.mutex.Lock()
		p.listMode = !p.listMode
		p.modeSwitches++
		p.mutex.Unlock()
		http.Redirect(w, r, CalendarPath, http.StatusFound)
		return
	case CalendarPath:
		p.mutex.Lock()
		listMode := p.listMode
		p.mutex.Unlock()
		if listMode {
			w.Write([]byte(p.page(CalendarPath + "?mode=list")))
			return
		}
		w.Write([]byte(p.page(CalendarPath + "?mode=grid")))
		return
	}

	contents, ok := p.lookup(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(contents))
}

func (p *Portal) lookup(key string) (string, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	contents, ok := p.pages[key]
	return contents, ok
}

func (p *Portal) page(key string) string {
	contents, _ := p.lookup(key)
	return contents
}

func (p *Portal) serveLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Write([]byte(loginPage))
		return
	}

	err := r.ParseForm()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	valid := r.PostForm.Get("NoDA") == p.Username &&
		r.PostForm.Get("PasswordEtu") == p.Password &&
		r.PostForm.Get("TypeIdentification") == "Etudiant" &&
		r.PostForm.Get("TypeLogin") == "PostSolutionLogin" &&
		r.PostForm.Get("k") == loginToken
	if !valid {
		w.Write([]byte(strings.Replace(loginPage, "<!-- error -->", "Invalid credentials.", 1)))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookie,
		Value: sessionCookieVal,
		Path:  "/",
	})
	http.Redirect(w, r, HomePath, http.StatusFound)
}
