package httpx

import (
	"net/http"
	"net/url"
	"time"

	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

// requestJar adapts one request/response pair to the CookieJar port. Reads
// come from the request; writes go to the response with the identity cookie
// policy: same-site-strict, app-wide path, readable by the page (the UI
// renders from the session endpoint, but legacy shells read the cookie
// directly, so it is not HttpOnly).
//
// The identity record is a JSON document, and JSON carries bytes a cookie
// value may not (quotes in particular; net/http drops them on write). Values
// are percent-encoded on Set and decoded on Get, compatible with
// encodeURIComponent/decodeURIComponent in browser shells.
type requestJar struct {
	w      http.ResponseWriter
	r      *http.Request
	domain string
}

func newRequestJar(w http.ResponseWriter, r *http.Request, domain string) *requestJar {
	return &requestJar{w: w, r: r, domain: domain}
}

var _ ports.CookieJar = (*requestJar)(nil)

func (j *requestJar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	value, err := url.PathUnescape(c.Value)
	if err != nil {
		// An unescapable value cannot be ours; read it as absent so the
		// session layer clears it.
		return "", false
	}
	return value, true
}

func (j *requestJar) Set(name, value string, expires time.Time) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    url.PathEscape(value),
		Path:     "/",
		Domain:   j.domain,
		Expires:  expires,
		SameSite: http.SameSiteStrictMode,
	})
}

func (j *requestJar) Delete(name string) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   j.domain,
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
	})
}
