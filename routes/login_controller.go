package routes

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mbolis/museum-survey/app"
	"github.com/mbolis/museum-survey/httpx"
	"github.com/mbolis/museum-survey/log"
)

var reRefresh = regexp.MustCompile(`(?i)^refresh\s+(.*)`)

// Login exchanges basic auth credentials for a bearer token pair.
func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		asGrant(r, url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		})
		app.UserCredentials(w, r)
	}
}

// Refresh takes "Authorization: Refresh <token>" and issues a new pair.
func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match := reRefresh.FindStringSubmatch(r.Header.Get("authorization"))
		if len(match) == 0 {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}

		asGrant(r, url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {match[1]},
		})

		resp := httpx.NewResponseBuffer()
		app.UserCredentials(resp, r)
		if resp.Status() == http.StatusUnauthorized {
			log.Debug("refresh.rejected")
		}
		if err := resp.Flush(w); err != nil {
			log.Errorf("refresh.flush: %s", err)
		}
	}
}

// asGrant rewrites r into the form-encoded token request the bearer
// server expects.
func asGrant(r *http.Request, grant url.Values) {
	body := grant.Encode()
	r.Body = io.NopCloser(strings.NewReader(body))
	r.ContentLength = int64(len(body))
	r.Header.Del("authorization")
	r.Header.Set("content-type", "application/x-www-form-urlencoded")
	r.Header.Set("content-length", strconv.Itoa(len(body)))
}
