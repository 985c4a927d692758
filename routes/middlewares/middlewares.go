package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
	"github.com/mbolis/museum-survey/httpx"
	"github.com/mbolis/museum-survey/log"
)

// Admin checks for a valid bearer token carrying the 'admin' role.
func Admin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), admin).Handler(next)
	}
}

func admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

		if !hasRole(claims["roles"], "admin") {
			httpx.LogStatus(w, http.StatusForbidden, log.DebugLevel, "auth.admin.forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func hasRole(rolesClaim, role string) bool {
	for _, r := range strings.Split(rolesClaim, ",") {
		if strings.TrimSpace(r) == role {
			return true
		}
	}
	return false
}
