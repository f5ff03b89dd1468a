package middleware

import (
	"errors"
	"net"
	"net/http"

	"github.com/windward-game/windward/internal/api/apierr"
	"github.com/windward-game/windward/internal/metrics"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/ratelimit"
)

// ActionRateLimit caps gameplay actions per authenticated player and
// globally across all players. Requires the auth middleware upstream.
func ActionRateLimit(limiter *ratelimit.Service, userLimit, globalLimit ratelimit.Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			player := MustGetPlayer(r.Context())

			if _, err := limiter.AllowUser(r.Context(), player.ID, userLimit); err != nil {
				writeLimitError(w, err, "user")
				return
			}
			if _, err := limiter.AllowGlobal(r.Context(), globalLimit); err != nil {
				writeLimitError(w, err, "global")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPRateLimit caps unauthenticated requests by remote address. Used on
// signup and login routes.
func IPRateLimit(limiter *ratelimit.Service, limit ratelimit.Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := limiter.AllowIP(r.Context(), clientIP(r), limit); err != nil {
				writeLimitError(w, err, "ip")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeLimitError(w http.ResponseWriter, err error, scope string) {
	var limitErr *model.RateLimitError
	if errors.As(err, &limitErr) {
		metrics.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
	}
	apierr.WriteError(w, err)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
