package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shrush07/puff-n-sip-backend/internal/auth"
	"github.com/shrush07/puff-n-sip-backend/internal/domain"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	guestTokenKey
)

// GuestTokenHeader carries the anonymous session token for guest carts.
// The middleware mints one on first contact and echoes it back; clients
// must resend it to keep the same cart.
const GuestTokenHeader = "X-Guest-Token"

// IdentityMiddleware resolves the caller. A bearer token is verified and
// becomes an Identity in the request context; an invalid token is a hard
// 401. Without a token the caller proceeds as a guest.
func IdentityMiddleware(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				raw := strings.TrimPrefix(authHeader, "Bearer ")
				if raw == authHeader {
					respondError(w, http.StatusUnauthorized, "invalid_request", "malformed authorization header")
					return
				}

				identity, err := verifier.Verify(raw)
				if err != nil {
					respondError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
					return
				}

				ctx := context.WithValue(r.Context(), identityKey, identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token := r.Header.Get(GuestTokenHeader)
			if token == "" {
				token = uuid.NewString()
			}
			w.Header().Set(GuestTokenHeader, token)

			ctx := context.WithValue(r.Context(), guestTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects guests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFromContext(r.Context()); !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects everyone without the admin flag.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !identity.IsAdmin {
			respondError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}

// ownerKeyFromContext maps the resolved caller to the cart/order
// partition key: user id for authenticated callers, guest token
// otherwise.
func ownerKeyFromContext(ctx context.Context) (domain.OwnerKey, bool) {
	if identity, ok := identityFromContext(ctx); ok {
		return domain.OwnerForUser(identity.SubjectID), true
	}
	if token, ok := ctx.Value(guestTokenKey).(string); ok && token != "" {
		return domain.OwnerForGuest(token), true
	}
	return "", false
}

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := float64(time.Since(start).Milliseconds())
		httpRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}
