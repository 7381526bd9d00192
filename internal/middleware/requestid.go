package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const requestIDKey ctxKey = 1

const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 64

// RequestID reuses a well-formed caller id or issues a new UUID. The request
// context also carries a logger tagged with that id; see Log.
func RequestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(RequestIDHeader)
			if !validRequestID(rid) {
				rid = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			ctx = logger.With().Str("rid", rid).Logger().WithContext(ctx)
			w.Header().Set(RequestIDHeader, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ids end up in log lines and response headers: short, no spaces or controls
func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

func GetRequestID(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Log returns the request-scoped logger, or fallback when the request did not
// pass through RequestID.
func Log(r *http.Request, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
