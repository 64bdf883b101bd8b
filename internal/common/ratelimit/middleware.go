package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"notify-triggers/internal/common/logging"
)

// HTTPMiddleware rejects requests with 429 once the key's bucket is empty
func HTTPMiddleware(limiter *Limiter, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			logging.WithContext(r.Context()).Warn("Rate limit exceeded", logging.Field{Key: "key", Value: key})

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.RequestsPerSecond()))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Rate limit exceeded",
				"code":  "rate_limited",
			})
		})
	}
}

// ClientKey keys authenticated requests by token subject and anonymous ones
// by client IP
func ClientKey(r *http.Request) string {
	if subject, ok := r.Context().Value(logging.SubjectKey).(string); ok && subject != "" {
		return "subject:" + subject
	}
	return "ip:" + IPKey(r)
}

// IPKey extracts the client IP, preferring the first X-Forwarded-For hop
func IPKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
