// Package auth protects the trigger API with HS256 bearer tokens.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
	"notify-triggers/internal/config"
)

// Issuer is stamped on every token this service signs
const Issuer = "notify-triggers"

// DefaultTokenTTL is used when GenerateJWT is given a non-positive ttl
const DefaultTokenTTL = 24 * time.Hour

// Claims are the JWT claims accepted by the API
type Claims struct {
	jwt.RegisteredClaims
}

// Auth signs and verifies bearer tokens. A zero secret disables
// authentication entirely.
type Auth struct {
	secret []byte
	now    func() time.Time
}

func New(cfg *config.Config) *Auth {
	a := &Auth{now: time.Now}
	if cfg != nil && cfg.AuthEnabled() {
		a.secret = []byte(cfg.JWTSecret)
	}
	return a
}

// Enabled reports whether requests must carry a token
func (a *Auth) Enabled() bool {
	return len(a.secret) > 0
}

// GenerateJWT signs a token for subject
func (a *Auth) GenerateJWT(subject string, ttl time.Duration) (string, error) {
	if !a.Enabled() {
		return "", errors.ConfigError("JWT_SECRET is not configured")
	}
	if subject == "" {
		return "", errors.ValidationError("token subject is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := a.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.InternalError("failed to sign token", err)
	}
	return signed, nil
}

// ValidateJWT parses tokenString and checks signature, issuer and expiry
func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	if !a.Enabled() {
		return nil, errors.ConfigError("JWT_SECRET is not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, &errors.AppError{
			Type:    errors.ErrTypeAuth,
			Message: "invalid token",
			Cause:   err,
		}
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.AuthError("invalid token")
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject in the request context under logging.SubjectKey
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			unauthorized(w, r, "Authentication required")
			return
		}

		claims, err := a.ValidateJWT(strings.TrimSpace(tokenString))
		if err != nil {
			logging.WithContext(r.Context()).Warn("Rejected bearer token", logging.Err(err))
			unauthorized(w, r, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), logging.SubjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SubjectFromContext returns the authenticated subject, or "" for anonymous requests
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(logging.SubjectKey).(string)
	return subject
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="`+Issuer+`"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  "unauthorized",
	})
}
