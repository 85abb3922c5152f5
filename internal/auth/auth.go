// Package auth is the authentication collaborator boundary. It verifies
// bearer tokens and places the verified requester identity on the request
// context; the lifecycle core trusts the result and performs no credential
// checking of its own. Requests without credentials proceed as anonymous,
// since public items are readable without an identity.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-hclog"
)

type contextKey int

const userEmailKey contextKey = iota

// WithUserEmail returns a context carrying the verified requester email.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// UserEmailFromContext returns the verified requester email, if any.
func UserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok
}

// MustGetUserEmail returns the verified requester email, or the empty string
// for anonymous requests.
func MustGetUserEmail(ctx context.Context) string {
	email, _ := UserEmailFromContext(ctx)
	return email
}

// Middleware verifies the Authorization bearer token (HMAC-signed JWT) and
// stores the subject email on the request context. A missing header yields an
// anonymous request; a present but invalid token is rejected outright.
func Middleware(next http.Handler, secret []byte, log hclog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(WithUserEmail(r.Context(), "")))
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header {
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		email, err := VerifyToken(raw, secret)
		if err != nil {
			log.Warn("rejected bearer token",
				"path", r.URL.Path,
				"error", err,
			)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserEmail(r.Context(), email)))
	})
}

// VerifyToken validates an HMAC-signed JWT and returns its subject email.
func VerifyToken(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// NewToken issues an HMAC-signed JWT for email, valid for ttl. Used by the
// dev server and tests; production deployments verify tokens issued by the
// identity provider.
func NewToken(email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(secret)
}
