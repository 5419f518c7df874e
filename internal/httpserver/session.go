package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errUnauthorized = errors.New("no valid session")
	errBadRequest   = errors.New("bad request")
)

// sessionClaims ties a browser to one stored game session.
type sessionClaims struct {
	SessionID   string `json:"sid"`
	ParagraphID string `json:"pid"`
	jwt.RegisteredClaims
}

// signSession creates an HS256 token for sid, valid for SessionTTL.
func (s *Server) signSession(sid, pid string) (string, time.Time, error) {
	now := s.opts.Now()
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID:   sid,
		ParagraphID: pid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString(s.opts.SigningKey)
	if err != nil {
		return "", exp, fmt.Errorf("sign session: %w", err)
	}
	return ss, exp, nil
}

// parseSession validates a token and returns its claims.
func (s *Server) parseSession(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.opts.SigningKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.opts.Now),
	)
	if err != nil || !t.Valid || claims.SessionID == "" {
		return nil, errUnauthorized
	}
	return claims, nil
}

// setSessionCookie writes the session token cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- session middleware ----------------------------

type ctxSessionKey struct{}

// currentClaims returns the claims placed in context by the session middleware.
func currentClaims(ctx context.Context) *sessionClaims {
	c, _ := ctx.Value(ctxSessionKey{}).(*sessionClaims)
	return c
}

// withOptionalSession decorates the request with session claims when a valid
// token is present. It never rejects.
func (s *Server) withOptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if c, err := s.parseSession(tok); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, c))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession enforces a valid token.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, r, errUnauthorized, nil)
			return
		}
		c, err := s.parseSession(tok)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, c)))
	})
}
