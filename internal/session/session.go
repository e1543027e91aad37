// Package session issues and verifies the signed cookie that carries the
// signed-in principal between requests.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/light-bringer/procat-web/internal/pkg/clock"
)

// CookieName is the name of the session cookie.
const CookieName = "procat_session"

var ErrInvalidSession = errors.New("invalid or expired session")

// Principal is the authenticated identity of a request.
type Principal struct {
	UserID string
	Email  string
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs sessions as HS256 JWTs.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	clock  clock.Clock
}

// NewManager creates a new Manager.
func NewManager(secret string, ttl time.Duration, secure bool, clk clock.Clock) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		clock:  clk,
	}
}

// Issue returns a signed token for p and its expiry.
func (m *Manager) Issue(p Principal) (string, time.Time, error) {
	now := m.clock.Now()
	expires := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies token and returns its principal.
func (m *Manager) Parse(token string) (*Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if c.Email == "" {
		return nil, ErrInvalidSession
	}
	return &Principal{UserID: c.Subject, Email: c.Email}, nil
}

// Cookie wraps a token issued by Issue.
func (m *Manager) Cookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
