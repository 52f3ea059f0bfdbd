package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie
const CookieName = "money-super-hero-session"

// DefaultMaxAge is the session lifetime used when none is configured
const DefaultMaxAge = 24 * time.Hour

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// Claims is the payload of a session token
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed session cookies
type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a session manager. A non-positive maxAge falls back to DefaultMaxAge.
func NewManager(secret string, maxAge time.Duration, secure bool) *Manager {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Manager{
		secret: []byte(secret),
		maxAge: maxAge,
		secure: secure,
		now:    time.Now,
	}
}

// Issue signs a session token for email
func (m *Manager) Issue(email string) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a session token and returns its claims
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// ClaimsFromRequest verifies the request's session cookie and returns its claims
func (m *Manager) ClaimsFromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	return m.Parse(cookie.Value)
}

// FromRequest returns the email carried by the request's session cookie
func (m *Manager) FromRequest(r *http.Request) (string, error) {
	claims, err := m.ClaimsFromRequest(r)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// NewCookie builds the session cookie carrying token
func (m *Manager) NewCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		Expires:  m.now().Add(m.maxAge),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that removes the session from the client
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
