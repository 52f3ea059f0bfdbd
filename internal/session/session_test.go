package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)

	token, err := m.Issue("user@example.com")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user@example.com", claims.Subject)
}

func TestManager_Parse_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, false)
	verifier := NewManager("secret-b", time.Hour, false)

	token, err := issuer.Issue("user@example.com")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_Parse_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue("user@example.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_Parse_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_FromRequest(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.FromRequest(req)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("valid cookie", func(t *testing.T) {
		token, err := m.Issue("user@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(m.NewCookie(token))

		email, err := m.FromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", email)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc.def.ghi"})

		_, err := m.FromRequest(req)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestManager_ClaimsFromRequest(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	token, err := m.Issue("user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
	req.AddCookie(m.NewCookie(token))

	claims, err := m.ClaimsFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, issuedAt.Add(time.Hour), claims.ExpiresAt.Time.UTC())

	_, err = m.ClaimsFromRequest(httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Cookies(t *testing.T) {
	m := NewManager("test-secret", 0, true)

	cookie := m.NewCookie("token")
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, int(DefaultMaxAge.Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	cleared := m.ClearCookie()
	assert.Equal(t, CookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}
