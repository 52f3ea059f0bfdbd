package handler

import (
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/moneysuperhero/money-super-hero-backend/internal/session"
	"github.com/moneysuperhero/money-super-hero-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SessionClaimsReader verifies the session cookie of a request
type SessionClaimsReader interface {
	ClaimsFromRequest(r *http.Request) (*session.Claims, error)
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	sessions       SessionClaimsReader
	users          UserResolver
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, sessions SessionClaimsReader, users UserResolver, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		sessions:       sessions,
		users:          users,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS upgrades a request carrying a valid session cookie
// GET /api/ws
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	claims, err := h.sessions.ClaimsFromRequest(c.Request())
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid session")
		return NewUnauthorizedError(c, "Authentication required")
	}

	auth, err := h.users.ResolveUser(c.Request().Context(), claims.Email)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: unknown user")
		return NewUnauthorizedError(c, "Authentication required")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Int32("user_id", auth.UserID).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, auth.UserID, sessionExpiry(claims), h.hub)
	h.hub.Register(client)

	log.Info().
		Int32("user_id", auth.UserID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.Serve()

	return nil
}

func sessionExpiry(claims *session.Claims) time.Time {
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
