package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256

	// Close reason sent when the owner's session runs out
	sessionExpiredReason = "session expired"
)

// ErrSendBufferFull is returned when a slow client cannot keep up with events
var ErrSendBufferFull = errors.New("client send buffer is full")

// Client is one user's live connection. Events flow one way, server to
// browser. The connection is closed when the session that opened it expires,
// so a signed-out or expired user stops receiving that user's events.
type Client struct {
	id        string
	userID    int32
	expiresAt time.Time
	conn      *websocket.Conn
	hub       *Hub
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client for userID. A zero expiresAt keeps the
// connection open until either side closes it.
func NewClient(conn *websocket.Conn, userID int32, expiresAt time.Time, hub *Hub) *Client {
	return &Client{
		id:        uuid.New().String(),
		userID:    userID,
		expiresAt: expiresAt,
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
	}
}

// ID returns the connection id
func (c *Client) ID() string {
	return c.id
}

// UserID returns the owner of the connection
func (c *Client) UserID() int32 {
	return c.userID
}

// Send queues data for the write pump without blocking
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendBufferFull
	}
}

// Close stops both pumps and closes the connection. It may be called more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// IsClosed reports whether Close has been called
func (c *Client) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Serve runs the write pump in the background and the read pump on the
// calling goroutine. It returns once the connection is gone.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.ClosePolicyViolation) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Int32("user_id", c.userID).
					Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	var expired <-chan time.Time
	if !c.expiresAt.IsZero() {
		timer := time.NewTimer(time.Until(c.expiresAt))
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case message := <-c.send:
			if err := c.write(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Int32("user_id", c.userID).
					Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-expired:
			log.Info().
				Str("client_id", c.id).
				Int32("user_id", c.userID).
				Msg("WebSocket session expired")
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, sessionExpiredReason))
			return

		case <-c.done:
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}
