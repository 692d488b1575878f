// Package ws is the websocket transport to the room service.
package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	Subprotocol       = "tc"
	closeWriteTimeout = time.Second
)

// Conn is an indirection over *websocket.Conn to ease testing.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	WriteControl(mt int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens client connections with the headers the service expects.
type Dialer struct {
	Origin           string
	UserAgent        string
	HandshakeTimeout time.Duration
	ReadLimit        int64
}

func (d Dialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:             http.ProxyFromEnvironment,
		HandshakeTimeout:  d.HandshakeTimeout,
		Subprotocols:      []string{Subprotocol},
		EnableCompression: true,
	}
	header := http.Header{}
	if d.Origin != "" {
		header.Set("Origin", d.Origin)
	}
	if d.UserAgent != "" {
		header.Set("User-Agent", d.UserAgent)
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	if d.ReadLimit > 0 {
		conn.SetReadLimit(d.ReadLimit)
	}
	log.Info().Str("module", "adapters.ws").Str("endpoint", endpoint).Str("subprotocol", conn.Subprotocol()).Msg("connected")
	return conn, nil
}

// CloseGoingAway sends a going-away close frame and closes the connection.
func CloseGoingAway(c Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "GoingAway")
	if err := c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout)); err != nil {
		log.Debug().Err(err).Str("module", "adapters.ws").Msg("close frame")
	}
	return c.Close()
}

// IsTimeout reports whether err came from an expired read deadline.
func IsTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsClosed reports whether err is a normal end of the connection.
func IsClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, net.ErrClosed)
}
