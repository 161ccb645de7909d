package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Standard close status codes. Any code other than CloseNormalClosure
// counts as an abnormal closure and is subject to the reconnect policy.
const (
	CloseNormalClosure   = 1000
	CloseAbnormalClosure = 1006
)

// Conn represents a live full-duplex message connection.
type Conn interface {
	// ReadMessage blocks until the next message arrives. When the
	// connection terminates it returns a *CloseError carrying the
	// status code, or the underlying transport error if no close
	// status is available.
	ReadMessage() ([]byte, error)

	// WriteMessage sends a single message to the remote peer.
	WriteMessage(data []byte) error

	// Close initiates the closing handshake with the given status code
	// and reason.
	Close(code int, reason string) error
}

// Dialer establishes outgoing connections for the client.
type Dialer interface {
	Dial(ctx context.Context, url string, opts DialOptions) (Conn, error)
}

// DialOptions are passed through opaquely to the transport.
type DialOptions struct {
	Header           http.Header
	HandshakeTimeout time.Duration
}

// CloseError reports that the connection terminated with the given
// status code.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("connection closed: code=%d reason=%q", e.Code, e.Reason)
}
