// Package websocket implements the client transport interfaces on top
// of gorilla/websocket. WebSocket close status codes map directly onto
// the client's close-code semantics.
package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/v09-software/rpc-websockets/pkg/client"
)

// Dialer implements client.Dialer for WebSocket endpoints.
type Dialer struct{}

func NewDialer() *Dialer {
	return &Dialer{}
}

func (d *Dialer) Dial(ctx context.Context, url string, opts client.DialOptions) (client.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: opts.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		return nil, err
	}

	return &Conn{
		conn: conn,
		mu:   &sync.Mutex{},
	}, nil
}

// Conn implements client.Conn for a single WebSocket connection.
type Conn struct {
	conn *websocket.Conn
	mu   *sync.Mutex
}

func (c *Conn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) ReadMessage() ([]byte, error) {
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			// release the socket once the read side is done
			_ = c.conn.Close()

			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return nil, &client.CloseError{Code: ce.Code, Reason: ce.Text}
			}
			return nil, err
		}
		if mt != websocket.TextMessage {
			// JSON-RPC traffic is carried in text frames only
			continue
		}
		return data, nil
	}
}

// Close sends a close frame with the given status code. The peer's
// echoed close frame surfaces through ReadMessage as a *CloseError,
// which tears down the underlying socket.
func (c *Conn) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		deadline,
	)
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		// the handshake cannot even start; tear down hard
		closeErr := c.conn.Close()
		if closeErr != nil {
			return closeErr
		}
		return err
	}
	return nil
}
