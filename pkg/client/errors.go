package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotConnected is returned by Call and Notify when the connection is
// not open. No transmission is attempted.
var ErrNotConnected = errors.New("client: connection is not open")

// ServerError carries the error member of a response, untouched.
type ServerError struct {
	Data json.RawMessage
}

func (e *ServerError) Error() string {
	return "client: server error: " + string(e.Data)
}

// SubscriptionError reports an rpc.on/rpc.off acknowledgement other
// than "ok".
type SubscriptionError struct {
	Event string
	Ack   string
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("client: subscription to %q not acknowledged: %q", e.Event, e.Ack)
}
