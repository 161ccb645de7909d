// Package client implements a JSON-RPC 2.0 client over a persistent
// full-duplex message connection. It correlates asynchronous calls with
// out-of-order responses, fans server-pushed notifications out to local
// listeners, and keeps the connection alive through a policy-driven
// reconnection loop.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/v09-software/rpc-websockets/pkg/jsonrpc"
	"github.com/v09-software/rpc-websockets/pkg/log"
)

// Lifecycle events emitted on the client's own listener registry,
// alongside server-pushed notifications.
const (
	EventOpen  = "open"
	EventError = "error"
	EventClose = "close"
)

// Meta-protocol methods and the acknowledgement value the server
// returns for a granted subscription.
const (
	methodSubscribe   = "rpc.on"
	methodUnsubscribe = "rpc.off"
	ackOK             = "ok"
)

type Config struct {
	// URL of the remote endpoint, passed verbatim to the Dialer on
	// every connection attempt.
	URL string

	// Dialer establishes transport connections. Required.
	Dialer Dialer

	// DialOptions are handed through opaquely to the Dialer.
	DialOptions DialOptions

	// Reconnect controls retry behavior after abnormal closures.
	Reconnect ReconnectPolicy

	// Logger is optional; a nil logger disables logging.
	Logger log.Logger
}

// Client is a single connection instance. All correlation state (the
// id counter, the pending-call map, the listener registry) is owned by
// the instance; independent clients never share state.
type Client struct {
	conf     Config
	registry *registry
	events   *emitter

	mu       sync.Mutex
	state    State
	conn     Conn
	attempts int
	retry    *time.Timer
	halted   bool
}

func NewClient(conf Config) *Client {
	if conf.Dialer == nil {
		panic("client: Config.Dialer is required")
	}
	return &Client{
		conf:     conf,
		registry: newRegistry(),
		events:   newEmitter(),
	}
}

// Connect dials the configured URL and starts the read loop. On
// success the client transitions to Open and emits EventOpen. A failed
// attempt counts as an abnormal closure and is subject to the
// reconnect policy.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	c.halted = false
	c.mu.Unlock()
	return c.connect(ctx)
}

func (c *Client) connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Open || c.state == Connecting {
		c.mu.Unlock()
		return fmt.Errorf("client: already %s", c.state)
	}
	c.state = Connecting
	c.mu.Unlock()

	c.logDebug("connecting to " + c.conf.URL)
	conn, err := c.conf.Dialer.Dial(ctx, c.conf.URL, c.conf.DialOptions)
	if err != nil {
		c.logError("dial failed: " + err.Error())
		c.events.emit(EventError, err)
		c.handleClose(CloseAbnormalClosure, err.Error())
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.state = Open
	c.attempts = 0
	c.mu.Unlock()

	c.logInfo("connection open")
	c.events.emit(EventOpen)

	go c.readLoop(conn)

	return nil
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// On attaches a listener for the named event. Server-pushed
// notifications and the lifecycle events share the same registry.
func (c *Client) On(event string, fn Handler) {
	c.events.on(event, fn)
}

// Once attaches a listener that is removed after its first invocation.
func (c *Client) Once(event string, fn Handler) {
	c.events.once(event, fn)
}

// Off removes all listeners for the named event.
func (c *Client) Off(event string) {
	c.events.off(event)
}

// Call issues a request and blocks until the matching response arrives
// or ctx is done. It fails immediately with ErrNotConnected when the
// connection is not open; a send failure surfaces as the call's error
// and leaves no pending entry behind.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	raw, err := encodeParams(params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state != Open {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	conn := c.conn

	id := c.registry.next()
	bs, err := json.Marshal(jsonrpc.NewRequest(id, method, raw))
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("client: encode request: %w", err)
	}

	ch := c.registry.add(id)
	if err := conn.WriteMessage(bs); err != nil {
		c.registry.remove(id)
		c.mu.Unlock()
		return nil, fmt.Errorf("client: send request %d: %w", id, err)
	}
	c.mu.Unlock()

	c.logDebug(fmt.Sprintf("sent request %d method %q", id, method))

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.result, nil
	case <-ctx.Done():
		c.registry.remove(id)
		return nil, ctx.Err()
	}
}

// Notify sends a fire-and-forget notification. It returns once the
// transport accepts the message, independent of any server action.
func (c *Client) Notify(method string, params interface{}) error {
	raw, err := encodeParams(params)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Open {
		return ErrNotConnected
	}

	bs, err := json.Marshal(jsonrpc.NewNotification(method, raw))
	if err != nil {
		return fmt.Errorf("client: encode notification: %w", err)
	}
	if err := c.conn.WriteMessage(bs); err != nil {
		return fmt.Errorf("client: send notification %q: %w", method, err)
	}
	return nil
}

// Subscribe asks the server to push the named event to this client. It
// succeeds only when the server acknowledges the event with "ok".
func (c *Client) Subscribe(ctx context.Context, event string) error {
	return c.subscription(ctx, methodSubscribe, event)
}

// Unsubscribe cancels a server-side subscription for the named event.
func (c *Client) Unsubscribe(ctx context.Context, event string) error {
	return c.subscription(ctx, methodUnsubscribe, event)
}

func (c *Client) subscription(ctx context.Context, method string, event string) error {
	result, err := c.Call(ctx, method, []string{event})
	if err != nil {
		return err
	}

	var acks map[string]interface{}
	if err := json.Unmarshal(result, &acks); err != nil {
		return fmt.Errorf("client: decode %s ack: %w", method, err)
	}
	if ack, ok := acks[event].(string); !ok || ack != ackOK {
		return &SubscriptionError{Event: event, Ack: fmt.Sprintf("%v", acks[event])}
	}
	return nil
}

// Close requests transport closure with the given status code. A code
// of CloseNormalClosure is the only path guaranteed to suppress
// reconnection; it also cancels any pending reconnect timer.
func (c *Client) Close(code int, reason string) error {
	c.mu.Lock()
	c.halted = true
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	if c.state != Open {
		c.mu.Unlock()
		return nil
	}
	c.state = Closing
	conn := c.conn
	c.mu.Unlock()

	c.logDebug(fmt.Sprintf("closing connection: code=%d", code))
	return conn.Close(code, reason)
}

// CloseNormal closes the connection with CloseNormalClosure.
func (c *Client) CloseNormal() error {
	return c.Close(CloseNormalClosure, "")
}

func (c *Client) readLoop(conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			var ce *CloseError
			if errors.As(err, &ce) {
				c.handleClose(ce.Code, ce.Reason)
				return
			}
			c.events.emit(EventError, err)
			c.handleClose(CloseAbnormalClosure, err.Error())
			return
		}
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	msg, kind, err := jsonrpc.Decode(data)
	if err != nil {
		// malformed payloads cannot be correlated to anything
		c.logDebug("discarding malformed message: " + err.Error())
		return
	}

	switch kind {
	case jsonrpc.KindNotification:
		args, err := msg.PositionalParams()
		if err != nil {
			c.logDebug("discarding notification with malformed params: " + err.Error())
			return
		}
		c.events.emit(msg.Notification, args...)
	case jsonrpc.KindResponse:
		if !c.registry.resolve(*msg.ID, msg.Result) {
			c.logDebug(fmt.Sprintf("dropping response for unknown request id %d", *msg.ID))
		}
	case jsonrpc.KindError:
		if !c.registry.reject(*msg.ID, &ServerError{Data: msg.Error}) {
			c.logDebug(fmt.Sprintf("dropping error for unknown request id %d", *msg.ID))
		}
	default:
		c.logDebug("discarding unclassifiable message")
	}
}

// handleClose runs once per terminated connection (or failed attempt):
// it transitions to Disconnected, emits EventClose, and schedules at
// most one reconnect attempt when the policy permits.
func (c *Client) handleClose(code int, reason string) {
	c.mu.Lock()
	c.conn = nil
	c.state = Disconnected
	c.mu.Unlock()

	c.logInfo(fmt.Sprintf("connection closed: code=%d reason=%q", code, reason))
	c.events.emit(EventClose, code, reason)

	if code == CloseNormalClosure {
		return
	}

	c.mu.Lock()
	c.attempts++
	scheduled := false
	if !c.halted && c.retry == nil && c.conf.Reconnect.permits(c.attempts) {
		c.retry = time.AfterFunc(c.conf.Reconnect.Interval, c.reconnect)
		scheduled = true
	}
	attempts := c.attempts
	c.mu.Unlock()

	if scheduled {
		c.logInfo(fmt.Sprintf("reconnect attempt %d scheduled in %s", attempts, c.conf.Reconnect.Interval))
	} else if c.conf.Reconnect.Enabled {
		c.logWarn(fmt.Sprintf("giving up after %d reconnect attempts", attempts-1))
	}
}

func (c *Client) reconnect() {
	c.mu.Lock()
	c.retry = nil
	if c.halted || c.state != Disconnected {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// a failed attempt re-enters handleClose, which schedules the next
	// retry if the policy still permits one
	_ = c.connect(context.Background())
}

func encodeParams(params interface{}) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("client: encode params: %w", err)
	}
	return raw, nil
}

func (c *Client) logDebug(msg string) {
	if c.conf.Logger != nil {
		c.conf.Logger.Debug(msg)
	}
}

func (c *Client) logInfo(msg string) {
	if c.conf.Logger != nil {
		c.conf.Logger.Info(msg)
	}
}

func (c *Client) logWarn(msg string) {
	if c.conf.Logger != nil {
		c.conf.Logger.Warn(msg)
	}
}

func (c *Client) logError(msg string) {
	if c.conf.Logger != nil {
		c.conf.Logger.Error(msg)
	}
}
