// Package jsonrpc defines the JSON-RPC 2.0 wire shapes: outbound
// requests and notifications, inbound responses, and server-pushed
// notifications.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol version stamped on every outbound message.
const Version = "2.0"

// Request is an outbound call expecting a response correlated by ID.
// IDs are positive, so omitempty never drops a real one.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      uint64          `json:"id"`
}

// Notification is an outbound fire-and-forget message. It is
// distinguished from Request solely by the absence of the id member.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func NewRequest(id uint64, method string, params json.RawMessage) Request {
	return Request{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
		ID:      id,
	}
}

func NewNotification(method string, params json.RawMessage) Notification {
	return Notification{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
	}
}

// Kind classifies an inbound message.
type Kind int

const (
	KindInvalid Kind = iota
	KindResponse
	KindError
	KindNotification
)

// Inbound is the decoded form of a message received from the server:
// either a response (success or error) correlated by id, or a
// server-pushed notification carrying a name and positional params.
type Inbound struct {
	ID           *uint64         `json:"id"`
	Result       json.RawMessage `json:"result"`
	Error        json.RawMessage `json:"error"`
	Notification string          `json:"notification"`
	Params       json.RawMessage `json:"params"`
}

// Decode parses and classifies an inbound payload. Payloads that are
// neither a response nor a pushed notification classify as KindInvalid.
func Decode(data []byte) (*Inbound, Kind, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, KindInvalid, fmt.Errorf("jsonrpc: decode message: %w", err)
	}

	if in.Notification != "" {
		return &in, KindNotification, nil
	}
	if in.ID != nil {
		if present(in.Error) {
			return &in, KindError, nil
		}
		return &in, KindResponse, nil
	}
	return &in, KindInvalid, nil
}

// PositionalParams expands the params member into its elements. A
// missing or null params member yields no arguments.
func (in *Inbound) PositionalParams() ([]interface{}, error) {
	if !present(in.Params) {
		return nil, nil
	}
	var args []interface{}
	if err := json.Unmarshal(in.Params, &args); err != nil {
		return nil, fmt.Errorf("jsonrpc: decode params: %w", err)
	}
	return args, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
