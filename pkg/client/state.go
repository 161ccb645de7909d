package client

// State is the connection lifecycle state of a Client.
type State int

const (
	// Disconnected means no transport connection exists.
	Disconnected State = iota

	// Connecting means a connection attempt is in progress.
	Connecting

	// Open means the connection is established and calls may be issued.
	Open

	// Closing means a local close was requested and the closing
	// handshake is in progress.
	Closing
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}
