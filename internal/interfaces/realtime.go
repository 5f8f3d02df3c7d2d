package interfaces

import "context"

// RealtimeConn is a single established duplex message connection.
type RealtimeConn interface {
	// ReadMessage blocks until the next inbound message arrives.
	ReadMessage() ([]byte, error)

	// WriteMessage sends a single text message.
	WriteMessage(data []byte) error

	// Close tears the connection down. Any blocked ReadMessage returns an
	// error afterwards.
	Close() error
}

// RealtimeDialer establishes realtime connections. The default
// implementation dials the platform's websocket endpoint; tests substitute
// scripted connections.
type RealtimeDialer interface {
	Dial(ctx context.Context, url string) (RealtimeConn, error)
}
