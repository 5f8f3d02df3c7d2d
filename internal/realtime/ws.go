package realtime

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"kicklive/internal/interfaces"
)

// WSDialer dials the platform's websocket endpoint with gorilla/websocket.
// Extra headers (user agent, origin) are attached to the handshake.
type WSDialer struct {
	Header http.Header
}

// Dial establishes a websocket connection to url.
func (d *WSDialer) Dial(ctx context.Context, url string) (interfaces.RealtimeConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, d.Header)
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts *websocket.Conn to the RealtimeConn interface. Writes are
// serialized because gorilla connections allow only one concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
