package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport is one open streaming connection to the assistant.
type Transport interface {
	// ReadMessage blocks until the next text frame arrives or the connection fails.
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens transports.
type Dialer interface {
	Dial(ctx context.Context, url string) (Transport, error)
}

// IsCleanClose reports a normal remote close, as opposed to a transport failure.
func IsCleanClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// WSDialer dials gorilla websocket transports.
type WSDialer struct {
	dialer       *websocket.Dialer
	writeTimeout time.Duration
}

// NewWSDialer builds a dialer with the given handshake and per-write timeouts.
func NewWSDialer(handshake, writeTimeout time.Duration) *WSDialer {
	d := *websocket.DefaultDialer
	if handshake > 0 {
		d.HandshakeTimeout = handshake
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &WSDialer{dialer: &d, writeTimeout: writeTimeout}
}

// Dial opens a websocket to url.
func (d *WSDialer) Dial(ctx context.Context, url string) (Transport, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsTransport{conn: conn, writeTimeout: d.writeTimeout}, nil
}

type wsTransport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
	closeOnce    sync.Once
	closeErr     error
}

func (t *wsTransport) ReadMessage() ([]byte, error) {
	for {
		msgType, data, err := t.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (t *wsTransport) WriteJSON(v any) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
		return err
	}
	return t.conn.WriteJSON(v)
}

func (t *wsTransport) Close() error {
	t.closeOnce.Do(func() {
		t.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		t.writeMu.Unlock()
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
