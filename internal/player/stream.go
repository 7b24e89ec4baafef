package player

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Stream is a push subscription to snapshot updates over a websocket.
type Stream struct {
	conn *websocket.Conn
}

// Dial opens a push subscription.
func Dial(ctx context.Context, streamURL string, header http.Header) (*Stream, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: requestTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, streamURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial stream: status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial stream: %w", err)
	}
	return &Stream{conn: conn}, nil
}

// Next blocks until the next payload arrives or the deadline passes. A missed
// deadline surfaces as a timeout error and leaves the stream unusable.
func (s *Stream) Next(deadline time.Time) (Partial, error) {
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return Partial{}, fmt.Errorf("set read deadline: %w", err)
	}
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return Partial{}, fmt.Errorf("read stream: %w", err)
	}
	return DecodePartial(data)
}

// Close tears down the connection.
func (s *Stream) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}
