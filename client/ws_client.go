package client

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"polysniper/logger"
)

const wsPingInterval = 50 * time.Second

// wsConn wraps a gorilla connection with a write lock and a keepalive loop.
// The CLOB websocket drops idle connections after about a minute, so a text
// PING is sent on a fixed interval.
type wsConn struct {
	url  string
	log  logger.Logger
	conn *websocket.Conn

	writeMu sync.Mutex
	done    chan struct{}
}

func newWSConn(url string, log logger.Logger) *wsConn {
	return &wsConn{
		url:  url,
		log:  log,
		done: make(chan struct{}),
	}
}

func (w *wsConn) connect() error {
	conn, resp, err := websocket.DefaultDialer.Dial(w.url, http.Header{})
	if err != nil {
		if resp != nil {
			w.log.Error("ws_dial_failed", "url", w.url, "status", resp.Status, "err", err)
		}
		return err
	}
	w.conn = conn
	w.log.Info("ws_connected", "url", w.url)

	go w.keepalive()
	return nil
}

func (w *wsConn) writeJSON(v any) error {
	if w.conn == nil {
		return websocket.ErrBadHandshake
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.conn.WriteJSON(v)
}

func (w *wsConn) readMessage() ([]byte, error) {
	if w.conn == nil {
		return nil, websocket.ErrBadHandshake
	}
	_, msg, err := w.conn.ReadMessage()
	return msg, err
}

func (w *wsConn) close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

func (w *wsConn) keepalive() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.writeMu.Lock()
			err := w.conn.WriteMessage(websocket.TextMessage, []byte("PING"))
			w.writeMu.Unlock()
			if err != nil {
				w.log.Error("ws_ping_failed", "url", w.url, "err", err)
				return
			}
		}
	}
}
