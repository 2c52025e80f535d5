package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// sendQueueSize bounds per-client buffering before frames are dropped
	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
	// The bridge serves trusted LAN clients only
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one connected WebSocket peer
type client struct {
	conn       *websocket.Conn
	remoteAddr string
	send       chan []byte
	closing    chan struct{}
	closeOnce  sync.Once
	dropped    uint64 // guarded by Server.mu
}

// handleCAN upgrades the HTTP request and runs the relay loops for one client
func (s *Server) handleCAN(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		conn:       conn,
		remoteAddr: r.RemoteAddr,
		send:       make(chan []byte, sendQueueSize),
		closing:    make(chan struct{}),
	}

	s.addClient(c)
	defer func() {
		s.removeClient(c)
		c.close()
	}()

	go c.writePump()
	s.readPump(c)
}

// readPump reads frames from the client and writes them to the CAN interface
func (s *Server) readPump(c *client) {
	c.conn.SetReadLimit(canbus.WireFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Client read error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		frame, err := canbus.UnmarshalWire(data)
		if err != nil {
			logging.Warn("Malformed bridge frame from client",
				zap.String("remote_addr", c.remoteAddr),
				zap.Error(err),
			)
			continue
		}

		logging.LogCANFrame("tx", frame.ID, frame.Payload())

		if err := s.bus.Send(frame); err != nil {
			logging.Error("CAN interface write failed",
				zap.String("remote_addr", c.remoteAddr),
				zap.Error(err),
			)
			return
		}
	}
}

// writePump drains the client's send queue and keeps the connection alive
// with periodic pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closing:
			return
		}
	}
}

// close signals the write pump to exit and closes the connection
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closing)
		_ = c.conn.Close()
	})
}
