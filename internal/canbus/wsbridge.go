package canbus

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ossmdev/ossmcfg/internal/logging"
)

// BridgePath is the WebSocket endpoint served by ossm-bridge.
const BridgePath = "/can"

// WSBridge is a Bus backed by an ossm-bridge daemon, for testers that have
// no local CAN hardware. A reader goroutine pumps incoming frames into a
// buffered channel so Recv can honour a per-attempt timeout.
type WSBridge struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	frames  chan Frame

	closeOnce sync.Once
	closed    chan struct{}
	readErr   error
}

// DialBridge connects to an ossm-bridge endpoint, e.g. "192.168.1.20:8443".
func DialBridge(hostport string) (*WSBridge, error) {
	u := url.URL{Scheme: "ws", Host: hostport, Path: BridgePath}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial CAN bridge %s: %w", u.String(), err)
	}

	b := &WSBridge{
		conn:   conn,
		frames: make(chan Frame, 256),
		closed: make(chan struct{}),
	}
	go b.readLoop()

	logging.Info("Connected to CAN bridge", zap.String("endpoint", u.String()))
	return b, nil
}

func (b *WSBridge) readLoop() {
	defer close(b.frames)
	for {
		msgType, data, err := b.conn.ReadMessage()
		if err != nil {
			b.readErr = err
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		frame, err := UnmarshalWire(data)
		if err != nil {
			logging.Warn("Dropping malformed bridge frame", zap.Error(err))
			continue
		}
		select {
		case b.frames <- frame:
		case <-b.closed:
			return
		default:
			// Monitor traffic can outpace a slow consumer; drop rather
			// than stall the socket.
		}
	}
}

// Send transmits one frame through the bridge.
func (b *WSBridge) Send(frame Frame) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := b.conn.WriteMessage(websocket.BinaryMessage, MarshalWire(frame)); err != nil {
		return fmt.Errorf("bridge send: %w", err)
	}
	return nil
}

// Recv waits up to timeout for the next frame relayed by the bridge.
func (b *WSBridge) Recv(timeout time.Duration) (*Frame, error) {
	select {
	case frame, ok := <-b.frames:
		if !ok {
			return nil, fmt.Errorf("bridge connection lost: %w", b.readErr)
		}
		return &frame, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

func (b *WSBridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.closed)
		err = b.conn.Close()
	})
	return err
}
