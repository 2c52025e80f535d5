package canbus

import (
	"errors"
	"fmt"
	"time"
)

// ErrBusClosed is returned by Send and Recv after Close.
var ErrBusClosed = errors.New("canbus: bus closed")

// Frame is a single classic CAN frame. The OSSM protocol uses extended
// (29-bit) identifiers exclusively, but the transports pass every frame
// through so the monitor can observe broadcast traffic from other nodes.
type Frame struct {
	ID       uint32
	Extended bool
	DLC      uint8
	Data     [8]byte
}

// Payload returns the valid data bytes according to the DLC.
func (f *Frame) Payload() []byte {
	n := f.DLC
	if n > 8 {
		n = 8
	}
	return f.Data[:n]
}

func (f *Frame) String() string {
	return fmt.Sprintf("%08X#% X", f.ID, f.Payload())
}

// Bus is the transport used by the commander and the monitor.
//
// Recv blocks for at most the given timeout and returns (nil, nil) when no
// frame arrived in time; a non-nil error means the transport itself failed.
// Implementations: SocketCAN (Linux), the WebSocket bridge client, and an
// in-memory loopback used by tests.
type Bus interface {
	Send(frame Frame) error
	Recv(timeout time.Duration) (*Frame, error)
	Close() error
}
