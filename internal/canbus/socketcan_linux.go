//go:build linux

package canbus

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/ossmdev/ossmcfg/internal/logging"
)

// Kernel can_frame is 16 bytes: id(4) dlc(1) pad(3) data(8).
const rawFrameSize = 16

const (
	canEFFFlag = 0x80000000
	canRTRFlag = 0x40000000
	canERRFlag = 0x20000000
	canEFFMask = 0x1FFFFFFF
	canSFFMask = 0x000007FF
)

// SocketCAN is a raw CAN_RAW socket bound to one interface (e.g. "can0").
type SocketCAN struct {
	fd    int
	iface string
}

// OpenSocketCAN opens and binds a raw CAN socket on the named interface.
func OpenSocketCAN(iface string) (*SocketCAN, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, fmt.Errorf("lookup CAN interface %q: %w", iface, err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("open CAN_RAW socket: %w", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: ifi.Index}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %q: %w", iface, err)
	}

	logging.Debug("SocketCAN opened",
		zap.String("interface", iface),
		zap.Int("ifindex", ifi.Index),
	)

	return &SocketCAN{fd: fd, iface: iface}, nil
}

// Interface returns the bound interface name.
func (s *SocketCAN) Interface() string { return s.iface }

// Send writes one frame to the socket.
func (s *SocketCAN) Send(frame Frame) error {
	buf := marshalRawFrame(frame)
	if _, err := unix.Write(s.fd, buf); err != nil {
		return fmt.Errorf("send on %q: %w", s.iface, err)
	}
	return nil
}

// Recv waits up to timeout for one frame. Returns (nil, nil) when the wait
// elapses without traffic.
func (s *SocketCAN) Recv(timeout time.Duration) (*Frame, error) {
	pfd := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("poll %q: %w", s.iface, err)
	}
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, rawFrameSize)
	if _, err := unix.Read(s.fd, buf); err != nil {
		return nil, fmt.Errorf("read %q: %w", s.iface, err)
	}

	frame := unmarshalRawFrame(buf)
	if frame == nil {
		// Error or RTR frame, not interesting to us.
		return nil, nil
	}
	return frame, nil
}

// Flush drains any frames already queued on the socket.
func (s *SocketCAN) Flush() {
	for {
		frame, err := s.Recv(10 * time.Millisecond)
		if frame == nil || err != nil {
			return
		}
	}
}

func (s *SocketCAN) Close() error {
	return unix.Close(s.fd)
}

// marshalRawFrame packs a Frame into the kernel can_frame layout. The kernel
// struct is host byte order; SocketCAN targets are little-endian in practice.
func marshalRawFrame(frame Frame) []byte {
	id := frame.ID
	if frame.Extended {
		id = (id & canEFFMask) | canEFFFlag
	} else {
		id &= canSFFMask
	}

	buf := make([]byte, rawFrameSize)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	dlc := frame.DLC
	if dlc > 8 {
		dlc = 8
	}
	buf[4] = dlc
	copy(buf[8:], frame.Data[:])
	return buf
}

func unmarshalRawFrame(buf []byte) *Frame {
	if len(buf) < rawFrameSize {
		return nil
	}

	rawID := binary.LittleEndian.Uint32(buf[0:4])
	if rawID&(canRTRFlag|canERRFlag) != 0 {
		return nil
	}

	frame := &Frame{
		Extended: rawID&canEFFFlag != 0,
		DLC:      buf[4],
	}
	if frame.Extended {
		frame.ID = rawID & canEFFMask
	} else {
		frame.ID = rawID & canSFFMask
	}
	if frame.DLC > 8 {
		frame.DLC = 8
	}
	copy(frame.Data[:], buf[8:16])
	return frame
}
