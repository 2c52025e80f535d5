package canbus

import (
	"encoding/binary"
	"fmt"
)

// Bridge wire format, one frame per WebSocket binary message:
//
//	[0-3]  CAN ID (big-endian, without flag bits)
//	[4]    flags (bit 0 = extended ID)
//	[5]    DLC
//	[6-13] data (always 8 bytes, unused bytes zero)
const WireFrameSize = 14

const wireFlagExtended = 0x01

// MarshalWire encodes a frame for the WebSocket bridge.
func MarshalWire(frame Frame) []byte {
	buf := make([]byte, WireFrameSize)
	binary.BigEndian.PutUint32(buf[0:4], frame.ID)
	if frame.Extended {
		buf[4] |= wireFlagExtended
	}
	dlc := frame.DLC
	if dlc > 8 {
		dlc = 8
	}
	buf[5] = dlc
	copy(buf[6:], frame.Data[:])
	return buf
}

// UnmarshalWire decodes a bridge message back into a frame.
func UnmarshalWire(buf []byte) (Frame, error) {
	if len(buf) != WireFrameSize {
		return Frame{}, fmt.Errorf("bridge frame must be %d bytes, got %d", WireFrameSize, len(buf))
	}

	frame := Frame{
		ID:       binary.BigEndian.Uint32(buf[0:4]),
		Extended: buf[4]&wireFlagExtended != 0,
		DLC:      buf[5],
	}
	if frame.DLC > 8 {
		return Frame{}, fmt.Errorf("bridge frame DLC %d out of range", frame.DLC)
	}
	copy(frame.Data[:], buf[6:14])
	return frame, nil
}
