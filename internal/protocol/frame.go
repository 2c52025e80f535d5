package protocol

import (
	"errors"
	"fmt"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/j1939"
)

// Soft mismatch reasons returned by ParseResponse. They mean "this frame is
// not the reply we are waiting for" — unrelated traffic on a shared bus —
// and the correlator discards the frame and keeps polling. None of them is
// a transport fault.
var (
	ErrNotResponsePGN  = errors.New("not an OSSM response PGN")
	ErrWrongSource     = errors.New("response from wrong source address")
	ErrCommandMismatch = errors.New("response echoes a different command")
	ErrShortFrame      = errors.New("response frame shorter than 8 bytes")
	ErrStandardFrameID = errors.New("response must use an extended identifier")
)

// Response is a parsed OSSM reply: the echoed command, the device-reported
// outcome, and up to six data bytes.
type Response struct {
	Command Command
	Error   ErrorCode
	Data    [6]byte
}

// BuildCommand builds the 8-byte payload for an OSSM command:
// [opcode][params...][0xFF padding]. Params beyond 7 bytes cannot fit a
// classic CAN frame and are a caller bug.
func BuildCommand(cmd Command, params []byte) ([]byte, error) {
	if len(params) > 7 {
		return nil, fmt.Errorf("command %s: %d parameter bytes, max 7", cmd, len(params))
	}

	payload := make([]byte, 8)
	for i := range payload {
		payload[i] = 0xFF
	}
	payload[0] = byte(cmd)
	copy(payload[1:], params)
	return payload, nil
}

// BuildCommandFrame wraps BuildCommand in a ready-to-send CAN frame
// addressed with the command PGN, the configured priority, and the
// tester's source address.
func BuildCommandFrame(cmd Command, params []byte) (canbus.Frame, error) {
	payload, err := BuildCommand(cmd, params)
	if err != nil {
		return canbus.Frame{}, err
	}

	frame := canbus.Frame{
		ID:       uint32(j1939.BuildID(PGNCommand, CommandPriority, TesterSourceAddress)),
		Extended: true,
		DLC:      8,
	}
	copy(frame.Data[:], payload)
	return frame, nil
}

// ParseResponse validates a candidate frame against the awaited command.
// Correlation uses frame content only: the response PGN, the OSSM source
// address, and the echoed command byte. Any mismatch returns one of the
// soft errors above.
func ParseResponse(frame canbus.Frame, expected Command) (*Response, error) {
	if !frame.Extended {
		return nil, ErrStandardFrameID
	}

	id := j1939.ID(frame.ID)
	if id.PGN() != PGNResponse {
		return nil, fmt.Errorf("%w: got %#06x", ErrNotResponsePGN, id.PGN())
	}
	if id.Source() != OSSMSourceAddress {
		return nil, fmt.Errorf("%w: got %#02x", ErrWrongSource, id.Source())
	}
	if frame.DLC < 8 {
		return nil, ErrShortFrame
	}
	if Command(frame.Data[0]) != expected {
		return nil, fmt.Errorf("%w: got %#02x, want %#02x",
			ErrCommandMismatch, frame.Data[0], uint8(expected))
	}

	resp := &Response{
		Command: expected,
		Error:   ErrorCode(frame.Data[1]),
	}
	copy(resp.Data[:], frame.Data[2:8])
	return resp, nil
}

// IsResponse reports whether a frame carries the response PGN from the
// OSSM, regardless of which command it answers.
func IsResponse(frame canbus.Frame) bool {
	if !frame.Extended {
		return false
	}
	id := j1939.ID(frame.ID)
	return id.PGN() == PGNResponse && id.Source() == OSSMSourceAddress
}
