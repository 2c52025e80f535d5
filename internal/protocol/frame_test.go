package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/j1939"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		params  []byte
		wantErr bool
		want    []byte
	}{
		{
			name:   "no params pads everything",
			cmd:    CmdSave,
			params: nil,
			want:   []byte{0x06, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name:   "enable SPN params",
			cmd:    CmdEnableSPN,
			params: []byte{0x00, 0xAF, 0x01, 0x03}, // SPN 175, enable, input 3
			want:   []byte{0x01, 0x00, 0xAF, 0x01, 0x03, 0xFF, 0xFF, 0xFF},
		},
		{
			name:   "full seven params leave no padding",
			cmd:    CmdSetNTCParam,
			params: []byte{1, 2, 3, 4, 5, 6, 7},
			want:   []byte{0x02, 1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:    "eight params rejected",
			cmd:     CmdQuery,
			params:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildCommand(tt.cmd, tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCommand() error = %v", err)
			}
			if len(got) != 8 {
				t.Fatalf("payload length = %d, want 8", len(got))
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("payload = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestBuildCommandPadding(t *testing.T) {
	// Every byte beyond opcode+params must be 0xFF, for every param length.
	for n := 0; n <= 7; n++ {
		params := make([]byte, n)
		payload, err := BuildCommand(CmdQuery, params)
		if err != nil {
			t.Fatalf("params len %d: %v", n, err)
		}
		for i := 1 + n; i < 8; i++ {
			if payload[i] != 0xFF {
				t.Errorf("params len %d: byte %d = %#02x, want 0xFF", n, i, payload[i])
			}
		}
	}
}

func TestBuildCommandFrame(t *testing.T) {
	frame, err := BuildCommandFrame(CmdReset, nil)
	if err != nil {
		t.Fatalf("BuildCommandFrame() error = %v", err)
	}

	if !frame.Extended {
		t.Error("command frame must use an extended identifier")
	}
	if frame.DLC != 8 {
		t.Errorf("DLC = %d, want 8", frame.DLC)
	}

	id := j1939.ID(frame.ID)
	if id.PGN() != PGNCommand {
		t.Errorf("PGN = %#06x, want %#06x", id.PGN(), PGNCommand)
	}
	if id.Source() != TesterSourceAddress {
		t.Errorf("source = %#02x, want %#02x", id.Source(), TesterSourceAddress)
	}
	if id.Priority() != CommandPriority {
		t.Errorf("priority = %d, want %d", id.Priority(), CommandPriority)
	}
}

// responseFrame builds a well-formed OSSM response for tests.
func responseFrame(cmd Command, errCode ErrorCode, data []byte) canbus.Frame {
	frame := canbus.Frame{
		ID:       uint32(j1939.BuildID(PGNResponse, CommandPriority, OSSMSourceAddress)),
		Extended: true,
		DLC:      8,
	}
	for i := range frame.Data {
		frame.Data[i] = 0xFF
	}
	frame.Data[0] = byte(cmd)
	frame.Data[1] = byte(errCode)
	copy(frame.Data[2:], data)
	return frame
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		frame    canbus.Frame
		expected Command
		wantErr  error
		verify   func(t *testing.T, resp *Response)
	}{
		{
			name:     "valid response",
			frame:    responseFrame(CmdQuery, ErrOK, []byte{8, 7, 1, 1}),
			expected: CmdQuery,
			verify: func(t *testing.T, resp *Response) {
				if resp.Error != ErrOK {
					t.Errorf("error code = %v, want OK", resp.Error)
				}
				if resp.Data != [6]byte{8, 7, 1, 1, 0xFF, 0xFF} {
					t.Errorf("data = % X", resp.Data)
				}
			},
		},
		{
			name: "wrong PGN",
			frame: canbus.Frame{
				ID:       uint32(j1939.BuildID(0xFEF5, 6, OSSMSourceAddress)),
				Extended: true,
				DLC:      8,
			},
			expected: CmdQuery,
			wantErr:  ErrNotResponsePGN,
		},
		{
			name: "wrong source",
			frame: canbus.Frame{
				ID:       uint32(j1939.BuildID(PGNResponse, 6, 0x42)),
				Extended: true,
				DLC:      8,
			},
			expected: CmdQuery,
			wantErr:  ErrWrongSource,
		},
		{
			name:     "echoed command mismatch",
			frame:    responseFrame(CmdSave, ErrOK, nil),
			expected: CmdQuery,
			wantErr:  ErrCommandMismatch,
		},
		{
			name: "standard frame rejected",
			frame: canbus.Frame{
				ID:  0x123,
				DLC: 8,
			},
			expected: CmdQuery,
			wantErr:  ErrStandardFrameID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse(tt.frame, tt.expected)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if tt.verify != nil {
				tt.verify(t, resp)
			}
		})
	}
}

func TestMismatchReasonsAreDistinct(t *testing.T) {
	// The three rejection reasons must never alias each other: the
	// correlator treats them all as soft but diagnostics rely on the
	// distinction.
	pgnFrame := canbus.Frame{ID: uint32(j1939.BuildID(0xFEF5, 6, OSSMSourceAddress)), Extended: true, DLC: 8}
	srcFrame := canbus.Frame{ID: uint32(j1939.BuildID(PGNResponse, 6, 0x01)), Extended: true, DLC: 8}
	cmdFrame := responseFrame(CmdSave, ErrOK, nil)

	_, errPGN := ParseResponse(pgnFrame, CmdQuery)
	_, errSrc := ParseResponse(srcFrame, CmdQuery)
	_, errCmd := ParseResponse(cmdFrame, CmdQuery)

	if errors.Is(errPGN, ErrWrongSource) || errors.Is(errPGN, ErrCommandMismatch) {
		t.Error("PGN mismatch overlaps another reason")
	}
	if errors.Is(errSrc, ErrNotResponsePGN) || errors.Is(errSrc, ErrCommandMismatch) {
		t.Error("source mismatch overlaps another reason")
	}
	if errors.Is(errCmd, ErrNotResponsePGN) || errors.Is(errCmd, ErrWrongSource) {
		t.Error("command mismatch overlaps another reason")
	}
}

func TestIsResponse(t *testing.T) {
	if !IsResponse(responseFrame(CmdQuery, ErrOK, nil)) {
		t.Error("valid response not recognized")
	}
	other := canbus.Frame{ID: uint32(j1939.BuildID(0xFEEE, 6, OSSMSourceAddress)), Extended: true, DLC: 8}
	if IsResponse(other) {
		t.Error("broadcast data PGN misidentified as response")
	}
}
