package commander

import (
	"testing"
	"time"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/j1939"
	"github.com/ossmdev/ossmcfg/internal/protocol"
)

// Short timings keep the test suite fast while preserving the
// settle/poll/deadline structure.
func fastOpts() []Option {
	return []Option{
		WithSettleDelay(2 * time.Millisecond),
		WithPollInterval(5 * time.Millisecond),
		WithTimeout(100 * time.Millisecond),
	}
}

func ossmResponse(cmd protocol.Command, errCode protocol.ErrorCode, data []byte) canbus.Frame {
	frame := canbus.Frame{
		ID:       uint32(j1939.BuildID(protocol.PGNResponse, 6, protocol.OSSMSourceAddress)),
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

// fakeOSSM answers every command frame on the loopback with scripted
// responses, optionally preceded by unrelated noise frames.
type fakeOSSM struct {
	bus *canbus.Loopback

	// noise frames injected before each real response
	noise []canbus.Frame

	// respond builds the reply for an observed command payload; returning
	// nil suppresses the response entirely.
	respond func(cmd protocol.Command, params []byte) *canbus.Frame
}

func newFakeOSSM(respond func(cmd protocol.Command, params []byte) *canbus.Frame) *fakeOSSM {
	f := &fakeOSSM{bus: canbus.NewLoopback(), respond: respond}
	f.bus.OnSend = func(frame canbus.Frame) {
		for _, n := range f.noise {
			f.bus.Inject(n)
		}
		cmd := protocol.Command(frame.Data[0])
		if resp := f.respond(cmd, frame.Data[1:8]); resp != nil {
			f.bus.Inject(*resp)
		}
	}
	return f
}

func TestExchangeReturnsDeviceErrorCode(t *testing.T) {
	fake := newFakeOSSM(func(cmd protocol.Command, params []byte) *canbus.Frame {
		resp := ossmResponse(cmd, protocol.ErrInvalidPreset, nil)
		return &resp
	})
	c := New(fake.bus, fastOpts()...)

	code, err := c.SetNTCPreset(3, protocol.NTCPreset(99))
	if err != nil {
		t.Fatalf("SetNTCPreset() error = %v", err)
	}
	if code != protocol.ErrInvalidPreset {
		t.Errorf("error code = %v, want ErrInvalidPreset", code)
	}
}

func TestExchangeIgnoresUnrelatedTraffic(t *testing.T) {
	fake := newFakeOSSM(func(cmd protocol.Command, params []byte) *canbus.Frame {
		resp := ossmResponse(cmd, protocol.ErrOK, nil)
		return &resp
	})

	// A broadcast data frame, a response to a different command, and a
	// frame from a foreign source all arrive before the true reply.
	broadcast := canbus.Frame{
		ID:       uint32(j1939.BuildID(0xFEEE, 6, protocol.OSSMSourceAddress)),
		Extended: true,
		DLC:      8,
	}
	staleResp := ossmResponse(protocol.CmdQuery, protocol.ErrOK, nil)
	foreign := ossmResponse(protocol.CmdSave, protocol.ErrSaveFailed, nil)
	foreign.ID = uint32(j1939.BuildID(protocol.PGNResponse, 6, 0x33))
	fake.noise = []canbus.Frame{broadcast, staleResp, foreign}

	c := New(fake.bus, fastOpts()...)
	code, err := c.SaveConfig()
	if err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if code != protocol.ErrOK {
		t.Errorf("error code = %v, want OK", code)
	}
}

func TestExchangeTimeout(t *testing.T) {
	fake := newFakeOSSM(func(protocol.Command, []byte) *canbus.Frame {
		return nil // device never answers
	})

	settle := 5 * time.Millisecond
	deadline := 60 * time.Millisecond
	c := New(fake.bus,
		WithSettleDelay(settle),
		WithPollInterval(5*time.Millisecond),
		WithTimeout(deadline),
	)

	start := time.Now()
	_, err := c.ResetConfig()
	elapsed := time.Since(start)

	if !IsTimeout(err) {
		t.Fatalf("error = %v, want TimeoutError", err)
	}
	te := err.(*TimeoutError)
	if te.Command != protocol.CmdReset {
		t.Errorf("timeout command = %v, want CmdReset", te.Command)
	}
	if te.Timeout != deadline {
		t.Errorf("timeout value = %v, want %v", te.Timeout, deadline)
	}

	if elapsed < settle+deadline {
		t.Errorf("returned after %v, before settle+deadline %v", elapsed, settle+deadline)
	}
	// Bounded: one extra poll interval plus scheduling slack.
	if elapsed > settle+deadline+100*time.Millisecond {
		t.Errorf("returned after %v, unboundedly late", elapsed)
	}
}

func TestEnableSPNParameterLayout(t *testing.T) {
	fake := newFakeOSSM(func(cmd protocol.Command, params []byte) *canbus.Frame {
		resp := ossmResponse(cmd, protocol.ErrOK, nil)
		return &resp
	})
	c := New(fake.bus, fastOpts()...)

	if _, err := c.EnableSPN(1131, true, 5); err != nil {
		t.Fatalf("EnableSPN() error = %v", err)
	}

	sent := fake.bus.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d frames, want 1", len(sent))
	}
	frame := sent[0]

	want := [8]byte{
		byte(protocol.CmdEnableSPN),
		0x04, 0x6B, // SPN 1131 big-endian
		0x01, // enable
		0x05, // input index
		0xFF, 0xFF, 0xFF,
	}
	if frame.Data != want {
		t.Errorf("payload = % X, want % X", frame.Data, want)
	}

	id := j1939.ID(frame.ID)
	if id.PGN() != protocol.PGNCommand {
		t.Errorf("PGN = %#x, want command PGN", id.PGN())
	}
	if id.Source() != protocol.TesterSourceAddress {
		t.Errorf("source = %#x, want tester address", id.Source())
	}
}

func TestRawCalibrationParameterLayouts(t *testing.T) {
	fake := newFakeOSSM(func(cmd protocol.Command, params []byte) *canbus.Frame {
		resp := ossmResponse(cmd, protocol.ErrOK, nil)
		return &resp
	})
	c := New(fake.bus, fastOpts()...)

	if _, err := c.SetNTCParam(2, 3435, 1000); err != nil {
		t.Fatalf("SetNTCParam() error = %v", err)
	}
	if _, err := c.SetPressureRange(4, 0, 1000); err != nil {
		t.Fatalf("SetPressureRange() error = %v", err)
	}

	sent := fake.bus.Sent()
	if len(sent) != 2 {
		t.Fatalf("sent %d frames, want 2", len(sent))
	}

	ntc := sent[0].Data
	if ntc[0] != byte(protocol.CmdSetNTCParam) || ntc[1] != 2 ||
		ntc[2] != 0x0D || ntc[3] != 0x6B || // beta 3435 BE
		ntc[4] != 0x03 || ntc[5] != 0xE8 { // r25 1000 BE
		t.Errorf("NTC param payload = % X", ntc)
	}

	rng := sent[1].Data
	if rng[0] != byte(protocol.CmdSetPressureRange) || rng[1] != 4 ||
		rng[2] != 0x00 || rng[3] != 0x00 ||
		rng[4] != 0x03 || rng[5] != 0xE8 {
		t.Errorf("pressure range payload = % X", rng)
	}
}
