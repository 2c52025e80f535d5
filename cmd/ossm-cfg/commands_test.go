package main

import (
	"strings"
	"testing"
	"time"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/commander"
	"github.com/ossmdev/ossmcfg/internal/j1939"
	"github.com/ossmdev/ossmcfg/internal/protocol"
	"github.com/ossmdev/ossmcfg/internal/ui"
)

// respondOK scripts the loopback to answer every command with a success
// response echoing the sent opcode.
func respondOK(loop *canbus.Loopback) {
	loop.OnSend = func(sent canbus.Frame) {
		resp := canbus.Frame{
			ID:       uint32(j1939.BuildID(protocol.PGNResponse, protocol.CommandPriority, protocol.OSSMSourceAddress)),
			Extended: true,
			DLC:      8,
			Data:     [8]byte{sent.Data[0], 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		}
		loop.Inject(resp)
	}
}

func TestTraceBusCapturesExchange(t *testing.T) {
	loop := canbus.NewLoopback()
	respondOK(loop)

	trace := ui.NewTrace()
	c := commander.New(traceBus(loop, trace), commander.WithTimeout(time.Second))

	code, err := c.SaveConfig()
	if err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if !code.OK() {
		t.Fatalf("SaveConfig() code = %v", code)
	}

	if trace.Empty() {
		t.Fatal("trace recorded no frames for a completed exchange")
	}
	var tx, rx bool
	for _, line := range trace.Lines {
		if strings.HasPrefix(line, "TX ") {
			tx = true
		}
		if strings.HasPrefix(line, "RX ") {
			rx = true
		}
	}
	if !tx || !rx {
		t.Errorf("trace lines = %v, want both a TX and an RX entry", trace.Lines)
	}
}

func TestTraceBusLineContent(t *testing.T) {
	loop := canbus.NewLoopback()
	trace := ui.NewTrace()
	bus := traceBus(loop, trace)

	frame := canbus.Frame{ID: 0x18FF0000, Extended: true, DLC: 8}
	frame.Data = [8]byte{0x06, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if err := bus.Send(frame); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(trace.Lines) != 1 {
		t.Fatalf("trace lines = %d, want 1", len(trace.Lines))
	}
	if !strings.HasPrefix(trace.Lines[0], "TX 18FF0000 [8] 06") {
		t.Errorf("trace line = %q, want TX 18FF0000 prefix", trace.Lines[0])
	}
}

// flushBus fakes a transport with a pre-attach frame queue
type flushBus struct {
	canbus.Bus
	flushed bool
}

func (f *flushBus) Flush() {
	f.flushed = true
}

func TestDrainStaleFlushesWhenSupported(t *testing.T) {
	fb := &flushBus{Bus: canbus.NewLoopback()}
	drainStale(fb)
	if !fb.flushed {
		t.Error("drainStale did not flush a transport that supports it")
	}
}

func TestDrainStaleWithoutFlush(t *testing.T) {
	// Transports without a Flush method (bridge, loopback) are left alone
	drainStale(canbus.NewLoopback())
}
