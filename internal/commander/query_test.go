package commander

import (
	"testing"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/protocol"
)

// spnFragment packs up to three SPN values into response data, big-endian.
func spnFragment(spns ...uint16) []byte {
	data := make([]byte, 6)
	for i, spn := range spns {
		data[i*2] = byte(spn >> 8)
		data[i*2+1] = byte(spn)
	}
	return data
}

// queryResponder scripts per-(queryType, subQuery) responses.
type queryResponder struct {
	config    []byte
	fragments map[uint8]map[uint8][]byte      // queryType -> subQuery -> data
	errors    map[uint8]map[uint8]protocol.ErrorCode // forced error codes
}

func (q *queryResponder) respond(cmd protocol.Command, params []byte) *canbus.Frame {
	if cmd != protocol.CmdQuery {
		resp := ossmResponse(cmd, protocol.ErrOK, nil)
		return &resp
	}
	queryType, sub := params[0], params[1]

	if codes, ok := q.errors[queryType]; ok {
		if code, ok := codes[sub]; ok {
			resp := ossmResponse(cmd, code, nil)
			return &resp
		}
	}

	if queryType == protocol.QueryConfig {
		resp := ossmResponse(cmd, protocol.ErrOK, q.config)
		return &resp
	}

	resp := ossmResponse(cmd, protocol.ErrOK, q.fragments[queryType][sub])
	return &resp
}

func TestQueryConfig(t *testing.T) {
	q := &queryResponder{config: []byte{8, 7, 1, 0}}
	fake := newFakeOSSM(q.respond)
	c := New(fake.bus, fastOpts()...)

	code, state, err := c.QueryConfig()
	if err != nil {
		t.Fatalf("QueryConfig() error = %v", err)
	}
	if !code.OK() {
		t.Fatalf("error code = %v, want OK", code)
	}
	if state.TempCount != 8 || state.PressureCount != 7 {
		t.Errorf("counts = %d/%d, want 8/7", state.TempCount, state.PressureCount)
	}
	if !state.EGTEnabled {
		t.Error("EGTEnabled = false, want true")
	}
	if state.BME280Enabled {
		t.Error("BME280Enabled = true, want false")
	}
}

func TestQueryTempSPNsReassembly(t *testing.T) {
	q := &queryResponder{
		fragments: map[uint8]map[uint8][]byte{
			protocol.QueryTempSPNs: {
				0: spnFragment(175, 110, 174),
				1: spnFragment(105, 1131, 1132),
				2: spnFragment(1133, 172, 0xFFFF), // third slot beyond table size
			},
		},
	}
	fake := newFakeOSSM(q.respond)
	c := New(fake.bus, fastOpts()...)

	code, table, err := c.QueryTempSPNs()
	if err != nil {
		t.Fatalf("QueryTempSPNs() error = %v", err)
	}
	if !code.OK() {
		t.Fatalf("error code = %v, want OK", code)
	}

	want := []uint16{175, 110, 174, 105, 1131, 1132, 1133, 172}
	if len(table) != protocol.MaxTempInputs {
		t.Fatalf("table length = %d, want %d", len(table), protocol.MaxTempInputs)
	}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("table[%d] = %d, want %d", i, table[i], want[i])
		}
	}
}

func TestQueryPressureSPNsReassembly(t *testing.T) {
	// The last fragment's second and third slots are garbage the device
	// happens to send; only the first is valid for a 7-entry table.
	q := &queryResponder{
		fragments: map[uint8]map[uint8][]byte{
			protocol.QueryPressureSPNs: {
				0: spnFragment(100, 109, 94),
				1: spnFragment(102, 106, 1127),
				2: spnFragment(1128, 0xBEEF, 0x1234),
			},
		},
	}
	fake := newFakeOSSM(q.respond)
	c := New(fake.bus, fastOpts()...)

	code, table, err := c.QueryPressureSPNs()
	if err != nil {
		t.Fatalf("QueryPressureSPNs() error = %v", err)
	}
	if !code.OK() {
		t.Fatalf("error code = %v, want OK", code)
	}

	want := []uint16{100, 109, 94, 102, 106, 1127, 1128}
	if len(table) != protocol.MaxPressureInputs {
		t.Fatalf("table length = %d, want %d", len(table), protocol.MaxPressureInputs)
	}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("table[%d] = %d, want %d", i, table[i], want[i])
		}
	}
}

func TestDisabledSlotNormalization(t *testing.T) {
	// 0xFFFF anywhere inside the kept range must surface as the disabled
	// sentinel, not as 0xFFFF.
	q := &queryResponder{
		fragments: map[uint8]map[uint8][]byte{
			protocol.QueryTempSPNs: {
				0: spnFragment(0xFFFF, 110, 0xFFFF),
				1: spnFragment(0xFFFF, 0xFFFF, 0xFFFF),
				2: spnFragment(1133, 0xFFFF, 0),
			},
		},
	}
	fake := newFakeOSSM(q.respond)
	c := New(fake.bus, fastOpts()...)

	code, table, err := c.QueryTempSPNs()
	if err != nil || !code.OK() {
		t.Fatalf("QueryTempSPNs() = %v, %v", code, err)
	}

	want := []uint16{0, 110, 0, 0, 0, 0, 1133, 0}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("table[%d] = %d, want %d", i, table[i], want[i])
		}
	}
}

func TestMidSequenceErrorAbortsReassembly(t *testing.T) {
	q := &queryResponder{
		fragments: map[uint8]map[uint8][]byte{
			protocol.QueryTempSPNs: {
				0: spnFragment(175, 110, 174),
				// sub-query 1 fails below; 2 would succeed but must never
				// be sent
				2: spnFragment(1133, 172, 0),
			},
		},
		errors: map[uint8]map[uint8]protocol.ErrorCode{
			protocol.QueryTempSPNs: {1: protocol.ErrInvalidQueryType},
		},
	}
	fake := newFakeOSSM(q.respond)
	c := New(fake.bus, fastOpts()...)

	code, table, err := c.QueryTempSPNs()
	if err != nil {
		t.Fatalf("QueryTempSPNs() error = %v", err)
	}
	if code != protocol.ErrInvalidQueryType {
		t.Errorf("error code = %v, want ErrInvalidQueryType", code)
	}
	if len(table) != 3 {
		t.Fatalf("prefix length = %d, want 3", len(table))
	}
	for i, want := range []uint16{175, 110, 174} {
		if table[i] != want {
			t.Errorf("prefix[%d] = %d, want %d", i, table[i], want)
		}
	}

	// Exactly two query frames: sub 0 and the failing sub 1.
	sent := fake.bus.Sent()
	if len(sent) != 2 {
		t.Errorf("sent %d frames, want 2 (no sub-query after the failure)", len(sent))
	}
}

func TestQueryAllAssignments(t *testing.T) {
	q := &queryResponder{
		fragments: map[uint8]map[uint8][]byte{
			protocol.QueryTempSPNs: {
				0: spnFragment(175, 110, 174),
				1: spnFragment(0xFFFF, 0xFFFF, 0xFFFF),
				2: spnFragment(0xFFFF, 0xFFFF, 0xFFFF),
			},
			protocol.QueryPressureSPNs: {
				0: spnFragment(100, 0xFFFF, 0xFFFF),
				1: spnFragment(0xFFFF, 0xFFFF, 0xFFFF),
				2: spnFragment(0xFFFF, 0xFFFF, 0xFFFF),
			},
		},
	}
	fake := newFakeOSSM(q.respond)
	c := New(fake.bus, fastOpts()...)

	code, all, err := c.QueryAllAssignments()
	if err != nil {
		t.Fatalf("QueryAllAssignments() error = %v", err)
	}
	if !code.OK() {
		t.Fatalf("error code = %v, want OK", code)
	}
	if len(all.TempSPNs) != protocol.MaxTempInputs {
		t.Errorf("temp table length = %d, want %d", len(all.TempSPNs), protocol.MaxTempInputs)
	}
	if len(all.PressureSPNs) != protocol.MaxPressureInputs {
		t.Errorf("pressure table length = %d, want %d", len(all.PressureSPNs), protocol.MaxPressureInputs)
	}
	if all.TempSPNs[0] != 175 || all.PressureSPNs[0] != 100 {
		t.Errorf("first slots = %d/%d, want 175/100", all.TempSPNs[0], all.PressureSPNs[0])
	}
}
