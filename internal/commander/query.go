package commander

import (
	"github.com/ossmdev/ossmcfg/internal/protocol"
)

// ConfigState is the snapshot returned by the config-count query. It is
// valid only at the instant it was answered; nothing is cached.
type ConfigState struct {
	TempCount     uint8
	PressureCount uint8
	EGTEnabled    bool
	BME280Enabled bool
}

// Assignments holds both SPN assignment tables. A zero slot means the
// input is disabled.
type Assignments struct {
	TempSPNs     []uint16 // always MaxTempInputs long on success
	PressureSPNs []uint16 // always MaxPressureInputs long on success
}

// slotsPerResponse is how many 16-bit SPN slots fit the 6 usable response
// data bytes.
const slotsPerResponse = 3

// QueryConfig reads input counts and feature flags. Single frame, no
// reassembly: the four fields arrive in the first four data bytes.
func (c *Commander) QueryConfig() (protocol.ErrorCode, *ConfigState, error) {
	resp, err := c.Exchange(protocol.CmdQuery, []byte{protocol.QueryConfig, 0})
	if err != nil {
		return 0, nil, err
	}
	if !resp.Error.OK() {
		return resp.Error, nil, nil
	}

	state := &ConfigState{
		TempCount:     resp.Data[0],
		PressureCount: resp.Data[1],
		EGTEnabled:    resp.Data[2] != 0,
		BME280Enabled: resp.Data[3] != 0,
	}
	return resp.Error, state, nil
}

// parseSlotFragment splits response data into three big-endian 16-bit SPN
// slots, normalizing the 0xFFFF "no assignment" value to the disabled
// sentinel.
func parseSlotFragment(data [6]byte) [slotsPerResponse]uint16 {
	var slots [slotsPerResponse]uint16
	for i := 0; i < slotsPerResponse; i++ {
		spn := uint16(data[i*2])<<8 | uint16(data[i*2+1])
		if spn == 0xFFFF {
			spn = protocol.SPNDisabled
		}
		slots[i] = spn
	}
	return slots
}

// queryAssignmentTable reassembles one fixed-size assignment table from a
// bounded sequence of sub-queries, three slots per response. The final
// fragment is truncated to the slots actually valid for the table size.
//
// A non-success error code from any sub-query aborts the sequence: the
// caller gets that code plus the prefix collected so far, unpadded.
func (c *Commander) queryAssignmentTable(queryType uint8, size int) (protocol.ErrorCode, []uint16, error) {
	table := make([]uint16, 0, size)

	subQueries := (size + slotsPerResponse - 1) / slotsPerResponse
	for sub := 0; sub < subQueries; sub++ {
		resp, err := c.Exchange(protocol.CmdQuery, []byte{queryType, uint8(sub)})
		if err != nil {
			return 0, table, err
		}
		if !resp.Error.OK() {
			return resp.Error, table, nil
		}

		slots := parseSlotFragment(resp.Data)
		keep := size - sub*slotsPerResponse
		if keep > slotsPerResponse {
			keep = slotsPerResponse
		}
		table = append(table, slots[:keep]...)
	}

	return protocol.ErrOK, table, nil
}

// QueryTempSPNs reads the temperature assignment table (8 inputs, 3
// sub-queries, 2 valid slots in the last fragment).
func (c *Commander) QueryTempSPNs() (protocol.ErrorCode, []uint16, error) {
	return c.queryAssignmentTable(protocol.QueryTempSPNs, protocol.MaxTempInputs)
}

// QueryPressureSPNs reads the pressure assignment table (7 inputs, 3
// sub-queries, 1 valid slot in the last fragment).
func (c *Commander) QueryPressureSPNs() (protocol.ErrorCode, []uint16, error) {
	return c.queryAssignmentTable(protocol.QueryPressureSPNs, protocol.MaxPressureInputs)
}

// QueryAllAssignments reads both tables. On a mid-sequence device error
// the partial result mirrors what QueryTempSPNs/QueryPressureSPNs
// collected before the failure.
func (c *Commander) QueryAllAssignments() (protocol.ErrorCode, *Assignments, error) {
	code, temps, err := c.QueryTempSPNs()
	if err != nil {
		return 0, nil, err
	}
	if !code.OK() {
		return code, &Assignments{TempSPNs: temps}, nil
	}

	code, pressures, err := c.QueryPressureSPNs()
	if err != nil {
		return 0, nil, err
	}
	return code, &Assignments{TempSPNs: temps, PressureSPNs: pressures}, nil
}
