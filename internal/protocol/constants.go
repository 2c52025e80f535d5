// Package protocol defines the OSSM J1939 command protocol: the wire
// constants shared with the firmware, command frame construction, and
// response frame parsing.
//
// Every numeric value in this file is a wire contract with the OSSM
// firmware and must match it bit for bit.
package protocol

import "time"

// J1939 source addresses.
const (
	// OSSMSourceAddress is the controller's fixed address on the bus.
	OSSMSourceAddress uint8 = 0x95
	// TesterSourceAddress is the address this tool claims when sending.
	TesterSourceAddress uint8 = 0x00
)

// Command and response PGNs.
const (
	PGNCommand  uint32 = 0xFF00 // commands TO the OSSM
	PGNResponse uint32 = 0xFF01 // responses FROM the OSSM
)

// CommandPriority is the arbitration priority for outgoing commands.
const CommandPriority uint8 = 6

// Timing defaults, mirrored by the firmware's response latency.
const (
	// DefaultResponseTimeout bounds the wait for a correlated response.
	DefaultResponseTimeout = 1 * time.Second
	// DefaultSettleDelay gives the controller time to process a command
	// before we start polling for the reply.
	DefaultSettleDelay = 50 * time.Millisecond
	// DefaultPollInterval is the per-attempt receive timeout while polling.
	DefaultPollInterval = 100 * time.Millisecond
)

// Command is an OSSM command opcode (response byte 0 echoes it back).
type Command uint8

const (
	CmdEnableSPN        Command = 0x01
	CmdSetNTCParam      Command = 0x02
	CmdSetPressureRange Command = 0x03
	CmdSetTCType        Command = 0x04
	CmdQuery            Command = 0x05
	CmdSave             Command = 0x06
	CmdReset            Command = 0x07
	CmdNTCPreset        Command = 0x08
	CmdPressurePreset   Command = 0x09
)

func (c Command) String() string {
	switch c {
	case CmdEnableSPN:
		return "ENABLE_SPN"
	case CmdSetNTCParam:
		return "SET_NTC_PARAM"
	case CmdSetPressureRange:
		return "SET_PRESSURE_RANGE"
	case CmdSetTCType:
		return "SET_TC_TYPE"
	case CmdQuery:
		return "QUERY"
	case CmdSave:
		return "SAVE"
	case CmdReset:
		return "RESET"
	case CmdNTCPreset:
		return "NTC_PRESET"
	case CmdPressurePreset:
		return "PRESSURE_PRESET"
	}
	return "UNKNOWN"
}

// ErrorCode is the device-reported outcome carried in response byte 1.
// These are values, not Go errors: a successfully correlated exchange
// always yields one, and callers interpret it.
type ErrorCode uint8

const (
	ErrOK                   ErrorCode = 0x00
	ErrUnknownCmd           ErrorCode = 0x01
	ErrParseFailed          ErrorCode = 0x02
	ErrUnknownSPN           ErrorCode = 0x03
	ErrInvalidTempInput     ErrorCode = 0x04
	ErrInvalidPressureInput ErrorCode = 0x05
	ErrInvalidNTCParam      ErrorCode = 0x06
	ErrInvalidTCType        ErrorCode = 0x07
	ErrInvalidQueryType     ErrorCode = 0x08
	ErrSaveFailed           ErrorCode = 0x09
	ErrInvalidPreset        ErrorCode = 0x0A
)

// OK reports whether the device accepted the command.
func (e ErrorCode) OK() bool { return e == ErrOK }

func (e ErrorCode) String() string {
	switch e {
	case ErrOK:
		return "OK"
	case ErrUnknownCmd:
		return "unknown command"
	case ErrParseFailed:
		return "parameter parse failed"
	case ErrUnknownSPN:
		return "unknown SPN"
	case ErrInvalidTempInput:
		return "invalid temperature input"
	case ErrInvalidPressureInput:
		return "invalid pressure input"
	case ErrInvalidNTCParam:
		return "invalid NTC parameter"
	case ErrInvalidTCType:
		return "invalid thermocouple type"
	case ErrInvalidQueryType:
		return "invalid query type"
	case ErrSaveFailed:
		return "save to EEPROM failed"
	case ErrInvalidPreset:
		return "invalid preset"
	}
	return "unrecognized error code"
}

// Query types for CmdQuery.
const (
	QueryConfig       uint8 = 0 // input counts and feature flags
	QueryTempSPNs     uint8 = 1 // temperature input assignments
	QueryPressureSPNs uint8 = 2 // pressure input assignments
)

// Input limits. Input indices are 1-based on the wire; 0 is invalid.
const (
	MaxTempInputs     = 8
	MaxPressureInputs = 7
)

// NTCPreset selects a thermistor calibration curve.
type NTCPreset uint8

const (
	NTCPresetAEM   NTCPreset = 0
	NTCPresetBosch NTCPreset = 1
	NTCPresetGM    NTCPreset = 2
)

var ntcPresetNames = map[NTCPreset]string{
	NTCPresetAEM:   "AEM",
	NTCPresetBosch: "Bosch",
	NTCPresetGM:    "GM",
}

func (p NTCPreset) String() string {
	if name, ok := ntcPresetNames[p]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the preset code is one the firmware accepts.
func (p NTCPreset) Valid() bool {
	_, ok := ntcPresetNames[p]
	return ok
}

// PressurePreset selects a transducer range. Codes 0-15 are absolute
// bar ranges, 20-30 gauge PSI ranges; 16-19 is an intentional gap.
type PressurePreset uint8

const (
	PresPreset1Bar    PressurePreset = 0
	PresPreset1_5Bar  PressurePreset = 1
	PresPreset2Bar    PressurePreset = 2
	PresPreset2_5Bar  PressurePreset = 3
	PresPreset3Bar    PressurePreset = 4
	PresPreset4Bar    PressurePreset = 5
	PresPreset5Bar    PressurePreset = 6
	PresPreset7Bar    PressurePreset = 7
	PresPreset10Bar   PressurePreset = 8
	PresPreset50Bar   PressurePreset = 9
	PresPreset100Bar  PressurePreset = 10
	PresPreset150Bar  PressurePreset = 11
	PresPreset200Bar  PressurePreset = 12
	PresPreset1000Bar PressurePreset = 13
	PresPreset2000Bar PressurePreset = 14
	PresPreset3000Bar PressurePreset = 15

	PresPreset15PSI  PressurePreset = 20
	PresPreset30PSI  PressurePreset = 21
	PresPreset50PSI  PressurePreset = 22
	PresPreset100PSI PressurePreset = 23
	PresPreset150PSI PressurePreset = 24
	PresPreset200PSI PressurePreset = 25
	PresPreset250PSI PressurePreset = 26
	PresPreset300PSI PressurePreset = 27
	PresPreset350PSI PressurePreset = 28
	PresPreset400PSI PressurePreset = 29
	PresPreset500PSI PressurePreset = 30
)

// Valid reports whether the preset code is inside one of the two ranges
// the firmware accepts.
func (p PressurePreset) Valid() bool {
	return p <= 15 || (p >= 20 && p <= 30)
}

var pressurePresetNames = map[PressurePreset]string{
	PresPreset1Bar: "1 bar", PresPreset1_5Bar: "1.5 bar", PresPreset2Bar: "2 bar",
	PresPreset2_5Bar: "2.5 bar", PresPreset3Bar: "3 bar", PresPreset4Bar: "4 bar",
	PresPreset5Bar: "5 bar", PresPreset7Bar: "7 bar", PresPreset10Bar: "10 bar",
	PresPreset50Bar: "50 bar", PresPreset100Bar: "100 bar", PresPreset150Bar: "150 bar",
	PresPreset200Bar: "200 bar", PresPreset1000Bar: "1000 bar", PresPreset2000Bar: "2000 bar",
	PresPreset3000Bar: "3000 bar",
	PresPreset15PSI:   "15 psi", PresPreset30PSI: "30 psi", PresPreset50PSI: "50 psi",
	PresPreset100PSI: "100 psi", PresPreset150PSI: "150 psi", PresPreset200PSI: "200 psi",
	PresPreset250PSI: "250 psi", PresPreset300PSI: "300 psi", PresPreset350PSI: "350 psi",
	PresPreset400PSI: "400 psi", PresPreset500PSI: "500 psi",
}

func (p PressurePreset) String() string {
	if name, ok := pressurePresetNames[p]; ok {
		return name
	}
	return "unknown"
}

// TCType is an EGT thermocouple type code.
type TCType uint8

const (
	TCTypeB TCType = 0
	TCTypeE TCType = 1
	TCTypeJ TCType = 2
	TCTypeK TCType = 3
	TCTypeN TCType = 4
	TCTypeR TCType = 5
	TCTypeS TCType = 6
	TCTypeT TCType = 7
)

var tcTypeNames = [8]string{"B", "E", "J", "K", "N", "R", "S", "T"}

func (t TCType) String() string {
	if int(t) < len(tcTypeNames) {
		return tcTypeNames[t]
	}
	return "unknown"
}

// Valid reports whether the code maps to a thermocouple type.
func (t TCType) Valid() bool { return t <= TCTypeT }
