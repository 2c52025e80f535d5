// Package j1939 implements the 29-bit identifier layout used on the OSSM
// bus: priority (3 bits), PGN (18 bits), source address (8 bits).
package j1939

// ID is a 29-bit extended CAN identifier.
type ID uint32

// BuildID packs priority, PGN and source address into an identifier.
//
// Layout: PPP RR PPPPPPPP PPPPPPPP SSSSSSSS — priority in bits 26-28,
// PGN in bits 8-25, source in bits 0-7.
func BuildID(pgn uint32, priority uint8, source uint8) ID {
	return ID(uint32(priority&0x07)<<26 | (pgn&0x3FFFF)<<8 | uint32(source))
}

// PGN extracts the parameter group number.
//
// The PDU Format byte (bits 16-23) selects the addressing style: below 240
// the message is destination-specific (PDU1) and the PS byte carries a
// destination address, so the PGN is PF<<8 alone; 240 and above is
// broadcast (PDU2) and the PS byte is part of the PGN.
func (id ID) PGN() uint32 {
	pf := uint32(id>>16) & 0xFF
	if pf < 240 {
		return pf << 8
	}
	ps := uint32(id>>8) & 0xFF
	return pf<<8 | ps
}

// Source extracts the sender's address (bits 0-7).
func (id ID) Source() uint8 {
	return uint8(id)
}

// Priority extracts the arbitration priority (bits 26-28).
func (id ID) Priority() uint8 {
	return uint8(id>>26) & 0x07
}
