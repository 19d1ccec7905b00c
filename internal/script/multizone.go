package script

// zoneKey is an (opcode, operand) pair.
type zoneKey struct {
	opcode  uint8
	operand uint8
}

// multiZone lists the out-of-range zone operands known to name several
// regions. Every entry is an observed special case, not a formula.
var multiZone = map[zoneKey][]int{
	{opcode: 0x0A, operand: 29}: {7, 11, 17}, // ZONE_CHECK
	{opcode: 0x09, operand: 35}: {7, 11, 17}, // ZONE_CONTROL
	{opcode: 0xBB, operand: 46}: {7, 11, 17}, // ZONE_ENTRY
}

// MultiZone returns the region indices of a special multi-zone operand.
func MultiZone(opcode, operand uint8) ([]int, bool) {
	zones, ok := multiZone[zoneKey{opcode: opcode, operand: operand}]
	if !ok {
		return nil, false
	}

	return append([]int(nil), zones...), true
}
