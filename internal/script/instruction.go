// Package script decodes, edits and re-encodes the objective script stored
// at the end of each scenario record.
package script

// Opcodes referenced by the segmenter and handlers.
const (
	OpEnd         uint8 = 0x00
	OpTurns       uint8 = 0x01
	OpSpecialRule uint8 = 0x05
	OpShipDest    uint8 = 0x06
	OpConvoyPort  uint8 = 0x18
)

// Sentinel operands.
const (
	OperandNone      uint8 = 0x00
	OperandAll       uint8 = 0xFE
	OperandUnlimited uint8 = 0xFF
)

// ConvoyActive is the SPECIAL_RULE operand that starts a convoy mission.
const ConvoyActive uint8 = 0x06

// Instruction is one (opcode, operand) word.
type Instruction struct {
	Opcode   uint8 `json:"opcode" yaml:"opcode"`
	Operand  uint8 `json:"operand" yaml:"operand"`
	Position int   `json:"position" yaml:"-"` // ordinal word index, separators included
}

// FromWord splits a script word. The opcode is the high byte.
func FromWord(w uint16, pos int) Instruction {
	return Instruction{Opcode: uint8(w >> 8), Operand: uint8(w), Position: pos}
}

// Word returns the wire word.
func (in Instruction) Word() uint16 {
	return uint16(in.Opcode)<<8 | uint16(in.Operand)
}

// IsZero reports whether the instruction encodes as the literal 0x0000 word.
func (in Instruction) IsZero() bool {
	return in.Opcode == 0 && in.Operand == 0
}

// String renders the instruction with the default registry mnemonic.
func (in Instruction) String() string {
	return Default.Format(in)
}
