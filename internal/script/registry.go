package script

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Confidence grades a decoded objective. Only Resolved may be shown as fact.
type Confidence string

const (
	Resolved   Confidence = "resolved"
	Inferred   Confidence = "inferred"
	Unresolved Confidence = "unresolved"
)

// Result is what a handler returns for one instruction.
type Result struct {
	Text       string
	Confidence Confidence
	Zones      []int
	Formula    string   // index formula used for a string lookup
	Missing    []string // pieces of a cross-reference that were not found
}

// Call is the input of a handler.
type Call struct {
	Instruction Instruction
	Map         MapContext    // nil without a loaded map
	Script      []Instruction // whole script in order, nil for single instructions
	Index       int           // index of Instruction in Script
	Opts        *Options
	Entry       *Entry
}

// Handler resolves one instruction.
type Handler func(c *Call) Result

// Sentinel is the wording of a special operand for one opcode.
type Sentinel struct {
	Text       string
	Confidence Confidence
}

// GenericSentinels apply when an entry does not override them.
var GenericSentinels = map[uint8]Sentinel{
	OperandNone:      {Text: "none/standard", Confidence: Inferred},
	OperandAll:       {Text: "prohibited/all", Confidence: Inferred},
	OperandUnlimited: {Text: "unlimited", Confidence: Inferred},
}

// Entry describes one opcode.
type Entry struct {
	Handler     Handler
	Sentinels   map[uint8]Sentinel // per-opcode wording, merged over GenericSentinels
	Mnemonic    string
	Operand     string // operand meaning, e.g. "Zone idx"
	Description string
	Opcode      uint8
	Literal     bool    // operand values are never sentinels
	NoSentinel  []uint8 // generic sentinels this opcode does not honor
}

// sentinel returns the sentinel wording for an operand.
func (e *Entry) sentinel(operand uint8) (Sentinel, bool) {
	if e.Literal {
		return Sentinel{}, false
	}
	for _, v := range e.NoSentinel {
		if v == operand {
			return Sentinel{}, false
		}
	}
	if s, ok := e.Sentinels[operand]; ok {
		return s, true
	}

	s, ok := GenericSentinels[operand]
	return s, ok
}

// Registry maps opcode bytes to entries.
type Registry struct {
	entries map[uint8]*Entry
	byName  map[string]uint8
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint8]*Entry), byName: make(map[string]uint8)}
}

// Register adds or replaces an opcode entry.
func (r *Registry) Register(e Entry) error {
	name := strings.ToUpper(strings.TrimSpace(e.Mnemonic))
	if name == "" {
		return fmt.Errorf("opcode 0x%02X: empty mnemonic", e.Opcode)
	}
	if op, ok := r.byName[name]; ok && op != e.Opcode {
		return fmt.Errorf("mnemonic %s already registered for 0x%02X", name, op)
	}

	if old, ok := r.entries[e.Opcode]; ok {
		delete(r.byName, old.Mnemonic)
	}

	e.Mnemonic = name
	r.entries[e.Opcode] = &e
	r.byName[name] = e.Opcode

	return nil
}

// Lookup returns the entry of an opcode.
func (r *Registry) Lookup(op uint8) (*Entry, bool) {
	e, ok := r.entries[op]
	return e, ok
}

// Mnemonic returns the opcode mnemonic or UNKNOWN_<hex>.
func (r *Registry) Mnemonic(op uint8) string {
	if e, ok := r.entries[op]; ok {
		return e.Mnemonic
	}

	return unknownMnemonic(op)
}

// ParseMnemonic resolves a mnemonic, UNKNOWN_<hex> or a numeric opcode.
func (r *Registry) ParseMnemonic(s string) (uint8, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if op, ok := r.byName[name]; ok {
		return op, true
	}

	base := 10
	if rest, ok := strings.CutPrefix(name, "UNKNOWN_"); ok {
		name, base = rest, 16
	} else if rest, ok := strings.CutPrefix(name, "0X"); ok {
		name, base = rest, 16
	}

	v, err := strconv.ParseUint(name, base, 8)
	if err != nil {
		return 0, false
	}

	return uint8(v), true
}

// Format renders an instruction as MNEMONIC(operand).
func (r *Registry) Format(in Instruction) string {
	return fmt.Sprintf("%s(%d)", r.Mnemonic(in.Opcode), in.Operand)
}

// ParseInstruction parses the Format output. The operand may be decimal or 0x hex.
func (r *Registry) ParseInstruction(s string) (Instruction, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Instruction{}, fmt.Errorf("instruction %q: want MNEMONIC(operand)", s)
	}

	op, ok := r.ParseMnemonic(s[:open])
	if !ok {
		return Instruction{}, fmt.Errorf("instruction %q: unknown mnemonic", s)
	}

	v, err := strconv.ParseUint(strings.TrimSpace(s[open+1:len(s)-1]), 0, 8)
	if err != nil {
		return Instruction{}, fmt.Errorf("instruction %q: bad operand: %w", s, err)
	}

	return Instruction{Opcode: op, Operand: uint8(v)}, nil
}

// Opcodes returns registered opcodes in ascending order.
func (r *Registry) Opcodes() []uint8 {
	out := make([]uint8, 0, len(r.entries))
	for op := range r.entries {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func unknownMnemonic(op uint8) string {
	return fmt.Sprintf("UNKNOWN_%02X", op)
}
