package script

import (
	"github.com/woozymasta/fleet-scenario-tool/internal/strtab"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// MapContext is the read-only view of a map file used to resolve operands.
type MapContext interface {
	RegionCount() int
	RegionName(i int) (string, bool)
	StringTable(section int) []strtab.Entry
	UnitRecords(c units.Category) []*units.Record
	TemplateName(c units.Category, id uint8) (string, bool)
}

// Default string sections and convoy marker.
const (
	NameSection  = 9
	ShipSection  = 14
	ConvoyMarker = "Fast Convoy"
)

// Options control operand resolution.
type Options struct {
	Map          MapContext
	Registry     *Registry
	BaseFormula  strtab.Formula   // base names, defaults to operand-1
	PortFormulas []strtab.Formula // port names, first is declared, rest are reported fallbacks
	NameSection  int              // pointer section with base and port names
	ShipSection  int              // pointer section with ship names
	ConvoyMarker string           // template class naming convoy ships
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = Default
	}
	if o.BaseFormula.Name == "" {
		o.BaseFormula = strtab.OperandMinusOne
	}
	if len(o.PortFormulas) == 0 {
		o.PortFormulas = []strtab.Formula{strtab.OperandMinusTwo, strtab.OperandMinusOne, strtab.Direct}
	}
	if o.NameSection == 0 {
		o.NameSection = NameSection
	}
	if o.ShipSection == 0 {
		o.ShipSection = ShipSection
	}
	if o.ConvoyMarker == "" {
		o.ConvoyMarker = ConvoyMarker
	}

	return o
}

// DecodedObjective is one instruction with its best-effort meaning.
type DecodedObjective struct {
	Mnemonic     string     `json:"mnemonic" yaml:"mnemonic"`
	ResolvedText string     `json:"resolved_text,omitempty" yaml:"resolved_text,omitempty"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`
	Formula      string     `json:"formula,omitempty" yaml:"formula,omitempty"`
	Zones        []int      `json:"zones,omitempty" yaml:"zones,omitempty"`
	Missing      []string   `json:"missing,omitempty" yaml:"missing,omitempty"`
	Section      int        `json:"section" yaml:"section"`
	Position     int        `json:"position" yaml:"position"`
	Opcode       uint8      `json:"opcode" yaml:"opcode"`
	Operand      uint8      `json:"operand" yaml:"operand"`
}

// Decode resolves every instruction of a script in order.
func Decode(s *Script, opts Options) []DecodedObjective {
	opts = opts.withDefaults()

	flat := s.Instructions()
	out := make([]DecodedObjective, 0, len(flat))
	for i, in := range flat {
		d := decode(&Call{Instruction: in, Map: opts.Map, Script: flat, Index: i, Opts: &opts})
		d.Section = s.SectionOf(i)
		out = append(out, d)
	}

	return out
}

// DecodeInstruction resolves a single instruction without script context.
func DecodeInstruction(opcode, operand uint8, opts Options) DecodedObjective {
	opts = opts.withDefaults()
	in := Instruction{Opcode: opcode, Operand: operand}

	return decode(&Call{Instruction: in, Map: opts.Map, Script: []Instruction{in}, Opts: &opts})
}

func decode(c *Call) DecodedObjective {
	in := c.Instruction
	d := DecodedObjective{
		Opcode:     in.Opcode,
		Operand:    in.Operand,
		Position:   in.Position,
		Mnemonic:   c.Opts.Registry.Mnemonic(in.Opcode),
		Confidence: Unresolved,
	}

	e, ok := c.Opts.Registry.Lookup(in.Opcode)
	if !ok {
		return d
	}
	c.Entry = e

	var res Result
	if s, ok := e.sentinel(in.Operand); ok {
		res = Result{Text: s.Text, Confidence: s.Confidence}
	} else if e.Handler != nil {
		res = e.Handler(c)
	} else {
		res = describeHandler(c)
	}

	d.ResolvedText = res.Text
	d.Confidence = res.Confidence
	d.Zones = res.Zones
	d.Formula = res.Formula
	d.Missing = res.Missing
	if d.Confidence == "" {
		d.Confidence = Unresolved
	}

	return d
}
