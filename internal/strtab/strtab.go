// Package strtab extracts NUL-terminated string tables from map pointer
// sections and resolves script operands to entries of those tables.
package strtab

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

// MinNameLen is the shortest string accepted as a resolved name.
const MinNameLen = 3

// Entry is one string found in a section.
type Entry struct {
	Text   string `json:"text"`   // decoded text
	Offset int    `json:"offset"` // byte offset of the first character inside the section
}

// Extract splits a section on NUL bytes and returns every non-empty string in order.
// Undecodable bytes never fail the extraction.
func Extract(section []byte) []Entry {
	var out []Entry
	i := 0
	for i < len(section) {
		if section[i] == 0 {
			i++
			continue
		}

		start := i
		for i < len(section) && section[i] != 0 {
			i++
		}

		out = append(out, Entry{Offset: start, Text: bin.DecodeText(section[start:i])})
		i++
	}

	return out
}

// Formula maps an operand to a string index.
type Formula struct {
	Name   string `json:"name"`   // e.g. "operand-1"
	Offset int    `json:"offset"` // added to the operand
}

var (
	// Direct uses the operand as the index.
	Direct = Formula{Name: "operand", Offset: 0}

	// OperandMinusOne is used by base references (BASE_RULE).
	OperandMinusOne = Formula{Name: "operand-1", Offset: -1}

	// OperandMinusTwo is used by port references (CONVOY_PORT, SHIP_DEST).
	OperandMinusTwo = Formula{Name: "operand-2", Offset: -2}
)

// Offset returns a formula adding n to the operand.
func Offset(n int) Formula {
	switch {
	case n == 0:
		return Direct
	case n < 0:
		return Formula{Name: fmt.Sprintf("operand%d", n), Offset: n}
	default:
		return Formula{Name: fmt.Sprintf("operand+%d", n), Offset: n}
	}
}

// ParseFormula parses "operand", "operand-N" or "operand+N".
func ParseFormula(s string) (Formula, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	rest, ok := strings.CutPrefix(s, "operand")
	if !ok {
		return Formula{}, fmt.Errorf("formula %q: must start with \"operand\"", s)
	}
	if rest == "" {
		return Direct, nil
	}

	n, err := strconv.Atoi(rest)
	if err != nil || (rest[0] != '+' && rest[0] != '-') {
		return Formula{}, fmt.Errorf("formula %q: bad offset %q", s, rest)
	}

	return Offset(n), nil
}

// Index applies the formula.
func (f Formula) Index(operand int) int {
	return operand + f.Offset
}

func (f Formula) String() string {
	if f.Name == "" {
		return Offset(f.Offset).Name
	}

	return f.Name
}

// Resolve returns the string selected by operand under formula. Strings
// failing the noise filter are reported as not found.
func Resolve(entries []Entry, operand int, f Formula) (string, bool) {
	idx := f.Index(operand)
	if idx < 0 || idx >= len(entries) {
		return "", false
	}

	text := entries[idx].Text
	if !LooksLikeName(text) {
		return "", false
	}

	return text, true
}

// Resolution is the outcome of a multi-formula lookup.
type Resolution struct {
	Text    string
	Formula Formula
	Index   int
	Primary bool // true when the first formula tried succeeded
}

// ResolveFirst tries formulas in order and reports which one matched.
// Callers decide how much to trust a non-primary match.
func ResolveFirst(entries []Entry, operand int, formulas ...Formula) (Resolution, bool) {
	for i, f := range formulas {
		text, ok := Resolve(entries, operand, f)
		if !ok {
			continue
		}

		return Resolution{Text: text, Formula: f, Index: f.Index(operand), Primary: i == 0}, true
	}

	return Resolution{}, false
}

// LooksLikeName is the noise filter: at least MinNameLen characters and a leading uppercase letter.
func LooksLikeName(s string) bool {
	if len(s) < MinNameLen {
		return false
	}

	return bin.IsUpper(s[0])
}

// Table is an extracted string section bound to its declared index formula.
type Table struct {
	Entries []Entry
	Formula Formula
}

// NewTable extracts a section and binds it to a formula.
func NewTable(section []byte, f Formula) Table {
	return Table{Entries: Extract(section), Formula: f}
}

// Lookup resolves an operand with the table's own formula only.
func (t Table) Lookup(operand int) (string, bool) {
	return Resolve(t.Entries, operand, t.Formula)
}

// Texts returns the table strings.
func (t Table) Texts() []string {
	out := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Text
	}

	return out
}
