package mapfile

import (
	"fmt"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
	"github.com/woozymasta/fleet-scenario-tool/internal/strtab"
)

// PointerEntry is one slot of the pointer table. Start is relative to the
// first byte after the table.
type PointerEntry struct {
	Index int    `json:"index"`
	Start uint16 `json:"start"`
	Count uint16 `json:"count"`
}

// End returns the exclusive end offset inside the pointer data.
func (e PointerEntry) End() int {
	return int(e.Start) + int(e.Count)
}

// Overlaps reports whether two entries share bytes.
func (e PointerEntry) Overlaps(o PointerEntry) bool {
	return e.Count > 0 && o.Count > 0 && int(e.Start) < o.End() && int(o.Start) < e.End()
}

// DecodePointerTable decodes the 64-byte pointer table.
func DecodePointerTable(b []byte) ([PointerCount]PointerEntry, error) {
	var out [PointerCount]PointerEntry
	if len(b) < PointerTableSize {
		return out, &bin.OutOfRangeError{What: "pointer table", Length: PointerTableSize, Limit: len(b)}
	}

	for i := range out {
		out[i] = PointerEntry{
			Index: i,
			Start: bin.ReadU16(b[i*4:]),
			Count: bin.ReadU16(b[i*4+2:]),
		}
	}

	return out, nil
}

// EncodePointerTable writes the pointer table back.
func EncodePointerTable(entries [PointerCount]PointerEntry) []byte {
	out := make([]byte, PointerTableSize)
	for i, e := range entries {
		bin.WriteU16(out[i*4:], e.Start)
		bin.WriteU16(out[i*4+2:], e.Count)
	}

	return out
}

// ResolveSection returns data[start:start+count]. The slice aliases data.
func ResolveSection(data []byte, e PointerEntry) ([]byte, error) {
	return ResolveSectionAt(data, e, 0)
}

// ResolveSectionAt is ResolveSection for pointer data located at base inside
// its file. base only affects error offsets.
func ResolveSectionAt(data []byte, e PointerEntry, base int) ([]byte, error) {
	if e.End() > len(data) {
		return nil, &bin.OutOfRangeError{
			What:   fmt.Sprintf("pointer section %d", e.Index),
			Offset: base + int(e.Start),
			Length: int(e.Count),
			Limit:  base + len(data),
		}
	}

	return data[e.Start:e.End():e.End()], nil
}

// Classification is the derived shape of a pointer section.
type Classification string

const (
	StringTable Classification = "string_table"
	IndexPairs  Classification = "index_pairs"
	UnitTable   Classification = "unit_table"
	RawBytes    Classification = "raw_bytes"
)

// ClassifyOptions bound the value ranges used by Classify.
type ClassifyOptions struct {
	TemplateLimit int // template ids must stay below this for unit tables
	PairTypeLimit int // first byte of each index pair
	PairIDLimit   int // second byte of each index pair
}

// DefaultClassifyOptions are used for zero fields.
var DefaultClassifyOptions = ClassifyOptions{
	TemplateLimit: 200,
	PairTypeLimit: 16,
	PairIDLimit:   128,
}

func (o ClassifyOptions) withDefaults() ClassifyOptions {
	if o.TemplateLimit <= 0 {
		o.TemplateLimit = DefaultClassifyOptions.TemplateLimit
	}
	if o.PairTypeLimit <= 0 {
		o.PairTypeLimit = DefaultClassifyOptions.PairTypeLimit
	}
	if o.PairIDLimit <= 0 {
		o.PairIDLimit = DefaultClassifyOptions.PairIDLimit
	}

	return o
}

// Classify guesses the section shape. Checks run in order: strings, unit
// frames, index pairs, raw bytes.
func Classify(section []byte, opts ClassifyOptions) Classification {
	opts = opts.withDefaults()

	switch {
	case len(section) == 0:
		return RawBytes
	case looksLikeStrings(section):
		return StringTable
	case looksLikeUnits(section, opts.TemplateLimit):
		return UnitTable
	case looksLikePairs(section, opts):
		return IndexPairs
	default:
		return RawBytes
	}
}

func looksLikeStrings(b []byte) bool {
	nul := 0
	for _, c := range b {
		switch {
		case c == 0:
			nul++
		case !bin.IsPrintable(c):
			return false
		}
	}
	if nul == 0 {
		return false
	}

	for _, e := range strtab.Extract(b) {
		if len(e.Text) >= strtab.MinNameLen {
			return true
		}
	}

	return false
}

func looksLikeUnits(b []byte, templateLimit int) bool {
	if len(b)%32 != 0 {
		return false
	}

	used := 0
	for off := 0; off < len(b); off += 32 {
		frame := b[off : off+32]
		if isZero(frame) {
			continue
		}
		if int(frame[0]) >= templateLimit {
			return false
		}
		used++
	}

	return used > 0
}

func looksLikePairs(b []byte, opts ClassifyOptions) bool {
	if len(b)%2 != 0 {
		return false
	}

	for i := 0; i < len(b); i += 2 {
		if int(b[i]) >= opts.PairTypeLimit || int(b[i+1]) >= opts.PairIDLimit {
			return false
		}
	}

	return true
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}

	return true
}

// Section is a resolved pointer section.
type Section struct {
	Err            error          `json:"-"`
	Data           []byte         `json:"-"` // aliases the pointer data
	Classification Classification `json:"classification"`
	Entry          PointerEntry   `json:"entry"`
	Failed         bool           `json:"failed,omitempty"`
}

// Strings extracts the section as a string table.
func (s *Section) Strings() []strtab.Entry {
	if s.Failed {
		return nil
	}

	return strtab.Extract(s.Data)
}
