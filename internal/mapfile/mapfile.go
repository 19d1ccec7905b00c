// Package mapfile decodes and re-encodes 5th Fleet map files: the fixed
// region block, the 16-entry pointer table and the pointer data sections.
package mapfile

const (
	// RegionSize is the byte length of one region record.
	RegionSize = 65
	// HeaderSize is the text header part of a region record.
	HeaderSize = 33
	// TailSize is the word tail part of a region record.
	TailSize = RegionSize - HeaderSize

	// PointerCount is the number of pointer table slots.
	PointerCount = 16
	// PointerTableSize is the byte length of the pointer table.
	PointerTableSize = PointerCount * 4
)

// FieldKind classifies a NUL-delimited run of a region header.
type FieldKind string

const (
	KindName      FieldKind = "name"
	KindCode      FieldKind = "code"
	KindAdjacency FieldKind = "adjacency"
	KindNoise     FieldKind = "noise"
	KindText      FieldKind = "text"
	KindEmpty     FieldKind = "empty"
)

// Span is a half-open byte range inside a region arena.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length.
func (s Span) Len() int {
	return s.End - s.Start
}

// Field is a named byte-range annotation over a region arena.
type Field struct {
	Tail       *Span     `json:"tail,omitempty"` // continuation inside the tail for fields crossing byte 33
	Kind       FieldKind `json:"kind"`           // derived classification
	Text       string    `json:"text"`           // decoded text of header and tail parts
	Header     Span      `json:"header"`         // range inside the 33-byte header
	Terminated bool      `json:"terminated"`     // followed by a NUL byte

	raw []byte
}

// Raw returns the field bytes without the terminator.
func (f *Field) Raw() []byte {
	return f.raw
}

// Spanning reports whether the field crosses the header/tail boundary.
func (f *Field) Spanning() bool {
	return f.Tail != nil
}

// Position is the strategic map placement stored in tail words 5..7.
type Position struct {
	Panel uint8 `json:"panel"` // low byte of word 7
	X     uint8 `json:"x"`     // high byte of word 5
	Y     uint8 `json:"y"`     // high byte of word 6
	Width uint8 `json:"width"` // high byte of word 7
	Valid bool  `json:"valid"` // false when text occupies the position words
}

// PixelScale converts raw position bytes to map pixels.
const PixelScale = 1

// PanelOrigins are the pixel origins of the two map panels.
var PanelOrigins = map[uint8][2]int{
	0: {184, 0},
	1: {48, 8},
}

// Pixel returns the position in map panel pixels.
func (p Position) Pixel() (x, y int, ok bool) {
	origin, found := PanelOrigins[p.Panel]
	if !p.Valid || !found {
		return 0, 0, false
	}

	return origin[0] + int(p.X)*PixelScale, origin[1] + int(p.Y)*PixelScale, true
}
