package mapfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

var regionCodeRe = regexp.MustCompile(`rp([A-Z0-9]{2})`)

// Tail byte offsets of the map position words.
const (
	positionStart = 10
	positionEnd   = 16
)

// Region is one 65-byte map region record.
type Region struct {
	Name          string   `json:"name"`
	RegionCode    string   `json:"region_code,omitempty"`
	AdjacentCodes []string `json:"adjacent_codes,omitempty"`
	Fields        []Field  `json:"fields"`
	Position      Position `json:"map_position"`
	Index         int      `json:"index"`

	raw      [RegionSize]byte
	base     int
	nameIdx  int
	codeIdx  int
	adjIdx   int
	capacity int
}

// DecodeRegion decodes one region record.
func DecodeRegion(b []byte, index int) (*Region, error) {
	return DecodeRegionAt(b, index, 0)
}

// DecodeRegionAt decodes one region record located at base inside its file.
// base only affects error offsets.
func DecodeRegionAt(b []byte, index, base int) (*Region, error) {
	what := fmt.Sprintf("region %d", index)
	if len(b) != RegionSize {
		return nil, &bin.MalformedRecordError{
			Record: what,
			Offset: base,
			Expect: fmt.Sprintf("%d-byte record", RegionSize),
			Got:    fmt.Sprintf("%d bytes", len(b)),
		}
	}

	r := &Region{Index: index, base: base, nameIdx: -1, codeIdx: -1, adjIdx: -1}
	copy(r.raw[:], b)

	r.Fields = splitHeader(r.raw[:HeaderSize])
	r.joinSpanning()

	for i := range r.Fields {
		f := &r.Fields[i]
		if r.nameIdx < 0 && len(f.raw) > 0 && bin.IsPrintable(f.raw[0]) {
			r.nameIdx = i
		}
	}
	if r.nameIdx < 0 {
		return nil, &bin.MalformedRecordError{
			Record: what,
			Offset: base,
			Expect: "printable name run in 33-byte header",
			Got:    "no printable run",
		}
	}

	r.classify()
	r.refresh()

	return r, nil
}

// splitHeader splits the header into NUL-delimited runs, keeping empty runs.
func splitHeader(header []byte) []Field {
	var out []Field
	pos := 0
	for pos < len(header) {
		end := pos
		for end < len(header) && header[end] != 0 {
			end++
		}

		f := Field{Header: Span{Start: pos, End: end}, raw: append([]byte(nil), header[pos:end]...)}
		if end < len(header) {
			f.Terminated = true
			end++
		}

		out = append(out, f)
		pos = end
	}

	return out
}

// joinSpanning extends an unterminated last header run into the tail when
// the tail continues it with uppercase bytes up to a NUL.
func (r *Region) joinSpanning() {
	r.capacity = HeaderSize
	if len(r.Fields) == 0 {
		return
	}

	last := &r.Fields[len(r.Fields)-1]
	if last.Terminated || len(last.raw) == 0 || !bin.IsUpper(last.raw[len(last.raw)-1]) {
		return
	}

	tail := r.raw[HeaderSize:]
	if !bin.IsUpper(tail[0]) {
		return
	}

	k := 0
	for k < len(tail) && tail[k] != 0 {
		if !isCodeByte(tail[k]) {
			return
		}
		k++
	}
	if k == len(tail) {
		return
	}

	last.Terminated = true
	last.raw = append(last.raw, tail[:k]...)
	r.capacity = HeaderSize + k + 1
}

func (r *Region) classify() {
	for i := range r.Fields {
		f := &r.Fields[i]
		switch {
		case i == r.nameIdx:
			f.Kind = KindName
		case len(f.raw) == 0:
			f.Kind = KindEmpty
		case !allPrintable(f.raw):
			f.Kind = KindNoise
		case r.codeIdx < 0 && regionCodeRe.Match(f.raw):
			f.Kind = KindCode
			r.codeIdx = i
		case r.adjIdx < 0 && isAdjacency(f.raw):
			f.Kind = KindAdjacency
			r.adjIdx = i
		default:
			f.Kind = KindText
		}
	}
}

// refresh recomputes the derived fields from the arena and annotations.
func (r *Region) refresh() {
	pos := 0
	for i := range r.Fields {
		f := &r.Fields[i]
		f.Text = bin.DecodeText(f.raw)

		start, end := pos, pos+len(f.raw)
		f.Header = Span{Start: min(start, HeaderSize), End: min(end, HeaderSize)}
		f.Tail = nil
		if end > HeaderSize {
			f.Tail = &Span{Start: max(start, HeaderSize), End: end}
		}

		pos = end
		if f.Terminated {
			pos++
		}
	}

	r.Name = r.Fields[r.nameIdx].Text

	r.RegionCode = ""
	if r.codeIdx >= 0 {
		if m := regionCodeRe.FindStringSubmatch(r.Fields[r.codeIdx].Text); m != nil {
			r.RegionCode = m[1]
		}
	}

	r.AdjacentCodes = nil
	if r.adjIdx >= 0 {
		text := r.Fields[r.adjIdx].Text
		for i := 0; i+1 < len(text); i += 2 {
			r.AdjacentCodes = append(r.AdjacentCodes, text[i:i+2])
		}
	}

	tail := r.raw[HeaderSize:]
	r.Position = Position{
		X:     tail[positionStart+1],
		Y:     tail[positionStart+3],
		Panel: tail[positionStart+4],
		Width: tail[positionStart+5],
		Valid: r.capacity <= HeaderSize+positionStart,
	}
}

// Encode writes the region back to 65 bytes. Unedited regions reproduce the
// decoded bytes exactly, including a header/tail split of the adjacency field.
func (r *Region) Encode() ([RegionSize]byte, error) {
	out := r.raw

	var stream []byte
	for i := range r.Fields {
		stream = append(stream, r.Fields[i].raw...)
		if r.Fields[i].Terminated {
			stream = append(stream, 0)
		}
	}

	for len(stream) > r.capacity && stream[len(stream)-1] == 0 {
		stream = stream[:len(stream)-1]
	}
	if len(stream) > r.capacity {
		return out, &bin.FieldTooLargeError{
			Field: fmt.Sprintf("region %d text", r.Index),
			Size:  len(stream),
			Limit: r.capacity,
		}
	}

	for i := 0; i < r.capacity; i++ {
		out[i] = 0
	}
	copy(out[:], stream)

	return out, nil
}

// Raw returns the bytes as decoded or last positioned.
func (r *Region) Raw() [RegionSize]byte {
	return r.raw
}

// Offset returns the absolute file offset the region was decoded from.
func (r *Region) Offset() int {
	return r.base
}

// TextCapacity returns how many bytes the text stream may occupy.
func (r *Region) TextCapacity() int {
	return r.capacity
}

// SetName replaces the region name.
func (r *Region) SetName(name string) error {
	if name == "" || !bin.IsPrintable(name[0]) {
		return fmt.Errorf("region %d: name must start with a printable character", r.Index)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("region %d: name must not contain NUL", r.Index)
	}

	r.Fields[r.nameIdx].raw = bin.EncodeText(name)
	r.refresh()

	return nil
}

// SetAdjacentCodes replaces the adjacency list.
func (r *Region) SetAdjacentCodes(codes []string) error {
	if r.adjIdx < 0 {
		return fmt.Errorf("region %d has no adjacency field", r.Index)
	}

	var merged []byte
	for _, code := range codes {
		code = strings.ToUpper(code)
		if len(code) != 2 || !isCodeByte(code[0]) || !isCodeByte(code[1]) {
			return fmt.Errorf("region %d: invalid adjacency code %q", r.Index, code)
		}

		merged = append(merged, code...)
	}

	r.Fields[r.adjIdx].raw = merged
	r.refresh()

	return nil
}

// SetPosition rewrites the map position bytes, keeping the low bytes of words 5 and 6.
func (r *Region) SetPosition(p Position) error {
	if r.capacity > HeaderSize+positionStart {
		return fmt.Errorf("region %d: position words are occupied by text", r.Index)
	}

	tail := r.raw[HeaderSize:]
	tail[positionStart+1] = p.X
	tail[positionStart+3] = p.Y
	tail[positionStart+4] = p.Panel
	tail[positionStart+5] = p.Width
	r.refresh()

	return nil
}

// TailWords returns the 16 tail words as currently stored.
func (r *Region) TailWords() []uint16 {
	return bin.Words(r.raw[HeaderSize:])
}

func isCodeByte(c byte) bool {
	return bin.IsUpper(c) || (c >= '0' && c <= '9')
}

func isAdjacency(b []byte) bool {
	if len(b) == 0 || len(b)%2 != 0 {
		return false
	}

	letter := false
	for _, c := range b {
		if !isCodeByte(c) {
			return false
		}
		if bin.IsUpper(c) {
			letter = true
		}
	}

	return letter
}

func allPrintable(b []byte) bool {
	for _, c := range b {
		if !bin.IsPrintable(c) {
			return false
		}
	}

	return true
}
