// Package scenario decodes and encodes the fixed-size scenario blocks of
// SCENARIO.DAT: narrative text, metadata strings, the difficulty token and the
// trailing objective script.
package scenario

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/script"
)

// BlockSize is the size of every scenario record.
const BlockSize = gamefiles.BlockSize

// Narrative markers.
const (
	ObjectivesMarker      = "\nOBJECTIVES\n"
	ObjectivesMarkerSpace = "\nOBJECTIVES \n"
	NotesMarker           = "\nSPECIAL NOTES\n"
)

// turnLimitOffset is the trailing byte that holds the turn count in stock scenarios.
const turnLimitOffset = 45

// scriptSearchWindow bounds the fallback search for the script start.
const scriptSearchWindow = 200

var (
	difficultyRe = regexp.MustCompile(`^E?(Low|Medium|High)`)

	// scriptTokens are searched in order; the script begins after the last match.
	scriptTokens = []string{"ELow\x00", "EMedium\x00", "EHigh\x00", "Low\x00", "Medium\x00", "High\x00"}

	nonKeys = map[string]bool{
		"5th Fleet": true,
		"Low":       true,
		"Medium":    true,
		"High":      true,
		"ELow":      true,
		"EMedium":   true,
		"EHigh":     true,
	}
)

// MetaEntry is one NUL-terminated metadata string and the zero bytes that follow it.
type MetaEntry struct {
	Text       string `json:"text" yaml:"text"`
	ExtraZeros int    `json:"extra_zeros,omitempty" yaml:"extra_zeros,omitempty"`
}

// Record is one decoded scenario block.
type Record struct {
	Index           int            `json:"index"`
	Forces          string         `json:"forces"`
	Objectives      string         `json:"objectives"`
	Notes           string         `json:"notes"`
	Marker          string         `json:"-"`
	HasNotesMarker  bool           `json:"has_notes_marker"`
	LeadingZeros    int            `json:"leading_zeros"`
	Metadata        []MetaEntry    `json:"metadata"`
	ScenarioKey     string         `json:"scenario_key,omitempty"`
	Difficulty      string         `json:"difficulty,omitempty"`
	DifficultyToken string         `json:"difficulty_token,omitempty"`
	Script          *script.Script `json:"script,omitempty"`
	Opaque          bool           `json:"opaque"`

	raw          [BlockSize]byte
	anchor       int
	scriptStart  int
	scriptBudget int
	sum          uint64
}

// DecodeBlock decodes one scenario block. Blocks without an OBJECTIVES marker
// are kept opaque and re-encode unchanged.
func DecodeBlock(b []byte, index int) (*Record, error) {
	return DecodeBlockAt(b, index, 0)
}

// DecodeBlockAt decodes a block located at base inside SCENARIO.DAT.
// base only affects error offsets.
func DecodeBlockAt(b []byte, index, base int) (*Record, error) {
	if len(b) != BlockSize {
		return nil, &bin.MalformedRecordError{
			Record: fmt.Sprintf("scenario %d", index),
			Expect: fmt.Sprintf("%d bytes", BlockSize),
			Got:    fmt.Sprintf("%d bytes", len(b)),
			Offset: base,
		}
	}

	r := &Record{Index: index, anchor: BlockSize, scriptStart: -1}
	copy(r.raw[:], b)
	r.sum = xxhash.Sum64(b)

	marker := ObjectivesMarker
	split := bytes.Index(b, []byte(marker))
	if split < 0 {
		marker = ObjectivesMarkerSpace
		split = bytes.Index(b, []byte(marker))
	}
	if split < 0 {
		r.Opaque = true
		r.Forces = bin.DecodeText(cstring(b))
		return r, nil
	}

	r.Marker = marker
	r.Forces = bin.DecodeText(b[:split])

	pos := split + len(marker)
	end := bytes.IndexByte(b[pos:], 0)
	if end < 0 {
		// Text runs to the block end; nothing to anchor the rest on.
		r.Opaque = true
		return r, nil
	}
	end += pos

	text := b[pos:end]
	if n := bytes.Index(text, []byte(NotesMarker)); n >= 0 {
		r.HasNotesMarker = true
		r.Objectives = bin.DecodeText(text[:n])
		r.Notes = bin.DecodeText(text[n+len(NotesMarker):])
	} else {
		r.Objectives = bin.DecodeText(text)
	}

	c := end + 1
	for c < len(b) && b[c] == 0 {
		r.LeadingZeros++
		c++
	}

	for c < len(b) && b[c] >= 0x20 {
		n := bytes.IndexByte(b[c:], 0)
		if n < 0 {
			break
		}

		e := MetaEntry{Text: bin.DecodeText(b[c : c+n])}
		c += n + 1
		for c < len(b) && b[c] == 0 {
			e.ExtraZeros++
			c++
		}
		r.Metadata = append(r.Metadata, e)
	}

	r.anchor = c
	r.scanTrailing()

	return r, nil
}

// scanTrailing finds the difficulty token, scenario key and objective script
// inside the trailing bytes.
func (r *Record) scanTrailing() {
	trailing := r.raw[r.anchor:]

	for _, run := range bin.PrintableRuns(trailing, 3) {
		if r.DifficultyToken == "" {
			if m := difficultyRe.FindStringSubmatch(run.Text); m != nil {
				r.DifficultyToken = run.Text
				r.Difficulty = m[1]
			}
		}

		text := strings.TrimSpace(run.Text)
		if r.ScenarioKey == "" && text != "" && isAlpha(text) && !nonKeys[run.Text] {
			r.ScenarioKey = text
		}
	}

	start := locateScript(trailing)
	if start < 0 || start >= len(trailing) {
		return
	}

	s, err := script.ParseWords(trailing[start:], script.MaxWords)
	if err != nil {
		return
	}

	r.Script = s
	r.scriptStart = r.anchor + start

	// The script may grow into the zero bytes after its terminator.
	budget := s.Size()
	for r.scriptStart+budget < BlockSize && r.raw[r.scriptStart+budget] == 0 {
		budget++
	}
	r.scriptBudget = budget
}

// locateScript returns the script offset inside trailing or -1.
func locateScript(trailing []byte) int {
	for _, tok := range scriptTokens {
		if i := bytes.LastIndex(trailing, []byte(tok)); i >= 0 {
			return i + len(tok)
		}
	}

	floor := max(len(trailing)-scriptSearchWindow, 0)
	for i := len(trailing) - 2; i >= floor; i-- {
		if trailing[i] == 0 && trailing[i+1] >= 0x20 {
			return i + 1
		}
	}

	return -1
}

// Encode writes the record back into a full block.
func (r *Record) Encode() ([]byte, error) {
	out := make([]byte, BlockSize)
	copy(out, r.raw[:])
	if r.Opaque {
		return out, nil
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	prefix, pad := r.textBytes()
	if need := len(prefix) - pad; need > r.anchor {
		return nil, &bin.FieldTooLargeError{
			Field: fmt.Sprintf("scenario %d text", r.Index),
			Size:  need,
			Limit: r.anchor,
		}
	}

	clear(out[:r.anchor])
	copy(out, prefix[:min(len(prefix), r.anchor)])

	if r.Script != nil && r.scriptStart >= 0 {
		b, err := script.EncodeWithin(r.Script, r.scriptBudget)
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", r.Index, err)
		}

		area := out[r.scriptStart : r.scriptStart+r.scriptBudget]
		clear(area)
		copy(area, b)
	}

	return out, nil
}

// Validate checks that the text fields decode back to the same fields.
func (r *Record) Validate() error {
	if r.Opaque {
		return nil
	}

	// A marker inside a field would move the split on the next decode.
	var notes []string
	if r.Marker == ObjectivesMarkerSpace {
		notes = []string{ObjectivesMarker}
	}
	objectives := append([]string{NotesMarker}, notes...)

	fields := []struct {
		name    string
		text    string
		markers []string
	}{
		{"forces", r.Forces, []string{ObjectivesMarker, ObjectivesMarkerSpace}},
		{"objectives", r.Objectives, objectives},
		{"notes", r.Notes, notes},
	}
	for _, f := range fields {
		if strings.IndexByte(f.text, 0) >= 0 {
			return fmt.Errorf("scenario %d %s: contains NUL", r.Index, f.name)
		}
		for _, m := range f.markers {
			if strings.Contains(f.text, m) {
				return fmt.Errorf("scenario %d %s: contains section marker %q", r.Index, f.name, m)
			}
		}
	}

	for i, e := range r.Metadata {
		switch {
		case e.Text == "":
			return fmt.Errorf("scenario %d metadata %d: empty", r.Index, i)
		case e.Text[0] < 0x20:
			return fmt.Errorf("scenario %d metadata %d: starts with control byte", r.Index, i)
		case strings.IndexByte(e.Text, 0) >= 0:
			return fmt.Errorf("scenario %d metadata %d: contains NUL", r.Index, i)
		case e.ExtraZeros < 0:
			return fmt.Errorf("scenario %d metadata %d: negative padding", r.Index, i)
		}
	}

	return nil
}

// textBytes returns the encoded text and metadata prefix and how many of its
// final bytes are padding zeros that may be dropped.
func (r *Record) textBytes() ([]byte, int) {
	var buf bytes.Buffer
	buf.Write(bin.EncodeText(r.Forces))
	buf.WriteString(r.Marker)
	buf.Write(bin.EncodeText(r.Objectives))
	if r.HasNotesMarker {
		buf.WriteString(NotesMarker)
	}
	buf.Write(bin.EncodeText(r.Notes))
	buf.WriteByte(0)

	pad := r.LeadingZeros
	buf.Write(make([]byte, r.LeadingZeros))
	for _, e := range r.Metadata {
		buf.Write(bin.EncodeText(e.Text))
		buf.WriteByte(0)
		buf.Write(make([]byte, e.ExtraZeros))
		pad = e.ExtraZeros
	}

	return buf.Bytes(), pad
}

// Trailing returns a copy of the bytes after the metadata.
func (r *Record) Trailing() []byte {
	return bytes.Clone(r.raw[r.anchor:])
}

// TextCapacity returns the bytes available to text and metadata.
func (r *Record) TextCapacity() int {
	return r.anchor
}

// TextSize returns the bytes the current text and metadata need, trailing
// padding excluded.
func (r *Record) TextSize() int {
	b, pad := r.textBytes()
	return len(b) - pad
}

// ScriptBudget returns the bytes the objective script may occupy, or 0 when
// the block has no script.
func (r *Record) ScriptBudget() int {
	if r.Script == nil {
		return 0
	}

	return r.scriptBudget
}

// ScriptOffset returns the block offset of the objective script or -1.
func (r *Record) ScriptOffset() int {
	return r.scriptStart
}

// TurnLimit returns the turn count stored in the trailing bytes.
// The position is inferred from stock scenarios.
func (r *Record) TurnLimit() (int, bool) {
	if r.Opaque || BlockSize-r.anchor <= turnLimitOffset {
		return 0, false
	}

	return int(r.raw[r.anchor+turnLimitOffset]), true
}

// Title returns the first metadata string.
func (r *Record) Title() string {
	if len(r.Metadata) == 0 {
		return ""
	}

	return r.Metadata[0].Text
}

// Fingerprint returns the xxhash of the encoded block.
func (r *Record) Fingerprint() (uint64, error) {
	b, err := r.Encode()
	if err != nil {
		return 0, err
	}

	return xxhash.Sum64(b), nil
}

// Dirty reports whether the record no longer encodes to the decoded bytes.
func (r *Record) Dirty() bool {
	sum, err := r.Fingerprint()
	return err != nil || sum != r.sum
}

// NewBlank returns an editable record with stub narrative and a title.
func NewBlank(index int) *Record {
	r := &Record{
		Index:          index,
		Forces:         "FORCES\nGreen Player:\nRed Player:",
		Objectives:     "Green Player:\nRed Player:",
		Marker:         ObjectivesMarker,
		HasNotesMarker: true,
		Metadata:       []MetaEntry{{Text: fmt.Sprintf("Scenario %d", index+1)}},
		anchor:         BlockSize,
		scriptStart:    -1,
	}

	return r
}

func cstring(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}

	return b
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if !bin.IsLetter(s[i]) {
			return false
		}
	}

	return s != ""
}
