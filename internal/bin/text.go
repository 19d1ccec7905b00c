package bin

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DecodeText decodes single-byte text. It never fails.
// ISO-8859-1 maps every byte to one rune and back, so untouched text round-trips.
func DecodeText(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// ISO-8859-1 covers all 256 byte values; keep a byte-wise fallback anyway.
		r := make([]rune, len(b))
		for i, c := range b {
			r[i] = rune(c)
		}
		return string(r)
	}

	return string(out)
}

// EncodeText encodes text back to single bytes, replacing runes outside the
// code page with the code page replacement byte.
func EncodeText(s string) []byte {
	out, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}

	return out
}

// IsPrintable reports whether b is a printable ASCII byte.
func IsPrintable(b byte) bool {
	return b >= 0x20 && b < 0x7F
}

// IsUpper reports whether b is an ASCII uppercase letter.
func IsUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// IsLetter reports whether b is an ASCII letter.
func IsLetter(b byte) bool {
	return IsUpper(b) || (b >= 'a' && b <= 'z')
}

// Run is a printable byte run found in a buffer.
type Run struct {
	Offset int
	Text   string
}

// PrintableRuns returns runs of at least minLen printable bytes.
func PrintableRuns(b []byte, minLen int) []Run {
	var out []Run
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minLen {
			out = append(out, Run{Offset: start, Text: string(b[start:end])})
		}
		start = -1
	}

	for i, c := range b {
		if IsPrintable(c) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(b))

	return out
}
