package script

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

// maldivesScript is the documented trailing script of the Maldives scenario.
var maldivesScript = []byte{0x0d, 0x01, 0xfe, 0x05, 0x06, 0x05, 0x00, 0x01, 0x05, 0x0e, 0x18, 0x03, 0x06, 0x00}

func ops(sec []Instruction) [][2]uint8 {
	out := make([][2]uint8, len(sec))
	for i, in := range sec {
		out[i] = [2]uint8{in.Opcode, in.Operand}
	}
	return out
}

func TestParseTurnsZeroIsNotSeparator(t *testing.T) {
	t.Parallel()

	s, err := ParseWords(maldivesScript, MaxWords)
	if err != nil {
		t.Fatalf("ParseWords: %v", err)
	}
	if len(s.Sections) != 1 {
		t.Fatalf("sections=%d want 1", len(s.Sections))
	}

	want := [][2]uint8{{0x01, 13}, {0x05, 0xFE}, {0x05, 6}, {0x01, 0}, {0x0E, 5}, {0x03, 24}, {0x00, 6}}
	if got := ops(s.Sections[0]); !reflect.DeepEqual(got, want) {
		t.Fatalf("instructions=%v want %v", got, want)
	}
	if s.Terminator != EndOfArea || s.Words != 7 {
		t.Fatalf("terminator=%s words=%d", s.Terminator, s.Words)
	}
}

func TestParseSegmentation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		words    []uint16
		limit    int
		sections [][][2]uint8
		term     Terminator
		consumed int
	}{
		{
			name:     "double zero terminates",
			words:    []uint16{0x010d, 0x0503, 0, 0, 0x0501},
			sections: [][][2]uint8{{{0x01, 13}, {0x05, 3}}},
			term:     DoubleZero,
			consumed: 4,
		},
		{
			name:     "single zero separates",
			words:    []uint16{0x010d, 0, 0x0e05, 0x0006},
			sections: [][][2]uint8{{{0x01, 13}}, {{0x0E, 5}, {0x00, 6}}},
			term:     EndOfArea,
			consumed: 4,
		},
		{
			name:     "separator then double zero",
			words:    []uint16{0x0c01, 0, 0x0a07, 0, 0, 0x1234},
			sections: [][][2]uint8{{{0x0C, 1}}, {{0x0A, 7}}},
			term:     DoubleZero,
			consumed: 5,
		},
		{
			name:     "final lone zero",
			words:    []uint16{0x010d, 0},
			sections: [][][2]uint8{{{0x01, 13}}},
			term:     SingleZero,
			consumed: 2,
		},
		{
			name:     "leading separator",
			words:    []uint16{0, 0x0105},
			sections: [][][2]uint8{{}, {{0x01, 5}}},
			term:     EndOfArea,
			consumed: 2,
		},
		{
			name:     "empty script",
			words:    []uint16{0, 0},
			sections: [][][2]uint8{{}},
			term:     DoubleZero,
			consumed: 2,
		},
		{
			name:     "word limit",
			words:    []uint16{0x0101, 0x0102, 0x0103, 0x0104},
			limit:    3,
			sections: [][][2]uint8{{{0x01, 1}, {0x01, 2}, {0x01, 3}}},
			term:     WordLimit,
			consumed: 3,
		},
		{
			name:     "zero at the limit with more words is a separator",
			words:    []uint16{0x0101, 0x0102, 0, 0x0103},
			limit:    3,
			sections: [][][2]uint8{{{0x01, 1}, {0x01, 2}}, {}},
			term:     WordLimit,
			consumed: 3,
		},
		{
			name:     "zero pair across the limit",
			words:    []uint16{0x0101, 0x0102, 0, 0},
			limit:    3,
			sections: [][][2]uint8{{{0x01, 1}, {0x01, 2}}},
			term:     WordLimit,
			consumed: 3,
		},
		{
			name:     "last word of the area at the limit",
			words:    []uint16{0x0101, 0x0102, 0},
			limit:    3,
			sections: [][][2]uint8{{{0x01, 1}, {0x01, 2}}},
			term:     SingleZero,
			consumed: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := ParseWords(bin.PutWords(tt.words), tt.limit)
			if err != nil {
				t.Fatalf("ParseWords: %v", err)
			}
			if len(s.Sections) != len(tt.sections) {
				t.Fatalf("sections=%d want %d", len(s.Sections), len(tt.sections))
			}
			for i := range tt.sections {
				if got := ops(s.Sections[i]); !reflect.DeepEqual(got, tt.sections[i]) {
					t.Fatalf("section %d=%v want %v", i, got, tt.sections[i])
				}
			}
			if s.Terminator != tt.term {
				t.Fatalf("terminator=%s want %s", s.Terminator, tt.term)
			}
			if s.Words != tt.consumed {
				t.Fatalf("words=%d want %d", s.Words, tt.consumed)
			}
		})
	}
}

func TestParsePositionsCountSeparators(t *testing.T) {
	t.Parallel()

	s, _ := ParseWords(bin.PutWords([]uint16{0x010d, 0, 0x0e05, 0x0006}), MaxWords)
	if s.Sections[1][0].Position != 2 || s.Sections[1][1].Position != 3 {
		t.Fatalf("positions=%d,%d want 2,3", s.Sections[1][0].Position, s.Sections[1][1].Position)
	}
	if s.SectionOf(1) != 1 || s.SectionOf(0) != 0 || s.SectionOf(5) != -1 {
		t.Fatalf("SectionOf mismatch")
	}
}

func TestParseOddByteAndNil(t *testing.T) {
	t.Parallel()

	s, err := ParseWords([]byte{0x0d, 0x01, 0x03}, MaxWords)
	if err != nil || len(s.Instructions()) != 1 {
		t.Fatalf("instructions=%v err=%v", s.Instructions(), err)
	}
	if _, err := ParseWords(nil, MaxWords); err == nil {
		t.Fatalf("expected error for nil area")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := [][]uint16{
		bin.Words(maldivesScript),
		{0x010d, 0x0503, 0, 0},
		{0x010d, 0, 0x0e05, 0x0006},
		{0x0c01, 0, 0x0a07, 0, 0},
		{0x010d, 0},
		{0, 0x0105},
		{0, 0},
		{},
	}

	for _, words := range inputs {
		src := bin.PutWords(words)
		s, err := ParseWords(src, MaxWords)
		if err != nil {
			t.Fatalf("ParseWords(%x): %v", src, err)
		}

		got, err := s.Encode()
		if err != nil {
			t.Fatalf("Encode(%x): %v", src, err)
		}
		if !bytes.Equal(got, src) {
			t.Fatalf("roundtrip=%x want %x", got, src)
		}

		back, err := ParseWords(got, MaxWords)
		if err != nil || !reflect.DeepEqual(back, s) {
			t.Fatalf("reparse mismatch for %x: %+v vs %+v", src, back, s)
		}
	}
}

func TestEncodeRejectsIllegalSeparators(t *testing.T) {
	t.Parallel()

	s := New([]Instruction{{Opcode: 0x01, Operand: 13}, {}})
	if _, err := s.Encode(); !errors.Is(err, ErrIllegalSeparator) {
		t.Fatalf("zero word inside section: err=%v", err)
	}

	s = New([]Instruction{{Opcode: 0x01, Operand: 13}}, nil)
	if _, err := s.Encode(); !errors.Is(err, ErrIllegalSeparator) {
		t.Fatalf("empty second section: err=%v", err)
	}

	s = New(nil, []Instruction{{Opcode: 0x01, Operand: 13}})
	if _, err := s.Encode(); err != nil {
		t.Fatalf("empty first section with follower: err=%v", err)
	}
}

func TestEncodeWithinBudget(t *testing.T) {
	t.Parallel()

	s := New([]Instruction{{Opcode: 0x01, Operand: 13}, {Opcode: 0x03, Operand: 24}})
	if _, err := EncodeWithin(s, 8); err != nil {
		t.Fatalf("fits: %v", err)
	}

	_, err := EncodeWithin(s, 7)
	var tooLarge *ScriptTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected ScriptTooLargeError, got %v", err)
	}
	if tooLarge.Size != 8 || tooLarge.Budget != 7 {
		t.Fatalf("error=%+v", tooLarge)
	}
}

func TestEditOperations(t *testing.T) {
	t.Parallel()

	s, _ := ParseWords(bin.PutWords([]uint16{0x010d, 0x05fe, 0, 0x0e05, 0, 0}), MaxWords)

	if err := s.Insert(0, 1, Instruction{Opcode: 0x2D, Operand: 20}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Move(0, 2, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := s.Set(1, 0, Instruction{Opcode: 0x0E, Operand: 6}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Remove(0, 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	sec := s.AddSection()
	if err := s.Append(sec, Instruction{Opcode: 0x00, Operand: 6}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	want := [][][2]uint8{{{0x05, 0xFE}, {0x2D, 20}}, {{0x0E, 6}}, {{0x00, 6}}}
	for i := range want {
		if got := ops(s.Sections[i]); !reflect.DeepEqual(got, want[i]) {
			t.Fatalf("section %d=%v want %v", i, got, want[i])
		}
	}
	if s.Sections[2][0].Position != 5 {
		t.Fatalf("position=%d want 5", s.Sections[2][0].Position)
	}

	b, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want16 := []uint16{0x05fe, 0x2d14, 0, 0x0e06, 0, 0x0006, 0, 0}
	if !reflect.DeepEqual(bin.Words(b), want16) {
		t.Fatalf("words=%x want %x", bin.Words(b), want16)
	}

	if err := s.Insert(0, 0, Instruction{}); !errors.Is(err, ErrIllegalSeparator) {
		t.Fatalf("zero insert err=%v", err)
	}
	if err := s.Insert(5, 0, Instruction{Opcode: 1}); err == nil {
		t.Fatalf("expected section range error")
	}
	if _, err := s.Remove(0, 9); err == nil {
		t.Fatalf("expected index range error")
	}
	if err := s.RemoveSection(2); err != nil || len(s.Sections) != 2 {
		t.Fatalf("RemoveSection err=%v sections=%d", err, len(s.Sections))
	}
}
