package script

import (
	"errors"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

// MaxWords is the longest script the game reads.
const MaxWords = 64

// Terminator records how a script ended.
type Terminator string

const (
	// EndOfArea means the words ran out.
	EndOfArea Terminator = "end_of_area"
	// DoubleZero means two consecutive 0x0000 words.
	DoubleZero Terminator = "double_zero"
	// SingleZero means a lone 0x0000 as the very last word.
	SingleZero Terminator = "single_zero"
	// WordLimit means the word limit was reached with words left.
	WordLimit Terminator = "word_limit"
)

// Script is a segmented objective script.
type Script struct {
	Sections   [][]Instruction `json:"sections"`
	Terminator Terminator      `json:"terminator"`
	Words      int             `json:"words"` // consumed words, separators and terminator included
}

// Size returns the consumed byte length.
func (s *Script) Size() int {
	return s.Words * 2
}

// ParseWords segments little-endian script words. A lone 0x0000 word starts a
// new section, two in a row end the script, and a lone zero in the last word
// of b is a terminal zero. Both zero checks look at the whole of b; maxWords
// only caps how many words are consumed, so a zero pair that straddles the
// cap ends the script with WordLimit. maxWords <= 0 disables the limit.
func ParseWords(b []byte, maxWords int) (*Script, error) {
	if b == nil {
		return nil, errors.New("nil script area")
	}

	words := bin.Words(b)
	n := len(words)
	if maxWords > 0 && n > maxWords {
		n = maxWords
	}

	s := &Script{Sections: [][]Instruction{nil}}
	cur := 0
	for i := 0; i < n; i++ {
		w := words[i]
		if w != 0 {
			s.Sections[cur] = append(s.Sections[cur], FromWord(w, i))
			continue
		}

		switch {
		case i+1 < len(words) && words[i+1] == 0:
			s.Terminator = DoubleZero
			s.Words = i + 2
			if s.Words > n {
				s.Terminator = WordLimit
				s.Words = n
			}
			return s, nil
		case i == len(words)-1:
			s.Terminator = SingleZero
			s.Words = i + 1
			return s, nil
		default:
			s.Sections = append(s.Sections, nil)
			cur++
		}
	}

	s.Words = n
	s.Terminator = EndOfArea
	if n < len(words) {
		s.Terminator = WordLimit
	}

	return s, nil
}

// Instructions returns all instructions in order.
func (s *Script) Instructions() []Instruction {
	var out []Instruction
	for _, sec := range s.Sections {
		out = append(out, sec...)
	}

	return out
}

// SectionOf returns the section index of the k-th instruction in Instructions order.
func (s *Script) SectionOf(k int) int {
	for i, sec := range s.Sections {
		if k < len(sec) {
			return i
		}
		k -= len(sec)
	}

	return -1
}

// renumber recomputes word positions after an edit.
func (s *Script) renumber() {
	pos := 0
	for i := range s.Sections {
		if i > 0 {
			pos++ // separator
		}
		for j := range s.Sections[i] {
			s.Sections[i][j].Position = pos
			pos++
		}
	}
}
