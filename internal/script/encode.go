package script

import (
	"errors"
	"fmt"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

// ErrIllegalSeparator is returned when a 0x0000 word would appear inside a section
// or an empty section would turn a separator into a terminator.
var ErrIllegalSeparator = errors.New("illegal section separator")

// ScriptTooLargeError reports a script that does not fit its byte budget.
type ScriptTooLargeError struct {
	Size   int
	Budget int
}

func (e *ScriptTooLargeError) Error() string {
	return fmt.Sprintf("objective script needs %d bytes, only %d available", e.Size, e.Budget)
}

// Validate checks that the sections can be written without changing segmentation.
func (s *Script) Validate() error {
	if len(s.Sections) == 0 {
		return fmt.Errorf("%w: script has no sections", ErrIllegalSeparator)
	}

	for i, sec := range s.Sections {
		if i > 0 && len(sec) == 0 {
			return fmt.Errorf("%w: section %d is empty", ErrIllegalSeparator, i)
		}
		for j, in := range sec {
			if in.IsZero() {
				return fmt.Errorf("%w: section %d instruction %d is 0x0000", ErrIllegalSeparator, i, j)
			}
		}
	}

	return nil
}

// Encode writes sections joined by 0x0000 words followed by the terminator.
func (s *Script) Encode() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var words []uint16
	for i, sec := range s.Sections {
		if i > 0 {
			words = append(words, 0)
		}
		for _, in := range sec {
			words = append(words, in.Word())
		}
	}

	switch s.Terminator {
	case DoubleZero:
		words = append(words, 0, 0)
	case SingleZero:
		words = append(words, 0)
	}

	return bin.PutWords(words), nil
}

// EncodeWithin encodes and checks the result against a byte budget.
func EncodeWithin(s *Script, budget int) ([]byte, error) {
	b, err := s.Encode()
	if err != nil {
		return nil, err
	}
	if len(b) > budget {
		return nil, &ScriptTooLargeError{Size: len(b), Budget: budget}
	}

	return b, nil
}
