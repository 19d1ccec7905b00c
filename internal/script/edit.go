package script

import "fmt"

// Insert places an instruction at index at of a section.
func (s *Script) Insert(section, at int, in Instruction) error {
	if err := s.checkSection(section); err != nil {
		return err
	}
	if in.IsZero() {
		return fmt.Errorf("%w: use AddSection to split sections", ErrIllegalSeparator)
	}

	sec := s.Sections[section]
	if at < 0 || at > len(sec) {
		return fmt.Errorf("insert position %d out of range [0,%d]", at, len(sec))
	}

	sec = append(sec, Instruction{})
	copy(sec[at+1:], sec[at:])
	sec[at] = in
	s.Sections[section] = sec
	s.renumber()

	return nil
}

// Append adds an instruction at the end of a section.
func (s *Script) Append(section int, in Instruction) error {
	if err := s.checkSection(section); err != nil {
		return err
	}

	return s.Insert(section, len(s.Sections[section]), in)
}

// Remove deletes and returns the instruction at index at of a section.
func (s *Script) Remove(section, at int) (Instruction, error) {
	if err := s.checkIndex(section, at); err != nil {
		return Instruction{}, err
	}

	sec := s.Sections[section]
	in := sec[at]
	s.Sections[section] = append(sec[:at], sec[at+1:]...)
	s.renumber()

	return in, nil
}

// Move reorders an instruction within a section.
func (s *Script) Move(section, from, to int) error {
	if err := s.checkIndex(section, from); err != nil {
		return err
	}
	if err := s.checkIndex(section, to); err != nil {
		return err
	}

	sec := s.Sections[section]
	in := sec[from]
	if from < to {
		copy(sec[from:to], sec[from+1:to+1])
	} else {
		copy(sec[to+1:from+1], sec[to:from])
	}
	sec[to] = in
	s.renumber()

	return nil
}

// Set replaces the instruction at index at of a section.
func (s *Script) Set(section, at int, in Instruction) error {
	if err := s.checkIndex(section, at); err != nil {
		return err
	}
	if in.IsZero() {
		return fmt.Errorf("%w: instruction would encode as 0x0000", ErrIllegalSeparator)
	}

	s.Sections[section][at] = in
	s.renumber()

	return nil
}

// AddSection appends an empty section and returns its index. It must receive
// at least one instruction before the script can be encoded.
func (s *Script) AddSection() int {
	s.Sections = append(s.Sections, nil)
	return len(s.Sections) - 1
}

// RemoveSection drops a section with its instructions.
func (s *Script) RemoveSection(section int) error {
	if err := s.checkSection(section); err != nil {
		return err
	}
	if len(s.Sections) == 1 {
		s.Sections[0] = nil
		return nil
	}

	s.Sections = append(s.Sections[:section], s.Sections[section+1:]...)
	s.renumber()

	return nil
}

// Replace swaps in new sections and keeps the terminator.
func (s *Script) Replace(sections [][]Instruction) {
	s.Sections = s.Sections[:0]
	for _, sec := range sections {
		s.Sections = append(s.Sections, append([]Instruction(nil), sec...))
	}
	if len(s.Sections) == 0 {
		s.Sections = append(s.Sections, nil)
	}
	s.renumber()
}

func (s *Script) checkSection(section int) error {
	if section < 0 || section >= len(s.Sections) {
		return fmt.Errorf("section %d out of range [0,%d)", section, len(s.Sections))
	}

	return nil
}

func (s *Script) checkIndex(section, at int) error {
	if err := s.checkSection(section); err != nil {
		return err
	}
	if at < 0 || at >= len(s.Sections[section]) {
		return fmt.Errorf("instruction %d out of range [0,%d) in section %d", at, len(s.Sections[section]), section)
	}

	return nil
}

// New returns an empty script ending with a double zero.
func New(sections ...[]Instruction) *Script {
	s := &Script{Terminator: DoubleZero}
	if len(sections) == 0 {
		sections = [][]Instruction{nil}
	}
	for _, sec := range sections {
		s.Sections = append(s.Sections, append([]Instruction(nil), sec...))
	}
	s.renumber()

	return s
}
