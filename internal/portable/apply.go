package portable

import (
	"fmt"
	"sort"

	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
	"github.com/woozymasta/fleet-scenario-tool/internal/script"
)

// ApplyStats counts what Apply changed.
type ApplyStats struct {
	Edited  int
	Added   int
	Deleted int
}

// ValidateScenarioDocument checks a document against the records it targets.
// It runs before Apply so that a bad document leaves the file untouched.
func ValidateScenarioDocument(doc ScenarioDocument, f *scenario.File, reg *script.Registry) error {
	if reg == nil {
		reg = script.Default
	}

	seen := map[int]struct{}{}
	next := len(f.Records)
	for _, s := range docOrder(doc) {
		if _, dup := seen[s.Index]; dup {
			return fmt.Errorf("scenario %d: listed twice", s.Index)
		}
		seen[s.Index] = struct{}{}

		switch {
		case s.Index < 0 || s.Index > next:
			return fmt.Errorf("scenario %d: index out of range [0,%d]", s.Index, next)
		case s.Index == next:
			if s.Delete {
				return fmt.Errorf("scenario %d: cannot delete a new record", s.Index)
			}
			if len(s.Script) > 0 {
				return fmt.Errorf("scenario %d: new records have no script area", s.Index)
			}
			next++
			continue
		}

		r := f.Records[s.Index]
		if s.Delete {
			if s.hasEdits() {
				return fmt.Errorf("scenario %d: delete combined with edits", s.Index)
			}
			continue
		}
		if r.Opaque && s.hasEdits() {
			return fmt.Errorf("scenario %d: record is opaque and cannot be edited", s.Index)
		}
		if len(s.Script) > 0 && r.Script == nil {
			return fmt.Errorf("scenario %d: record has no objective script", s.Index)
		}
		if _, err := parseScript(s.Script, reg); err != nil {
			return fmt.Errorf("scenario %d: %w", s.Index, err)
		}
	}

	return nil
}

// ApplyScenarioDocument validates doc and writes its edits into f. Records
// are edited and appended first, deletions run last from the highest index.
func ApplyScenarioDocument(doc ScenarioDocument, f *scenario.File, reg *script.Registry) (ApplyStats, error) {
	if reg == nil {
		reg = script.Default
	}

	var stats ApplyStats
	if err := ValidateScenarioDocument(doc, f, reg); err != nil {
		return stats, err
	}

	var deletes []int
	for _, s := range docOrder(doc) {
		if s.Delete {
			deletes = append(deletes, s.Index)
			continue
		}

		var r *scenario.Record
		if s.Index == len(f.Records) {
			r = f.Add()
			stats.Added++
		} else {
			r = f.Records[s.Index]
		}

		if !s.hasEdits() {
			continue
		}
		if err := applyScenario(r, s, reg); err != nil {
			return stats, err
		}
		stats.Edited++
	}

	sort.Sort(sort.Reverse(sort.IntSlice(deletes)))
	for _, i := range deletes {
		if err := f.Delete(i); err != nil {
			return stats, err
		}
		stats.Deleted++
	}

	return stats, nil
}

func applyScenario(r *scenario.Record, s Scenario, reg *script.Registry) error {
	if s.Forces != nil {
		r.Forces = *s.Forces
	}
	if s.Objectives != nil {
		r.Objectives = *s.Objectives
	}
	if s.Notes != nil {
		r.Notes = *s.Notes
	}

	if s.Metadata != nil {
		meta := make([]scenario.MetaEntry, len(s.Metadata))
		for i, text := range s.Metadata {
			meta[i].Text = text
			if i < len(r.Metadata) {
				meta[i].ExtraZeros = r.Metadata[i].ExtraZeros
			}
		}
		r.Metadata = meta
	}

	if len(s.Script) > 0 {
		sections, err := parseScript(s.Script, reg)
		if err != nil {
			return fmt.Errorf("scenario %d: %w", r.Index, err)
		}
		r.Script.Replace(sections)
	}

	return r.Validate()
}

func parseScript(lines [][]string, reg *script.Registry) ([][]script.Instruction, error) {
	out := make([][]script.Instruction, len(lines))
	for i, sec := range lines {
		for j, line := range sec {
			in, err := reg.ParseInstruction(line)
			if err != nil {
				return nil, fmt.Errorf("script section %d line %d: %w", i, j, err)
			}
			out[i] = append(out[i], in)
		}
	}

	return out, nil
}

func (s Scenario) hasEdits() bool {
	return s.Forces != nil || s.Objectives != nil || s.Notes != nil || s.Metadata != nil || len(s.Script) > 0
}

// docOrder returns the scenarios sorted by index.
func docOrder(doc ScenarioDocument) []Scenario {
	out := append([]Scenario(nil), doc.Scenarios...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
