// Package portable converts decoded game files to clean, editable documents
// and applies edited documents back. Documents marshal as YAML or JSON.
package portable

import (
	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
	"github.com/woozymasta/fleet-scenario-tool/internal/script"
)

// ScenarioDocument is a "clean export" of SCENARIO.DAT.
// When applied, nil fields leave the record unchanged.
type ScenarioDocument struct {
	Scenarios []Scenario `json:"scenarios"`
}

// Scenario is one record of the document.
type Scenario struct {
	Index       int        `json:"index"`                  // record index; len(records) appends a blank record
	Delete      bool       `json:"delete,omitempty"`       // remove the record
	Opaque      bool       `json:"opaque,omitempty"`       // record could not be decoded (read only)
	ScenarioKey string     `json:"scenario_key,omitempty"` // map file hint (read only)
	Difficulty  string     `json:"difficulty,omitempty"`   // Low/Medium/High (read only)
	TurnLimit   *int       `json:"turn_limit,omitempty"`   // inferred turn count (read only)
	Forces      *string    `json:"forces,omitempty"`       // FORCES narrative
	Objectives  *string    `json:"objectives,omitempty"`   // OBJECTIVES narrative
	Notes       *string    `json:"notes,omitempty"`        // SPECIAL NOTES narrative
	Metadata    []string   `json:"metadata,omitempty"`     // title and other strings
	Script      [][]string `json:"script,omitempty"`       // sections of MNEMONIC(operand)
}

// ToScenarioDocument exports every record of f.
func ToScenarioDocument(f *scenario.File, reg *script.Registry) ScenarioDocument {
	if reg == nil {
		reg = script.Default
	}

	out := ScenarioDocument{}
	for _, r := range f.Records {
		out.Scenarios = append(out.Scenarios, ToScenario(r, reg))
	}

	return out
}

// ToScenario exports one record.
func ToScenario(r *scenario.Record, reg *script.Registry) Scenario {
	if reg == nil {
		reg = script.Default
	}

	s := Scenario{
		Index:       r.Index,
		Opaque:      r.Opaque,
		ScenarioKey: r.ScenarioKey,
		Difficulty:  r.Difficulty,
	}
	if r.Opaque {
		return s
	}

	s.Forces = ptr(r.Forces)
	s.Objectives = ptr(r.Objectives)
	s.Notes = ptr(r.Notes)
	for _, m := range r.Metadata {
		s.Metadata = append(s.Metadata, m.Text)
	}
	if n, ok := r.TurnLimit(); ok {
		s.TurnLimit = &n
	}

	if r.Script != nil {
		s.Script = make([][]string, len(r.Script.Sections))
		for i, sec := range r.Script.Sections {
			s.Script[i] = make([]string, 0, len(sec))
			for _, in := range sec {
				s.Script[i] = append(s.Script[i], reg.Format(in))
			}
		}
	}

	return s
}

func ptr[T any](v T) *T {
	return &v
}
