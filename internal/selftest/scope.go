// Package selftest decodes game files and re-encodes them, reporting every
// record whose bytes change.
package selftest

import "fmt"

// Scope controls which records are round-tripped.
type Scope string

const (
	// ScopeAll checks regions, unit tables, scenarios and whole files.
	ScopeAll Scope = "all"
	// ScopeRegions checks only map region records.
	ScopeRegions Scope = "regions"
	// ScopeUnits checks only map unit tables.
	ScopeUnits Scope = "units"
	// ScopeScenarios checks only scenario blocks.
	ScopeScenarios Scope = "scenarios"
)

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(s); sc {
	case "":
		return ScopeAll, nil
	case ScopeAll, ScopeRegions, ScopeUnits, ScopeScenarios:
		return sc, nil
	default:
		return "", fmt.Errorf("unknown scope %q", s)
	}
}

// IncludesRegions returns true if the scope includes region records.
func (s Scope) IncludesRegions() bool {
	return s == ScopeAll || s == ScopeRegions
}

// IncludesUnits returns true if the scope includes unit tables.
func (s Scope) IncludesUnits() bool {
	return s == ScopeAll || s == ScopeUnits
}

// IncludesScenarios returns true if the scope includes scenario blocks.
func (s Scope) IncludesScenarios() bool {
	return s == ScopeAll || s == ScopeScenarios
}

// IncludesFiles returns true if whole files are compared as well.
func (s Scope) IncludesFiles() bool {
	return s == ScopeAll
}
