// Package gamefiles finds and reads the data files of a 5th Fleet install.
package gamefiles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind represents the role of a game data file.
type Kind int

const (
	// Unknown is an unrecognized file.
	Unknown Kind = iota

	// Scenario is the SCENARIO.DAT container.
	Scenario

	// Map is a <KEY>.DAT map file.
	Map

	// TemplateAir is the air template library.
	TemplateAir

	// TemplateSurface is the surface template library.
	TemplateSurface

	// TemplateSub is the submarine template library.
	TemplateSub
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Scenario:
		return "scenario"
	case Map:
		return "map"
	case TemplateAir:
		return "template_air"
	case TemplateSurface:
		return "template_surface"
	case TemplateSub:
		return "template_sub"
	default:
		return "unknown"
	}
}

// ScenarioFileName is the scenario container name.
const ScenarioFileName = "SCENARIO.DAT"

// Template library file names.
const (
	AirTemplates     = "TRMAIR.DAT"
	SurfaceTemplates = "TRMSRF.DAT"
	SubTemplates     = "TRMSUB.DAT"
)

// Parsed represents a classified data file.
type Parsed struct {
	Path string // file path as found
	Key  string // upper-cased base name without extension (e.g. MALDIVE)
	Kind Kind   // file role
}

// ParseFile classifies a file path by name.
func ParseFile(path string) (Parsed, bool) {
	p, ok := ParseBase(filepath.Base(path))
	p.Path = path

	return p, ok
}

// ParseBase classifies a base file name such as "SCENARIO.DAT" or "maldive.dat".
func ParseBase(base string) (Parsed, bool) {
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".dat") {
		return Parsed{}, false
	}

	upper := strings.ToUpper(base)
	key := strings.TrimSuffix(upper, ".DAT")
	if key == "" {
		return Parsed{}, false
	}

	switch upper {
	case ScenarioFileName:
		return Parsed{Key: key, Kind: Scenario}, true
	case AirTemplates:
		return Parsed{Key: key, Kind: TemplateAir}, true
	case SurfaceTemplates:
		return Parsed{Key: key, Kind: TemplateSurface}, true
	case SubTemplates:
		return Parsed{Key: key, Kind: TemplateSub}, true
	}

	if strings.HasPrefix(key, "TRM") || !isKey(key) {
		return Parsed{Key: key, Kind: Unknown}, true
	}

	return Parsed{Key: key, Kind: Map}, true
}

// Discover lists the classified .DAT files of a directory sorted by name.
func Discover(dir string) ([]Parsed, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []Parsed
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		p, ok := ParseFile(filepath.Join(dir, e.Name()))
		if !ok {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

// FindMap returns the map file for a scenario key, matching names case-insensitively.
func FindMap(dir, key string) (string, bool) {
	files, err := Discover(dir)
	if err != nil {
		return "", false
	}

	key = strings.ToUpper(strings.TrimSpace(key))
	for _, f := range files {
		if f.Kind == Map && f.Key == key {
			return f.Path, true
		}
	}

	return "", false
}

// isKey checks that a base name only holds letters and digits (DOS 8.3 stem).
func isKey(s string) bool {
	if len(s) > 8 {
		return false
	}

	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}

	return s != ""
}
