// Package templates reads unit names from the TRMAIR/TRMSRF/TRMSUB template
// libraries. Only the name and icon index of each template are decoded.
package templates

import (
	"errors"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// Layout describes where a library stores the icon index.
type Layout struct {
	File       string
	IconOffset int
	IconBytes  int // 1, or 2 for a word whose low byte is the index
}

// Layouts lists the library file of each unit category.
var Layouts = map[units.Category]Layout{
	units.Air:     {File: gamefiles.AirTemplates, IconOffset: 33, IconBytes: 1},
	units.Surface: {File: gamefiles.SurfaceTemplates, IconOffset: 114, IconBytes: 2},
	units.Sub:     {File: gamefiles.SubTemplates, IconOffset: 26, IconBytes: 1},
}

// Template is one library entry.
type Template struct {
	Name    string `json:"name"`
	Icon    int    `json:"icon"` // -1 when the record is too short
	HasIcon bool   `json:"has_icon"`
}

// Decode parses a u16 count followed by equally sized records.
func Decode(data []byte, layout Layout) ([]Template, error) {
	count, err := bin.U16At(data, 0, layout.File+" count")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	size := (len(data) - 2) / int(count)
	if size == 0 {
		return nil, &bin.MalformedRecordError{
			Record: layout.File,
			Expect: "non-empty template records",
			Got:    "zero-length records",
			Offset: 2,
		}
	}

	out := make([]Template, 0, count)
	for i := 0; i < int(count); i++ {
		rec := data[2+i*size : 2+(i+1)*size]

		name, _ := bin.NewCursor(rec).CString()

		t := Template{Name: bin.DecodeText(name), Icon: -1}
		switch {
		case layout.IconBytes == 1 && layout.IconOffset < len(rec):
			t.Icon, t.HasIcon = int(rec[layout.IconOffset]), true
		case layout.IconBytes == 2 && layout.IconOffset+2 <= len(rec):
			t.Icon, t.HasIcon = int(bin.ReadU16(rec[layout.IconOffset:])&0xFF), true
		}
		out = append(out, t)
	}

	return out, nil
}

// Library holds the templates of every category and implements the template
// lookup used by map files.
type Library struct {
	byCategory map[units.Category][]Template
	overrides  map[units.Category]map[uint8]string
}

// New returns an empty library.
func New() *Library {
	return &Library{
		byCategory: map[units.Category][]Template{},
		overrides:  map[units.Category]map[uint8]string{},
	}
}

// Load reads the libraries found in dir. Missing files are skipped.
func Load(dir string) (*Library, error) {
	lib := New()
	for _, c := range units.Categories {
		layout := Layouts[c]
		path := filepath.Join(dir, layout.File)

		data, err := gamefiles.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "read templates %s", path)
		}

		list, err := Decode(data, layout)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "load templates %s", path)
		}
		lib.byCategory[c] = list
	}

	return lib, nil
}

// Set replaces the list of one category.
func (l *Library) Set(c units.Category, list []Template) {
	l.byCategory[c] = list
}

// Override names a template id regardless of the library contents.
func (l *Library) Override(c units.Category, id uint8, name string) {
	if l.overrides[c] == nil {
		l.overrides[c] = map[uint8]string{}
	}
	l.overrides[c][id] = name
}

// Templates returns the list of one category.
func (l *Library) Templates(c units.Category) []Template {
	return l.byCategory[c]
}

// Template returns one entry.
func (l *Library) Template(c units.Category, id uint8) (Template, bool) {
	list := l.byCategory[c]
	if int(id) >= len(list) {
		return Template{}, false
	}

	return list[id], true
}

// TemplateName returns the display name of a template id.
func (l *Library) TemplateName(c units.Category, id uint8) (string, bool) {
	if name, ok := l.overrides[c][id]; ok {
		return name, true
	}

	t, ok := l.Template(c, id)
	if !ok || t.Name == "" {
		return "", false
	}

	return t.Name, true
}
