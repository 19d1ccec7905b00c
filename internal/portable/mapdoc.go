package portable

import (
	"fmt"
	"slices"

	"github.com/woozymasta/fleet-scenario-tool/internal/mapfile"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// MapDocument is a clean export of a map file. When applied, only regions
// and units are read and nil fields leave values unchanged.
type MapDocument struct {
	Regions      []MapRegion  `json:"regions"`
	RegionErrors []string     `json:"region_errors,omitempty"` // read only
	Sections     []MapSection `json:"sections,omitempty"`      // read only
	Units        []MapUnit    `json:"units,omitempty"`
}

// MapRegion is one region record.
type MapRegion struct {
	Index    int               `json:"index"`
	Name     *string           `json:"name,omitempty"`
	Code     string            `json:"code,omitempty"` // read only
	Adjacent []string          `json:"adjacent,omitempty"`
	Position *mapfile.Position `json:"position,omitempty"`
}

// MapSection describes one pointer section.
type MapSection struct {
	Index          int                    `json:"index"`
	Start          uint16                 `json:"start"`
	Count          uint16                 `json:"count"`
	Classification mapfile.Classification `json:"classification"`
	Error          string                 `json:"error,omitempty"`
	Strings        []string               `json:"strings,omitempty"`
}

// MapUnit is one occupied unit slot.
type MapUnit struct {
	Category   units.Category `json:"category"`
	Slot       int            `json:"slot"`
	TemplateID *uint8         `json:"template_id,omitempty"`
	Template   string         `json:"template,omitempty"` // read only
	Side       *uint8         `json:"side,omitempty"`
	Region     *uint16        `json:"region,omitempty"`
	RegionName string         `json:"region_name,omitempty"` // read only
	TileX      *uint16        `json:"tile_x,omitempty"`
	TileY      *uint16        `json:"tile_y,omitempty"`
}

// ToMapDocument exports f.
func ToMapDocument(f *mapfile.File) MapDocument {
	out := MapDocument{}

	for i, r := range f.Regions {
		if r == nil {
			continue
		}

		mr := MapRegion{Index: i, Name: ptr(r.Name), Code: r.RegionCode, Adjacent: r.AdjacentCodes}
		if r.Position.Valid {
			mr.Position = ptr(r.Position)
		}
		out.Regions = append(out.Regions, mr)
	}
	for _, e := range f.RegionErrors {
		out.RegionErrors = append(out.RegionErrors, e.Error())
	}

	for i := range f.Sections {
		s := &f.Sections[i]
		ms := MapSection{
			Index:          i,
			Start:          s.Entry.Start,
			Count:          s.Entry.Count,
			Classification: s.Classification,
		}
		if s.Err != nil {
			ms.Error = s.Err.Error()
		}
		if s.Classification == mapfile.StringTable {
			for _, e := range s.Strings() {
				ms.Strings = append(ms.Strings, e.Text)
			}
		}
		out.Sections = append(out.Sections, ms)
	}

	for _, c := range units.Categories {
		for _, rec := range f.UnitRecords(c) {
			u := MapUnit{
				Category:   c,
				Slot:       rec.Slot,
				TemplateID: ptr(rec.TemplateID),
				Side:       ptr(uint8(rec.Side)),
				Region:     ptr(rec.RegionIndex),
				TileX:      ptr(rec.TileX),
				TileY:      ptr(rec.TileY),
			}
			u.Template, _ = f.TemplateName(c, rec.TemplateID)
			if rec.InRegion(f.RegionCount()) {
				u.RegionName, _ = f.RegionName(int(rec.RegionIndex))
			}
			out.Units = append(out.Units, u)
		}
	}

	return out
}

// ValidateMapDocument checks that every edit targets an existing record.
func ValidateMapDocument(doc MapDocument, f *mapfile.File) error {
	for _, r := range doc.Regions {
		if _, err := f.Region(r.Index); err != nil {
			return err
		}
	}

	for _, u := range doc.Units {
		t, ok := f.Units[u.Category]
		if !ok {
			return fmt.Errorf("units %s: no unit table", u.Category)
		}
		if _, err := t.Slot(u.Slot); err != nil {
			return fmt.Errorf("units %s: %w", u.Category, err)
		}
		if u.Region != nil && int(*u.Region) >= f.RegionCount() {
			return fmt.Errorf("units %s slot %d: region %d out of range [0,%d)", u.Category, u.Slot, *u.Region, f.RegionCount())
		}
	}

	return nil
}

// ApplyMapDocument validates doc and applies region and unit edits to f.
func ApplyMapDocument(doc MapDocument, f *mapfile.File) (ApplyStats, error) {
	var stats ApplyStats
	if err := ValidateMapDocument(doc, f); err != nil {
		return stats, err
	}

	for _, mr := range doc.Regions {
		r, _ := f.Region(mr.Index)
		edited, err := applyRegion(r, mr)
		if err != nil {
			return stats, err
		}
		if edited {
			stats.Edited++
		}
	}

	for _, u := range doc.Units {
		rec, _ := f.Units[u.Category].Slot(u.Slot)
		if u.TemplateID != nil && *u.TemplateID != rec.TemplateID {
			rec.SetTemplateID(*u.TemplateID)
		}
		if u.Side != nil && units.Side(*u.Side) != rec.Side {
			rec.SetSide(units.Side(*u.Side))
		}
		if u.Region != nil && *u.Region != rec.RegionIndex {
			rec.SetRegionIndex(*u.Region)
		}
		if (u.TileX != nil && *u.TileX != rec.TileX) || (u.TileY != nil && *u.TileY != rec.TileY) {
			x, y := rec.TileX, rec.TileY
			if u.TileX != nil {
				x = *u.TileX
			}
			if u.TileY != nil {
				y = *u.TileY
			}
			rec.SetTile(x, y)
		}
		if rec.Dirty() {
			stats.Edited++
		}
	}

	return stats, f.Sync()
}

// applyRegion writes changed fields only, so an exported document re-applies
// without touching the bytes.
func applyRegion(r *mapfile.Region, mr MapRegion) (bool, error) {
	edited := false

	if mr.Name != nil && *mr.Name != r.Name {
		if err := r.SetName(*mr.Name); err != nil {
			return false, fmt.Errorf("region %d: %w", mr.Index, err)
		}
		edited = true
	}

	if mr.Adjacent != nil && !slices.Equal(mr.Adjacent, r.AdjacentCodes) {
		if err := r.SetAdjacentCodes(mr.Adjacent); err != nil {
			return false, fmt.Errorf("region %d: %w", mr.Index, err)
		}
		edited = true
	}

	if mr.Position != nil {
		p := *mr.Position
		p.Valid = r.Position.Valid
		if p != r.Position {
			if err := r.SetPosition(p); err != nil {
				return false, fmt.Errorf("region %d: %w", mr.Index, err)
			}
			edited = true
		}
	}

	return edited, nil
}
