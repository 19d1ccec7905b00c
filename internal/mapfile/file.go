package mapfile

import (
	"errors"
	"fmt"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
	"github.com/woozymasta/fleet-scenario-tool/internal/strtab"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// TemplateNamer looks up external unit template names.
type TemplateNamer interface {
	TemplateName(c units.Category, id uint8) (string, bool)
}

// Options tune map decoding.
type Options struct {
	Templates TemplateNamer    // optional template name source
	Policy    units.SidePolicy // unit side policy, defaults to units.DefaultPolicy
	Classify  ClassifyOptions
}

// RegionError is a region record that failed to decode.
type RegionError struct {
	Err   error `json:"-"`
	Index int   `json:"index"`
}

func (e *RegionError) Error() string {
	return e.Err.Error()
}

func (e *RegionError) Unwrap() error {
	return e.Err
}

// File is a decoded map file.
type File struct {
	Units        map[units.Category]*units.Table // decoded unit sections 5, 8 and 11
	Regions      []*Region                       // nil entries for failed records
	RegionErrors []*RegionError                  // per-record failures, siblings still decode
	Sections     [PointerCount]Section
	Pointers     [PointerCount]PointerEntry

	templates  TemplateNamer
	regionRaw  [][]byte
	data       []byte // pointer data after the table
	tableStart int
}

// Decode parses a whole map file. Truncated region blocks or pointer
// tables abort the load; bad regions and sections do not.
func Decode(data []byte, opts Options) (*File, error) {
	count, err := bin.U16At(data, 0, "region count")
	if err != nil {
		return nil, err
	}

	tableStart := 2 + int(count)*RegionSize
	if tableStart+PointerTableSize > len(data) {
		return nil, &bin.OutOfRangeError{
			What:   "region block and pointer table",
			Offset: 0,
			Length: tableStart + PointerTableSize,
			Limit:  len(data),
		}
	}

	f := &File{
		Units:      make(map[units.Category]*units.Table),
		Regions:    make([]*Region, count),
		regionRaw:  make([][]byte, count),
		templates:  opts.Templates,
		tableStart: tableStart,
	}

	for i := 0; i < int(count); i++ {
		off := 2 + i*RegionSize
		raw := data[off : off+RegionSize]
		f.regionRaw[i] = append([]byte(nil), raw...)

		r, err := DecodeRegionAt(raw, i, off)
		if err != nil {
			f.RegionErrors = append(f.RegionErrors, &RegionError{Index: i, Err: err})
			continue
		}
		f.Regions[i] = r
	}

	f.Pointers, err = DecodePointerTable(data[tableStart:])
	if err != nil {
		return nil, err
	}
	f.data = append([]byte(nil), data[tableStart+PointerTableSize:]...)

	for i, e := range f.Pointers {
		sec := Section{Entry: e}
		sec.Data, sec.Err = ResolveSectionAt(f.data, e, tableStart+PointerTableSize)
		if sec.Err != nil {
			sec.Failed = true
			sec.Classification = RawBytes
			f.Sections[i] = sec
			continue
		}

		sec.Classification = Classify(sec.Data, opts.Classify)
		if cat, ok := units.PointerSections[i]; ok {
			tbl, err := units.Decode(sec.Data, cat, units.Options{Policy: opts.Policy})
			if err != nil {
				sec.Failed, sec.Err = true, err
			} else {
				f.Units[cat] = tbl
				if len(sec.Data) >= units.FrameSize {
					sec.Classification = UnitTable
				}
			}
		}

		f.Sections[i] = sec
	}

	return f, nil
}

// Encode writes the map back. Unit table edits are copied into their
// sections before the pointer data is emitted.
func (f *File) Encode() ([]byte, error) {
	if err := f.Sync(); err != nil {
		return nil, err
	}

	out := make([]byte, 2, f.tableStart+PointerTableSize+len(f.data))
	if err := bin.WriteU16FromInt(out, len(f.Regions)); err != nil {
		return nil, fmt.Errorf("region count: %w", err)
	}

	for i, r := range f.Regions {
		if r == nil {
			out = append(out, f.regionRaw[i]...)
			continue
		}

		b, err := r.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b[:]...)
	}

	out = append(out, EncodePointerTable(f.Pointers)...)
	return append(out, f.data...), nil
}

// Sync writes edited unit records into the shared pointer data. Only dirty
// frames are copied, so overlapping unit sections keep edits made through
// either table. Tables are visited in pointer order.
func (f *File) Sync() error {
	for _, cat := range units.Categories {
		tbl, ok := f.Units[cat]
		if !ok {
			continue
		}

		idx, _ := units.SectionOf(cat)
		sec := f.Sections[idx]
		if sec.Failed {
			continue
		}

		if _, err := tbl.WriteDirty(sec.Data); err != nil {
			return err
		}
	}

	return nil
}

// Data returns the pointer data following the table.
func (f *File) Data() []byte {
	return f.data
}

// RegionCount returns the number of region records, decoded or not.
func (f *File) RegionCount() int {
	return len(f.Regions)
}

// Region returns a decoded region.
func (f *File) Region(i int) (*Region, error) {
	if i < 0 || i >= len(f.Regions) {
		return nil, fmt.Errorf("region %d out of range [0,%d)", i, len(f.Regions))
	}
	if f.Regions[i] == nil {
		for _, re := range f.RegionErrors {
			if re.Index == i {
				return nil, re
			}
		}
		return nil, errors.New("region not decoded")
	}

	return f.Regions[i], nil
}

// RegionName returns the name of region i.
func (f *File) RegionName(i int) (string, bool) {
	r, err := f.Region(i)
	if err != nil {
		return "", false
	}

	return r.Name, true
}

// FindRegionByCode returns the region with a region code.
func (f *File) FindRegionByCode(code string) (*Region, bool) {
	for _, r := range f.Regions {
		if r != nil && r.RegionCode == code {
			return r, true
		}
	}

	return nil, false
}

// StringTable extracts pointer section idx as strings.
func (f *File) StringTable(idx int) []strtab.Entry {
	if idx < 0 || idx >= PointerCount {
		return nil
	}

	return f.Sections[idx].Strings()
}

// UnitRecords returns the non-empty records of a unit category.
func (f *File) UnitRecords(c units.Category) []*units.Record {
	tbl, ok := f.Units[c]
	if !ok {
		return nil
	}

	return tbl.Units()
}

// TemplateName resolves a template id via the configured template source.
func (f *File) TemplateName(c units.Category, id uint8) (string, bool) {
	if f.templates == nil {
		return "", false
	}

	return f.templates.TemplateName(c, id)
}

// SetTemplates replaces the template name source.
func (f *File) SetTemplates(t TemplateNamer) {
	f.templates = t
}
