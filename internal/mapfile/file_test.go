package mapfile

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

type fakeTemplates map[uint8]string

func (f fakeTemplates) TemplateName(c units.Category, id uint8) (string, bool) {
	if c != units.Surface {
		return "", false
	}

	name, ok := f[id]
	return name, ok
}

// sampleMap returns a two-region map with overlapping sections 3 and 7, a
// base name table in section 9 and one surface unit table.
func sampleMap() []byte {
	names := stringsSection("Male Atoll", "Cochin", "Madurai")
	surface := append(unitFrame(0x0104, 1, 10, 20), unitFrame()...)

	var data []byte
	data = append(data, names...)                // [0, 26)
	data = append(data, 1, 2, 1, 3, 2, 7, 0, 0) // [26, 34)
	data = append(data, surface...)              // [34, 98)

	var ptr [PointerCount]PointerEntry
	ptr[3] = PointerEntry{Start: 26, Count: 6}
	ptr[7] = PointerEntry{Start: 28, Count: 6}
	ptr[8] = PointerEntry{Start: 34, Count: 64}
	ptr[9] = PointerEntry{Start: 0, Count: 26}
	ptr[14] = PointerEntry{Start: 90, Count: 20} // beyond the data

	regions := [][]byte{
		regionBytes("Maldives\x00rpMA\x00SRIN\x00", 0, 0, 0, 0, 0, 0x1000, 0x2000, 0x0801),
		spanningRegion(),
	}

	return buildMap(regions, ptr, data)
}

func TestDecodeMapFile(t *testing.T) {
	t.Parallel()

	f, err := Decode(sampleMap(), Options{Templates: fakeTemplates{4: "Fast Convoy"}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if f.RegionCount() != 2 || len(f.RegionErrors) != 0 {
		t.Fatalf("regions=%d errors=%v", f.RegionCount(), f.RegionErrors)
	}
	if name, ok := f.RegionName(1); !ok || name != "Arabian Sea" {
		t.Fatalf("region 1=%q ok=%v", name, ok)
	}
	if r, ok := f.FindRegionByCode("AS"); !ok || r.Index != 1 {
		t.Fatalf("FindRegionByCode=%v ok=%v", r, ok)
	}

	if f.Sections[3].Failed || f.Sections[7].Failed {
		t.Fatalf("overlapping sections failed: %v %v", f.Sections[3].Err, f.Sections[7].Err)
	}
	if !f.Pointers[3].Overlaps(f.Pointers[7]) {
		t.Fatalf("expected entries 3 and 7 to overlap")
	}
	if f.Sections[3].Classification != IndexPairs {
		t.Fatalf("section 3=%s want index_pairs", f.Sections[3].Classification)
	}

	if f.Sections[9].Classification != StringTable {
		t.Fatalf("section 9=%s want string_table", f.Sections[9].Classification)
	}
	if tbl := f.StringTable(9); len(tbl) != 3 || tbl[0].Text != "Male Atoll" {
		t.Fatalf("section 9 strings=%v", tbl)
	}

	sec14 := f.Sections[14]
	var oor *bin.OutOfRangeError
	if !sec14.Failed || sec14.Classification != RawBytes || !errors.As(sec14.Err, &oor) {
		t.Fatalf("section 14=%+v", sec14)
	}
	if dataStart := 2 + 2*RegionSize + PointerTableSize; oor.Offset != dataStart+90 {
		t.Fatalf("section 14 offset=%d want absolute %d", oor.Offset, dataStart+90)
	}

	if f.Sections[8].Classification != UnitTable {
		t.Fatalf("section 8=%s want unit_table", f.Sections[8].Classification)
	}
	surface := f.UnitRecords(units.Surface)
	if len(surface) != 1 || surface[0].TemplateID != 4 || surface[0].RegionIndex != 1 {
		t.Fatalf("surface=%+v", surface)
	}
	if name, ok := f.TemplateName(units.Surface, surface[0].TemplateID); !ok || name != "Fast Convoy" {
		t.Fatalf("template=%q ok=%v", name, ok)
	}
}

func TestMapRoundTripAndUnitEdit(t *testing.T) {
	t.Parallel()

	src := sampleMap()
	f, err := Decode(src, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	out, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("roundtrip mismatch")
	}

	r, _ := f.Units[units.Surface].Slot(0)
	r.SetTile(99, 98)

	out, err = f.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) != len(src) {
		t.Fatalf("length=%d want %d", len(out), len(src))
	}

	back, err := Decode(out, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := back.UnitRecords(units.Surface)[0]
	if got.TileX != 99 || got.TileY != 98 || got.TemplateID != 4 {
		t.Fatalf("edited unit=%+v", got)
	}
}

func TestOverlappingUnitSectionsKeepEdits(t *testing.T) {
	t.Parallel()

	data := append(unitFrame(0x0104, 1, 10, 20), unitFrame()...)
	var ptr [PointerCount]PointerEntry
	ptr[5] = PointerEntry{Start: 0, Count: 64}
	ptr[8] = PointerEntry{Start: 0, Count: 64}
	src := buildMap([][]byte{regionBytes("Aden\x00")}, ptr, data)

	f, err := Decode(src, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	r, _ := f.Units[units.Surface].Slot(0)
	r.SetTemplateID(0x33)

	// Encode twice; the untouched air table must not restore its old words.
	for i := 0; i < 2; i++ {
		out, err := f.Encode()
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		back, err := Decode(out, Options{})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}

		for _, cat := range []units.Category{units.Air, units.Surface} {
			got := back.UnitRecords(cat)
			if len(got) != 1 || got[0].TemplateID != 0x33 || got[0].TileX != 10 {
				t.Fatalf("pass %d: %s records=%+v", i, cat, got)
			}
		}
	}
}

func TestMapRegionErrorIsolated(t *testing.T) {
	t.Parallel()

	var ptr [PointerCount]PointerEntry
	src := buildMap([][]byte{
		regionBytes("Aden\x00rpAD\x00"),
		make([]byte, RegionSize),
		regionBytes("Oman\x00rpOM\x00"),
	}, ptr, nil)

	f, err := Decode(src, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(f.RegionErrors) != 1 || f.RegionErrors[0].Index != 1 {
		t.Fatalf("region errors=%v", f.RegionErrors)
	}
	if _, ok := f.RegionName(2); !ok {
		t.Fatalf("sibling region not decoded")
	}
	if _, err := f.Region(1); err == nil {
		t.Fatalf("expected error for failed region")
	}

	out, err := f.Encode()
	if err != nil || !bytes.Equal(out, src) {
		t.Fatalf("failed region not preserved, err=%v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte{1}, Options{}); err == nil {
		t.Fatalf("expected error for missing count")
	}

	src := sampleMap()
	if _, err := Decode(src[:2+RegionSize*2+10], Options{}); err == nil {
		t.Fatalf("expected error for truncated pointer table")
	}
}

func TestLoadSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "MALDIVE.DAT")

	var ptr [PointerCount]PointerEntry
	f, err := Decode(buildMap([][]byte{regionBytes("Aden\x00")}, ptr, nil), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if name, _ := back.RegionName(0); name != "Aden" {
		t.Fatalf("name=%q", name)
	}

	if _, err := Load(filepath.Join(dir, "NONE.DAT"), Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want Classification
	}{
		{name: "empty", data: nil, want: RawBytes},
		{name: "strings", data: stringsSection("Diego Garcia", "Aden"), want: StringTable},
		{name: "short strings", data: stringsSection("ab"), want: RawBytes},
		{name: "units", data: append(unitFrame(0x0105, 2), unitFrame(0x0003)...), want: UnitTable},
		{name: "units template limit", data: unitFrame(0x01F0, 2), want: RawBytes},
		{name: "pairs", data: []byte{1, 5, 2, 9}, want: IndexPairs},
		{name: "raw", data: []byte{0xFF, 0x10, 0x99}, want: RawBytes},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.data, ClassifyOptions{}); got != tt.want {
				t.Fatalf("Classify=%s want %s", got, tt.want)
			}
		})
	}
}
