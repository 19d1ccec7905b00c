package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

func library(size int, names ...string) []byte {
	out := []byte{byte(len(names)), 0}
	for i, n := range names {
		rec := make([]byte, size)
		copy(rec, n)
		if size > 115 {
			rec[114], rec[115] = byte(i+10), 0x7F
		}
		if size > 33 {
			rec[33] = byte(i + 1)
		}
		out = append(out, rec...)
	}

	return out
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		layout   Layout
		size     int
		wantIcon []int
	}{
		{"air", Layouts[units.Air], 40, []int{1, 2}},
		{"surface word", Layouts[units.Surface], 120, []int{10, 11}},
		{"short record", Layouts[units.Surface], 20, []int{-1, -1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			list, err := Decode(library(tt.size, "F-14A Tomcat", "Nimitz"), tt.layout)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(list) != 2 || list[0].Name != "F-14A Tomcat" || list[1].Name != "Nimitz" {
				t.Fatalf("list=%+v", list)
			}
			for i, want := range tt.wantIcon {
				if list[i].Icon != want || list[i].HasIcon != (want >= 0) {
					t.Fatalf("icon[%d]=%d has=%v want %d", i, list[i].Icon, list[i].HasIcon, want)
				}
			}
		})
	}
}

func TestDecodeEmptyAndShort(t *testing.T) {
	t.Parallel()

	list, err := Decode([]byte{0, 0}, Layouts[units.Air])
	if err != nil || list != nil {
		t.Fatalf("list=%v err=%v", list, err)
	}
	if _, err := Decode([]byte{1}, Layouts[units.Air]); err == nil {
		t.Fatalf("expected error for truncated count")
	}
	if _, err := Decode([]byte{5, 0, 1}, Layouts[units.Air]); err == nil {
		t.Fatalf("expected error for zero-length records")
	}
}

func TestLoadAndLookup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "TRMSRF.DAT"), library(120, "Nimitz", "Fast Convoy"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	lib, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lib.Templates(units.Air)) != 0 {
		t.Fatalf("air templates loaded from missing file")
	}

	if name, ok := lib.TemplateName(units.Surface, 1); !ok || name != "Fast Convoy" {
		t.Fatalf("name=%q ok=%v", name, ok)
	}
	if _, ok := lib.TemplateName(units.Surface, 9); ok {
		t.Fatalf("unexpected name for id 9")
	}

	lib.Override(units.Surface, 9, "Tanker")
	if name, ok := lib.TemplateName(units.Surface, 9); !ok || name != "Tanker" {
		t.Fatalf("override name=%q ok=%v", name, ok)
	}
}
