package gamefiles

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		ok   bool
		kind Kind
		key  string
	}{
		{name: "scenario", base: "SCENARIO.DAT", ok: true, kind: Scenario, key: "SCENARIO"},
		{name: "scenario lower", base: "scenario.dat", ok: true, kind: Scenario, key: "SCENARIO"},
		{name: "map", base: "MALDIVE.DAT", ok: true, kind: Map, key: "MALDIVE"},
		{name: "air templates", base: "TRMAIR.DAT", ok: true, kind: TemplateAir, key: "TRMAIR"},
		{name: "surface templates", base: "trmsrf.dat", ok: true, kind: TemplateSurface, key: "TRMSRF"},
		{name: "sub templates", base: "TRMSUB.DAT", ok: true, kind: TemplateSub, key: "TRMSUB"},
		{name: "other trm", base: "TRMWPN.DAT", ok: true, kind: Unknown, key: "TRMWPN"},
		{name: "long stem", base: "LONGMAPNAME.DAT", ok: true, kind: Unknown, key: "LONGMAPNAME"},
		{name: "pcx", base: "MAP.PCX", ok: false},
		{name: "bare ext", base: ".DAT", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseBase(tt.base)
			if ok != tt.ok {
				t.Fatalf("ok=%v want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.Kind != tt.kind {
				t.Fatalf("kind=%v want %v", got.Kind, tt.kind)
			}
			if got.Key != tt.key {
				t.Fatalf("key=%q want %q", got.Key, tt.key)
			}
		})
	}
}

func TestDiscoverAndFindMap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"SCENARIO.DAT", "maldive.dat", "TRMAIR.DAT", "README.TXT"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{0, 0}, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files=%v", files)
	}

	path, ok := FindMap(dir, "Maldive")
	if !ok || filepath.Base(path) != "maldive.dat" {
		t.Fatalf("FindMap=%q ok=%v", path, ok)
	}
	if _, ok := FindMap(dir, "ARABIA"); ok {
		t.Fatalf("unexpected map for ARABIA")
	}
}

func TestReadFileAndSniff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	scen := make([]byte, 2+2*BlockSize)
	scen[0] = 2
	scenPath := filepath.Join(dir, "SCENARIO.DAT")
	if err := WriteFile(scenPath, scen); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := ReadFile(scenPath)
	if err != nil || len(data) != len(scen) {
		t.Fatalf("ReadFile len=%d err=%v", len(data), err)
	}

	kind, count, err := Sniff(scenPath)
	if err != nil || kind != Scenario || count != 2 {
		t.Fatalf("Sniff scenario kind=%v count=%d err=%v", kind, count, err)
	}

	mapData := make([]byte, 2+1*65+64+10)
	mapData[0] = 1
	mapPath := filepath.Join(dir, "MALDIVE.DAT")
	if err := WriteFile(mapPath, mapData); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	kind, count, err = Sniff(mapPath)
	if err != nil || kind != Map || count != 1 {
		t.Fatalf("Sniff map kind=%v count=%d err=%v", kind, count, err)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.dat")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
