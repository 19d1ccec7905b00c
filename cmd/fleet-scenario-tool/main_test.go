package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/invopop/yaml"

	"github.com/woozymasta/fleet-scenario-tool/internal/config"
	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/mapfile"
	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
)

func tankerBlock() []byte {
	b := []byte("FORCES\nGreen Player: FFG\nOBJECTIVES\nSink the tanker before it reaches port.\x00Tanker War\x00")
	b = append(b, 0x01)
	b = append(b, "Gulf\x00ELow\x00"...)
	b = append(b, 0x1e, 0x03, 0x00, 0x00, 0x00, 0x00) // SCORE(30)
	return append(b, make([]byte, scenario.BlockSize-len(b))...)
}

func tankerRecord(t *testing.T) *scenario.Record {
	t.Helper()

	r, err := scenario.DecodeBlock(tankerBlock(), 0)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}

	return r
}

func TestDecodeScenarioWithoutMap(t *testing.T) {
	t.Parallel()

	d := decodeScenario(tankerRecord(t), config.Default().ScriptOptions(mapContext(nil)), "")
	if d.Title != "Tanker War" || d.ScenarioKey != "Gulf" || d.Difficulty != "Low" {
		t.Fatalf("decoded=%+v", d)
	}
	if len(d.Decoded) != 1 || d.Decoded[0].Mnemonic != "SCORE" || d.Decoded[0].Operand != 30 {
		t.Fatalf("objectives=%+v", d.Decoded)
	}

	text := renderScenario(d, 20)
	for _, want := range []string{"Tanker War", "SCORE", "Gulf"} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered text misses %q:\n%s", want, text)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "Sink") && len(line) > 20 {
			t.Fatalf("narrative not wrapped: %q", line)
		}
	}
}

func TestMapContextNil(t *testing.T) {
	t.Parallel()

	var m *mapfile.File
	if mapContext(m) != nil {
		t.Fatalf("nil map became a non-nil context")
	}
}

func TestDiffFingerprints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		prev, cur   map[int]uint64
		wantChanged []int
		wantRemoved []int
	}{
		{"first load", nil, map[int]uint64{0: 1, 1: 2}, []int{0, 1}, nil},
		{"unchanged", map[int]uint64{0: 1}, map[int]uint64{0: 1}, nil, nil},
		{"edited and added", map[int]uint64{0: 1, 1: 2}, map[int]uint64{0: 1, 1: 3, 2: 4}, []int{1, 2}, nil},
		{"removed", map[int]uint64{0: 1, 1: 2}, map[int]uint64{0: 1}, nil, []int{1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			changed, removed := diffFingerprints(tt.prev, tt.cur)
			if !slices.Equal(changed, tt.wantChanged) || !slices.Equal(removed, tt.wantRemoved) {
				t.Fatalf("changed=%v removed=%v want %v %v", changed, removed, tt.wantChanged, tt.wantRemoved)
			}
		})
	}
}

func TestEncodeDocument(t *testing.T) {
	t.Parallel()

	d := decodedScenario{Index: 3, Title: "Tanker War"}
	for _, format := range []string{"yaml", "json"} {
		out, err := encodeDocument(d, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}

		var back decodedScenario
		if err := yaml.Unmarshal(out, &back); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if back.Index != 3 || back.Title != "Tanker War" {
			t.Fatalf("%s: back=%+v", format, back)
		}
	}

	if _, err := encodeDocument(d, "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestDetectKind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := append([]byte{1, 0}, tankerBlock()...)

	named := filepath.Join(dir, "SCENARIO.DAT")
	renamed := filepath.Join(dir, "backup.bin")
	for _, p := range []string{named, renamed} {
		if err := os.WriteFile(p, data, 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	for _, p := range []string{named, renamed} {
		kind, err := detectKind(p)
		if err != nil || kind != gamefiles.Scenario {
			t.Fatalf("%s: kind=%v err=%v", p, kind, err)
		}
	}
}

func TestIsScenarioWrite(t *testing.T) {
	t.Parallel()

	if !isScenarioWrite(fsWrite("/games/5thfleet/scenario.dat")) {
		t.Fatalf("lower-case scenario write ignored")
	}
	if isScenarioWrite(fsWrite("/games/5thfleet/MALDIVE.DAT")) {
		t.Fatalf("map write reported as scenario write")
	}
}

func TestCleanAbs(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"P:", "games/5thfleet", " . "} {
		got := cleanAbs(p)
		if !filepath.IsAbs(got) || strings.HasSuffix(got, `:\`) {
			t.Fatalf("cleanAbs(%q)=%q", p, got)
		}
	}
	if got := cleanAbs(""); got != "." {
		t.Fatalf("cleanAbs(\"\")=%q", got)
	}
}

func fsWrite(name string) fsnotify.Event {
	return fsnotify.Event{Name: name, Op: fsnotify.Write}
}
