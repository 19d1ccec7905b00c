package scenario

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
)

func sampleFile() []byte {
	block, _ := sampleBlock()
	opaque := make([]byte, BlockSize)
	copy(opaque, "Campaign\x00")

	data := []byte{2, 0}
	data = append(data, block...)
	data = append(data, opaque...)
	return append(data, 0xDE, 0xAD)
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	data := sampleFile()
	f, err := DecodeFile(data)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if len(f.Records) != 2 || !f.Records[1].Opaque || f.Records[1].Index != 1 {
		t.Fatalf("records=%d", len(f.Records))
	}
	if !bytes.Equal(f.Extra, []byte{0xDE, 0xAD}) {
		t.Fatalf("extra=%x", f.Extra)
	}

	out, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round trip differs")
	}
}

func TestDecodeFileShort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"missing blocks", []byte{3, 0, 1, 2, 3}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeFile(tt.data)
			var oor *bin.OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("err=%v want OutOfRangeError", err)
			}
		})
	}
}

func TestFileAddDuplicateDelete(t *testing.T) {
	t.Parallel()

	f, err := DecodeFile(sampleFile())
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	blank := f.Add()
	if blank.Index != 2 || blank.Title() != "Scenario 3" {
		t.Fatalf("blank index=%d title=%q", blank.Index, blank.Title())
	}

	f.Records[0].Notes = "Edited."
	dup, err := f.Duplicate(0)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if dup.Index != 3 || dup.Notes != "Edited." || dup.ScenarioKey != "Maldives" {
		t.Fatalf("dup index=%d notes=%q key=%q", dup.Index, dup.Notes, dup.ScenarioKey)
	}

	if err := f.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.Records) != 3 || f.Records[2] != dup || dup.Index != 2 {
		t.Fatalf("records=%d dup index=%d", len(f.Records), dup.Index)
	}
	if err := f.Delete(7); err == nil {
		t.Fatalf("expected out of range error")
	}

	out, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) != 2+3*BlockSize+2 || out[0] != 3 {
		t.Fatalf("len=%d count=%d", len(out), out[0])
	}
}

func TestLoadSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "SCENARIO.DAT")

	f, err := DecodeFile(sampleFile())
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	f.Records[0].Objectives = "Hold the atoll."
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Records[0].Objectives != "Hold the atoll." {
		t.Fatalf("objectives=%q", loaded.Records[0].Objectives)
	}

	if _, err := Load(filepath.Join(dir, "missing.dat")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
