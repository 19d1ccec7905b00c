package selftest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"

	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/mapfile"
	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// Mismatch is a record whose re-encoded bytes differ from the input.
type Mismatch struct {
	Record string `json:"record"` // e.g. "region 12", "units surface"
	Offset int    `json:"offset"` // first differing byte inside the record
	Want   uint64 `json:"want"`   // xxhash of the original bytes
	Got    uint64 `json:"got"`    // xxhash of the re-encoded bytes
	Err    string `json:"error,omitempty"`
}

func (m Mismatch) String() string {
	if m.Err != "" {
		return fmt.Sprintf("%s: %s", m.Record, m.Err)
	}

	return fmt.Sprintf("%s: differs at byte %d (want %016x, got %016x)", m.Record, m.Offset, m.Want, m.Got)
}

// Report is the result for one file.
type Report struct {
	Path       string         `json:"path"`
	Kind       gamefiles.Kind `json:"-"`
	Checked    int            `json:"checked"`
	Skipped    []string       `json:"skipped,omitempty"` // records that did not decode
	Mismatches []Mismatch     `json:"mismatches,omitempty"`
	Err        error          `json:"-"` // whole-file failure
}

// OK reports whether every checked record round-tripped.
func (r *Report) OK() bool {
	return r.Err == nil && len(r.Mismatches) == 0
}

func (r *Report) compare(record string, want, got []byte) {
	r.Checked++
	if bytes.Equal(want, got) {
		return
	}

	off := 0
	for off < len(want) && off < len(got) && want[off] == got[off] {
		off++
	}
	r.Mismatches = append(r.Mismatches, Mismatch{
		Record: record,
		Offset: off,
		Want:   xxhash.Sum64(want),
		Got:    xxhash.Sum64(got),
	})
}

func (r *Report) fail(record string, err error) {
	r.Checked++
	r.Mismatches = append(r.Mismatches, Mismatch{Record: record, Err: err.Error()})
}

// CheckMap round-trips the regions and unit tables of a map file.
func CheckMap(path string, data []byte, scope Scope, opts mapfile.Options) Report {
	rep := Report{Path: path, Kind: gamefiles.Map}

	f, err := mapfile.Decode(data, opts)
	if err != nil {
		rep.Err = err
		return rep
	}

	if scope.IncludesRegions() {
		for i := 0; i < f.RegionCount(); i++ {
			off := 2 + i*mapfile.RegionSize
			want := data[off : off+mapfile.RegionSize]
			name := fmt.Sprintf("region %d", i)

			r, err := mapfile.DecodeRegionAt(want, i, off)
			if err != nil {
				rep.Skipped = append(rep.Skipped, fmt.Sprintf("%s: %v", name, err))
				continue
			}

			got, err := r.Encode()
			if err != nil {
				rep.fail(name, err)
				continue
			}
			rep.compare(name, want, got[:])
		}
	}

	if scope.IncludesUnits() {
		for _, c := range units.Categories {
			idx, _ := units.SectionOf(c)
			sec := f.Sections[idx]
			t, ok := f.Units[c]
			if sec.Failed || !ok {
				rep.Skipped = append(rep.Skipped, fmt.Sprintf("units %s: section %d unavailable", c, idx))
				continue
			}
			rep.compare("units "+string(c), sec.Data, t.Encode())
		}
	}

	if scope.IncludesFiles() {
		got, err := f.Encode()
		if err != nil {
			rep.fail("file", err)
		} else {
			rep.compare("file", data, got)
		}
	}

	return rep
}

// CheckScenarios round-trips every block of a scenario container.
func CheckScenarios(path string, data []byte, scope Scope) Report {
	rep := Report{Path: path, Kind: gamefiles.Scenario}

	f, err := scenario.DecodeFile(data)
	if err != nil {
		rep.Err = err
		return rep
	}

	if scope.IncludesScenarios() {
		for i, r := range f.Records {
			off := 2 + i*scenario.BlockSize
			name := fmt.Sprintf("scenario %d", i)

			got, err := r.Encode()
			if err != nil {
				rep.fail(name, err)
				continue
			}
			rep.compare(name, data[off:off+scenario.BlockSize], got)
		}
	}

	if scope.IncludesFiles() {
		got, err := f.Encode()
		if err != nil {
			rep.fail("file", err)
		} else {
			rep.compare("file", data, got)
		}
	}

	return rep
}

// CheckFile reads path and runs the check matching its kind. Files that are
// neither maps nor scenario containers return a report with Kind Unknown.
func CheckFile(path string, scope Scope, opts mapfile.Options) Report {
	kind := gamefiles.Unknown
	if p, ok := gamefiles.ParseFile(path); ok {
		kind = p.Kind
	}
	if kind == gamefiles.Unknown {
		sniffed, _, err := gamefiles.Sniff(path)
		if err != nil {
			return Report{Path: path, Err: errors.Wrapf(err, "sniff %s", path)}
		}
		kind = sniffed
	}

	switch kind {
	case gamefiles.Map, gamefiles.Scenario:
	default:
		return Report{Path: path, Kind: kind}
	}

	data, err := gamefiles.ReadFile(path)
	if err != nil {
		return Report{Path: path, Kind: kind, Err: errors.Wrapf(err, "read %s", path)}
	}

	if kind == gamefiles.Scenario {
		return CheckScenarios(path, data, scope)
	}

	return CheckMap(path, data, scope, opts)
}

// Run checks files and directories. Directories are scanned for game files.
func Run(paths []string, scope Scope, opts mapfile.Options) ([]Report, error) {
	var out []Report
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return out, err
		}

		if !st.IsDir() {
			out = append(out, CheckFile(p, scope, opts))
			continue
		}

		files, err := gamefiles.Discover(p)
		if err != nil {
			return out, errors.Wrapf(err, "scan %s", p)
		}
		for _, f := range files {
			if f.Kind != gamefiles.Map && f.Kind != gamefiles.Scenario {
				continue
			}
			out = append(out, CheckFile(f.Path, scope, opts))
		}
	}

	return out, nil
}

// Failed counts reports that are not OK.
func Failed(reports []Report) int {
	n := 0
	for i := range reports {
		if !reports[i].OK() {
			n++
		}
	}

	return n
}
