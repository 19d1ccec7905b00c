package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/woozymasta/fleet-scenario-tool/internal/selftest"
)

type selftestCmd struct {
	Args struct {
		Paths []string `positional-arg-name:"PATH" description:"Files or directories (default: game dir)"`
	} `positional-args:"true"`

	Scope  string `short:"s" long:"scope" choice:"all" choice:"regions" choice:"units" choice:"scenarios" default:"all" description:"Records to round-trip"`
	Format string `short:"f" long:"format" choice:"text" choice:"yaml" choice:"json" default:"text" description:"Output format"`
}

// Execute round-trips the given files and fails when any record changes.
func (c *selftestCmd) Execute(_ []string) error {
	scope, err := selftest.ParseScope(c.Scope)
	if err != nil {
		return err
	}

	ws, err := openWorkspace("")
	if err != nil {
		return err
	}

	paths := c.Args.Paths
	if len(paths) == 0 {
		paths = []string{ws.dir}
	}

	reports, err := selftest.Run(paths, scope, ws.cfg.MapOptions(ws.lib))
	if err != nil {
		return err
	}

	for _, r := range reports {
		for _, s := range r.Skipped {
			log.Warnf("%s: skipped %s", r.Path, s)
		}
	}

	if c.Format == "text" {
		printReports(reports)
	} else {
		out, err := encodeDocument(reportDocument(reports), c.Format)
		if err != nil {
			return err
		}
		if err := writeOutput("", out); err != nil {
			return err
		}
	}

	if n := selftest.Failed(reports); n > 0 {
		return fmt.Errorf("selftest: %d of %d files changed on round trip", n, len(reports))
	}

	return nil
}

type reportEntry struct {
	selftest.Report
	Kind  string `json:"kind"`
	Error string `json:"error,omitempty"`
}

func reportDocument(reports []selftest.Report) []reportEntry {
	out := make([]reportEntry, 0, len(reports))
	for _, r := range reports {
		e := reportEntry{Report: r, Kind: r.Kind.String()}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		out = append(out, e)
	}

	return out
}

func printReports(reports []selftest.Report) {
	for _, r := range reports {
		switch {
		case r.Err != nil:
			fmt.Printf("FAIL %s: %v\n", r.Path, r.Err)
		case !r.OK():
			fmt.Printf("FAIL %s: %d of %d records differ\n", r.Path, len(r.Mismatches), r.Checked)
			for _, m := range r.Mismatches {
				fmt.Printf("  %s\n", m)
			}
		default:
			fmt.Printf("ok   %s: %d records (%s)\n", r.Path, r.Checked, r.Kind)
		}
	}
}
