package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/portable"
	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
)

type patchCmd struct {
	Args struct {
		Input  string `positional-arg-name:"IN" required:"true" description:"SCENARIO.DAT or map file"`
		Edits  string `positional-arg-name:"EDITS" required:"true" description:"Edit document (yaml/json)"`
		Output string `positional-arg-name:"OUT" description:"Output file (default: overwrite input)"`
	} `positional-args:"true"`

	DryRun bool `short:"n" long:"dry-run" description:"Validate and apply in memory without writing"`
}

// Execute applies the edit document to the input file.
func (c *patchCmd) Execute(_ []string) error {
	kind, err := detectKind(c.Args.Input)
	if err != nil {
		return err
	}

	outPath := c.Args.Output
	if outPath == "" {
		outPath = c.Args.Input
	}

	var stats portable.ApplyStats
	switch kind {
	case gamefiles.Scenario:
		stats, err = c.patchScenarios(outPath)
	case gamefiles.Map:
		stats, err = c.patchMap(outPath)
	default:
		return fmt.Errorf("%s: only scenario and map files can be patched", c.Args.Input)
	}
	if err != nil {
		return err
	}

	printPatchStats(stats, outPath, c.DryRun)

	return nil
}

func (c *patchCmd) patchScenarios(outPath string) (portable.ApplyStats, error) {
	var doc portable.ScenarioDocument
	if err := readDocument(c.Args.Edits, &doc); err != nil {
		return portable.ApplyStats{}, err
	}

	f, err := scenario.Load(c.Args.Input)
	if err != nil {
		return portable.ApplyStats{}, err
	}

	stats, err := portable.ApplyScenarioDocument(doc, f, nil)
	if err != nil {
		return stats, err
	}
	for _, r := range f.Records {
		if r.Dirty() {
			log.Debugf("scenario %d: %d of %d text bytes, script budget %d", r.Index, r.TextSize(), r.TextCapacity(), r.ScriptBudget())
		}
	}

	// Encode before writing so size errors surface in dry runs too.
	if _, err := f.Encode(); err != nil {
		return stats, err
	}
	if c.DryRun {
		return stats, nil
	}

	return stats, f.Save(outPath)
}

func (c *patchCmd) patchMap(outPath string) (portable.ApplyStats, error) {
	var doc portable.MapDocument
	if err := readDocument(c.Args.Edits, &doc); err != nil {
		return portable.ApplyStats{}, err
	}

	ws, err := openWorkspace(c.Args.Input)
	if err != nil {
		return portable.ApplyStats{}, err
	}
	m, err := ws.openMap(c.Args.Input)
	if err != nil {
		return portable.ApplyStats{}, err
	}

	stats, err := portable.ApplyMapDocument(doc, m)
	if err != nil {
		return stats, err
	}

	if _, err := m.Encode(); err != nil {
		return stats, err
	}
	if c.DryRun {
		return stats, nil
	}

	return stats, m.Save(outPath)
}

// printPatchStats prints the patch statistics.
func printPatchStats(stats portable.ApplyStats, outPath string, dryRun bool) {
	if dryRun {
		fmt.Printf("dry run, %s not written\n", outPath)
	} else {
		fmt.Printf("patched %s\n", outPath)
	}
	fmt.Printf("edited: %d\n", stats.Edited)
	fmt.Printf("added: %d\n", stats.Added)
	fmt.Printf("deleted: %d\n", stats.Deleted)
}
