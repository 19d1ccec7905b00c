package main

import (
	"fmt"

	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/portable"
	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
	"github.com/woozymasta/fleet-scenario-tool/internal/templates"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

type dumpCmd struct {
	Args struct {
		Input  string `positional-arg-name:"IN" required:"true" description:"Map, SCENARIO.DAT or TRM*.DAT file"`
		Output string `positional-arg-name:"OUT" description:"Output document (default: stdout)"`
	} `positional-args:"true"`

	Format string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
}

// Execute writes the portable document of the input file.
func (c *dumpCmd) Execute(_ []string) error {
	kind, err := detectKind(c.Args.Input)
	if err != nil {
		return err
	}

	var doc any
	switch kind {
	case gamefiles.Scenario:
		f, err := scenario.Load(c.Args.Input)
		if err != nil {
			return err
		}
		doc = portable.ToScenarioDocument(f, nil)

	case gamefiles.Map:
		ws, err := openWorkspace(c.Args.Input)
		if err != nil {
			return err
		}
		m, err := ws.openMap(c.Args.Input)
		if err != nil {
			return err
		}
		doc = portable.ToMapDocument(m)

	case gamefiles.TemplateAir, gamefiles.TemplateSurface, gamefiles.TemplateSub:
		doc, err = templateDocument(c.Args.Input, kind)
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("%s: not a map, scenario or template file", c.Args.Input)
	}

	out, err := encodeDocument(doc, c.Format)
	if err != nil {
		return err
	}

	return writeOutput(c.Args.Output, out)
}

type templateDoc struct {
	Category  units.Category       `json:"category"`
	Templates []templates.Template `json:"templates"`
}

func templateDocument(path string, kind gamefiles.Kind) (templateDoc, error) {
	c := units.Air
	switch kind {
	case gamefiles.TemplateSurface:
		c = units.Surface
	case gamefiles.TemplateSub:
		c = units.Sub
	}

	data, err := gamefiles.ReadFile(path)
	if err != nil {
		return templateDoc{}, err
	}

	list, err := templates.Decode(data, templates.Layouts[c])
	if err != nil {
		return templateDoc{}, fmt.Errorf("%s: %w", path, err)
	}

	return templateDoc{Category: c, Templates: list}, nil
}
