package main

import (
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/woozymasta/fleet-scenario-tool/internal/mapfile"
	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
	"github.com/woozymasta/fleet-scenario-tool/internal/script"
)

type decodeCmd struct {
	Args struct {
		Scenario string `positional-arg-name:"SCENARIO" required:"true" description:"SCENARIO.DAT file"`
		Output   string `positional-arg-name:"OUT" description:"Output file (default: stdout)"`
	} `positional-args:"true"`

	Map    string `short:"m" long:"map" description:"Map file (default: found by scenario key in the game dir)"`
	Index  []int  `short:"i" long:"index" description:"Scenario index, repeatable (default: all)"`
	Format string `short:"f" long:"format" choice:"text" choice:"yaml" choice:"json" default:"text" description:"Output format"`
	Width  int    `short:"w" long:"width" default:"78" description:"Wrap width of narrative text"`
}

// decodedScenario is the decode output of one record.
type decodedScenario struct {
	Index       int                       `json:"index"`
	Title       string                    `json:"title,omitempty"`
	ScenarioKey string                    `json:"scenario_key,omitempty"`
	Difficulty  string                    `json:"difficulty,omitempty"`
	TurnLimit   *int                      `json:"turn_limit,omitempty"`
	Map         string                    `json:"map,omitempty"`
	Opaque      bool                      `json:"opaque,omitempty"`
	Forces      string                    `json:"forces,omitempty"`
	Objectives  string                    `json:"objectives,omitempty"`
	Notes       string                    `json:"notes,omitempty"`
	Terminator  script.Terminator         `json:"terminator,omitempty"`
	Decoded     []script.DecodedObjective `json:"decoded,omitempty"`
}

// Execute decodes the selected scenarios.
func (c *decodeCmd) Execute(_ []string) error {
	ws, err := openWorkspace(c.Args.Scenario)
	if err != nil {
		return err
	}

	f, err := scenario.Load(c.Args.Scenario)
	if err != nil {
		return err
	}

	for _, i := range c.Index {
		if i < 0 || i >= len(f.Records) {
			return fmt.Errorf("scenario index %d out of range [0,%d)", i, len(f.Records))
		}
	}

	maps := newMapCache(ws)
	if c.Map != "" {
		if _, err := maps.load(c.Map); err != nil {
			return err
		}
	}

	var out []decodedScenario
	for _, r := range f.Records {
		if len(c.Index) > 0 && !slices.Contains(c.Index, r.Index) {
			continue
		}

		path := c.Map
		if path == "" {
			path, _ = ws.findMap(r.ScenarioKey)
		}
		m := maps.get(path)
		if path != "" && m == nil {
			path = ""
		}
		if path == "" && !r.Opaque {
			log.Debugf("scenario %d: no map for key %q, decoding without map", r.Index, r.ScenarioKey)
		}

		out = append(out, decodeScenario(r, ws.cfg.ScriptOptions(mapContext(m)), path))
	}

	var data []byte
	if c.Format == "text" {
		var b strings.Builder
		for _, d := range out {
			b.WriteString(renderScenario(d, c.Width))
			b.WriteString("\n")
		}
		data = []byte(b.String())
	} else {
		data, err = encodeDocument(out, c.Format)
		if err != nil {
			return err
		}
	}

	return writeOutput(c.Args.Output, data)
}

// decodeScenario interprets one record. mapPath is informational only.
func decodeScenario(r *scenario.Record, opts script.Options, mapPath string) decodedScenario {
	d := decodedScenario{
		Index:       r.Index,
		Title:       r.Title(),
		ScenarioKey: r.ScenarioKey,
		Difficulty:  r.Difficulty,
		Map:         mapPath,
		Opaque:      r.Opaque,
	}
	if r.Opaque {
		log.Warnf("scenario %d: no OBJECTIVES marker, kept as raw bytes", r.Index)
		return d
	}

	d.Forces, d.Objectives, d.Notes = r.Forces, r.Objectives, r.Notes
	if n, ok := r.TurnLimit(); ok {
		d.TurnLimit = &n
	}

	if r.Script == nil {
		log.Warnf("scenario %d: objective script not found", r.Index)
		return d
	}
	log.Debugf("scenario %d: script at %d, %d words, %s", r.Index, r.ScriptOffset(), r.Script.Words, r.Script.Terminator)

	d.Terminator = r.Script.Terminator
	d.Decoded = script.Decode(r.Script, opts)

	return d
}

// mapContext keeps a nil map from becoming a non-nil interface.
func mapContext(m *mapfile.File) script.MapContext {
	if m == nil {
		return nil
	}

	return m
}

// mapCache loads each map file once. Failed loads are cached as nil.
type mapCache struct {
	ws    *workspace
	files map[string]*mapfile.File
}

func newMapCache(ws *workspace) *mapCache {
	return &mapCache{ws: ws, files: map[string]*mapfile.File{}}
}

func (c *mapCache) load(path string) (*mapfile.File, error) {
	if m, ok := c.files[path]; ok {
		return m, nil
	}

	m, err := c.ws.openMap(path)
	c.files[path] = m
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (c *mapCache) get(path string) *mapfile.File {
	if path == "" {
		return nil
	}

	m, err := c.load(path)
	if err != nil {
		log.Warnf("%v", err)
	}

	return m
}
