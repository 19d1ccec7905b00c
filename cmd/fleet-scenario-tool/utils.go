package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/yaml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/woozymasta/fleet-scenario-tool/internal/config"
	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/mapfile"
	"github.com/woozymasta/fleet-scenario-tool/internal/templates"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// workspace is the settings and template names shared by commands that open map files.
type workspace struct {
	cfg config.Config
	lib *templates.Library
	dir string // game directory
}

// openWorkspace loads settings and the template libraries. The game directory
// comes from the settings file, falling back to the directory of near.
func openWorkspace(near string) (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dir := cfg.Dir
	if dir == "" && near != "" {
		dir = filepath.Dir(near)
	}
	dir = cleanAbs(dir)

	lib, err := templates.Load(dir)
	if err != nil {
		return nil, err
	}
	for c, names := range cfg.TemplateNames {
		for id, name := range names {
			lib.Override(c, id, name)
		}
	}
	for _, c := range units.Categories {
		log.Debugf("%s templates: %d", c, len(lib.Templates(c)))
	}

	return &workspace{cfg: cfg, lib: lib, dir: dir}, nil
}

// openMap loads a map file and logs the records that failed to decode.
func (w *workspace) openMap(path string) (*mapfile.File, error) {
	m, err := mapfile.Load(path, w.cfg.MapOptions(w.lib))
	if err != nil {
		return nil, err
	}

	for _, e := range m.RegionErrors {
		log.Warnf("%s: %v", path, e)
	}
	for i := range m.Sections {
		if s := &m.Sections[i]; s.Err != nil {
			log.Warnf("%s: section %d: %v", path, i, s.Err)
		}
	}
	log.Debugf("map %s: %d regions", path, m.RegionCount())

	return m, nil
}

// findMap returns the map file named by a scenario key inside the game directory.
func (w *workspace) findMap(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	return gamefiles.FindMap(w.dir, key)
}

// detectKind classifies a file by name, falling back to its size.
func detectKind(path string) (gamefiles.Kind, error) {
	if p, ok := gamefiles.ParseFile(path); ok && p.Kind != gamefiles.Unknown {
		return p.Kind, nil
	}

	kind, _, err := gamefiles.Sniff(path)
	if err != nil {
		return gamefiles.Unknown, errors.Wrapf(err, "sniff %s", path)
	}

	return kind, nil
}

// readDocument reads a yaml or json edit document.
func readDocument(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return errors.Wrapf(yaml.Unmarshal(raw, v), "parse %s", path)
}

// encodeDocument encodes a document in the requested format.
func encodeDocument(v any, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml":
		return yaml.Marshal(v)
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return gamefiles.WriteFile(path, data)
}

// cleanAbs cleans a path and returns it as an absolute path.
func cleanAbs(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "."
	}

	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}

	return filepath.Clean(p)
}
