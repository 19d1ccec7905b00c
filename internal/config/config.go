// Package config loads tool settings from an ini file.
//
//	dir = C:\GAMES\5THFLEET
//	side_policy = low-bits
//	side_mask = 3
//
//	[formulas]
//	base = operand-1
//	port = operand-2, operand-1, operand
//
//	[sections]
//	names = 9
//	ships = 14
//	convoy_marker = Fast Convoy
//
//	[classify]
//	template_limit = 200
//
//	[templates.surface]
//	4 = Fast Convoy
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/woozymasta/fleet-scenario-tool/internal/mapfile"
	"github.com/woozymasta/fleet-scenario-tool/internal/script"
	"github.com/woozymasta/fleet-scenario-tool/internal/strtab"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// DefaultFile is read when no config path is given.
const DefaultFile = "fleet.ini"

// Config holds the resolved settings.
type Config struct {
	Dir           string
	Policy        units.SidePolicy
	BaseFormula   strtab.Formula
	PortFormulas  []strtab.Formula
	NameSection   int
	ShipSection   int
	ConvoyMarker  string
	Classify      mapfile.ClassifyOptions
	TemplateNames map[units.Category]map[uint8]string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Policy:        units.DefaultPolicy,
		BaseFormula:   strtab.OperandMinusOne,
		PortFormulas:  []strtab.Formula{strtab.OperandMinusTwo, strtab.OperandMinusOne, strtab.Direct},
		NameSection:   script.NameSection,
		ShipSection:   script.ShipSection,
		ConvoyMarker:  script.ConvoyMarker,
		Classify:      mapfile.DefaultClassifyOptions,
		TemplateNames: map[units.Category]map[uint8]string{},
	}
}

// Load reads path. A missing file yields the defaults when optional is set.
func Load(path string, optional bool) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && optional {
		return Default(), nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return Config{}, err
	}

	return parse(f)
}

// Parse reads settings from ini source bytes.
func Parse(data []byte) (Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return Config{}, err
	}

	return parse(f)
}

func parse(f *ini.File) (Config, error) {
	cfg := Default()

	root := f.Section("")
	cfg.Dir = root.Key("dir").String()

	if root.HasKey("side_policy") || root.HasKey("side_mask") {
		policy, err := units.PolicyByName(root.Key("side_policy").String())
		if err != nil {
			return Config{}, err
		}
		if lb, ok := policy.(units.LowBits); ok && root.HasKey("side_mask") {
			mask, err := root.Key("side_mask").Uint()
			if err != nil || mask == 0 || mask > 0xFF {
				return Config{}, fmt.Errorf("side_mask: invalid value %q", root.Key("side_mask").String())
			}
			lb.Mask = uint8(mask)
			policy = lb
		}
		cfg.Policy = policy
	}

	formulas := f.Section("formulas")
	if formulas.HasKey("base") {
		fm, err := strtab.ParseFormula(formulas.Key("base").String())
		if err != nil {
			return Config{}, fmt.Errorf("formulas.base: %w", err)
		}
		cfg.BaseFormula = fm
	}
	if formulas.HasKey("port") {
		var list []strtab.Formula
		for _, s := range formulas.Key("port").Strings(",") {
			fm, err := strtab.ParseFormula(s)
			if err != nil {
				return Config{}, fmt.Errorf("formulas.port: %w", err)
			}
			list = append(list, fm)
		}
		if len(list) == 0 {
			return Config{}, errors.New("formulas.port: empty list")
		}
		cfg.PortFormulas = list
	}

	sections := f.Section("sections")
	cfg.NameSection = sections.Key("names").RangeInt(cfg.NameSection, 0, mapfile.PointerCount-1)
	cfg.ShipSection = sections.Key("ships").RangeInt(cfg.ShipSection, 0, mapfile.PointerCount-1)
	cfg.ConvoyMarker = sections.Key("convoy_marker").MustString(cfg.ConvoyMarker)

	classify := f.Section("classify")
	cfg.Classify.TemplateLimit = classify.Key("template_limit").MustInt(cfg.Classify.TemplateLimit)
	cfg.Classify.PairTypeLimit = classify.Key("pair_type_limit").MustInt(cfg.Classify.PairTypeLimit)
	cfg.Classify.PairIDLimit = classify.Key("pair_id_limit").MustInt(cfg.Classify.PairIDLimit)

	for _, c := range units.Categories {
		sec, err := f.GetSection("templates." + string(c))
		if err != nil {
			continue
		}

		for _, key := range sec.Keys() {
			id, err := strconv.ParseUint(strings.TrimSpace(key.Name()), 0, 8)
			if err != nil {
				return Config{}, fmt.Errorf("templates.%s: bad template id %q", c, key.Name())
			}
			if cfg.TemplateNames[c] == nil {
				cfg.TemplateNames[c] = map[uint8]string{}
			}
			cfg.TemplateNames[c][uint8(id)] = key.String()
		}
	}

	return cfg, nil
}

// MapOptions returns decode options for map files.
func (c Config) MapOptions(templates mapfile.TemplateNamer) mapfile.Options {
	return mapfile.Options{Templates: templates, Policy: c.Policy, Classify: c.Classify}
}

// ScriptOptions returns interpreter options bound to m, which may be nil.
func (c Config) ScriptOptions(m script.MapContext) script.Options {
	return script.Options{
		Map:          m,
		BaseFormula:  c.BaseFormula,
		PortFormulas: c.PortFormulas,
		NameSection:  c.NameSection,
		ShipSection:  c.ShipSection,
		ConvoyMarker: c.ConvoyMarker,
	}
}
