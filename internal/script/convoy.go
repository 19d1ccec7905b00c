package script

import (
	"sort"
	"strings"

	"github.com/woozymasta/fleet-scenario-tool/internal/bin"
	"github.com/woozymasta/fleet-scenario-tool/internal/strtab"
	"github.com/woozymasta/fleet-scenario-tool/internal/units"
)

// Missing data flags of a convoy objective.
const (
	MissingShips       = "convoy_ships"
	MissingDestination = "destination_port"
)

// markerWindow is how far after a ship name the class marker may start.
const markerWindow = 20

// ConvoyShips returns the ship names followed by the convoy marker in the
// ship name section, sorted and unique.
func ConvoyShips(m MapContext, section int, marker string) []string {
	if m == nil {
		return nil
	}

	entries := m.StringTable(section)
	seen := make(map[string]bool)
	for i, e := range entries {
		if e.Text == marker || !strtab.LooksLikeName(e.Text) {
			continue
		}

		end := e.Offset + len(bin.EncodeText(e.Text))
		for _, next := range entries[i+1:] {
			if next.Offset > end+markerWindow {
				break
			}
			if strings.Contains(next.Text, marker) {
				seen[e.Text] = true
				break
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// ConvoyUnits counts surface units whose template is the convoy marker.
// It returns -1 when no template name is known for any surface unit.
func ConvoyUnits(m MapContext, marker string) int {
	if m == nil {
		return -1
	}

	known, count := false, 0
	for _, r := range m.UnitRecords(units.Surface) {
		name, ok := m.TemplateName(units.Surface, r.TemplateID)
		if !ok {
			continue
		}

		known = true
		if name == marker {
			count++
		}
	}

	if !known {
		return -1
	}

	return count
}

// convoyHandler combines the convoy ships with the first later destination
// instruction of the same script.
func convoyHandler(c *Call) Result {
	ships := ConvoyShips(c.Map, c.Opts.ShipSection, c.Opts.ConvoyMarker)
	fleet := ConvoyUnits(c.Map, c.Opts.ConvoyMarker)

	var (
		dest    strtab.Resolution
		hasDest bool
	)
	for _, in := range c.Script[c.Index+1:] {
		if in.Opcode != OpConvoyPort && in.Opcode != OpShipDest {
			continue
		}

		dest, hasDest = resolvePort(c, int(in.Operand))
		break
	}

	res := Result{Confidence: Inferred}
	if len(ships) == 0 {
		res.Missing = append(res.Missing, MissingShips)
	}
	if !hasDest {
		res.Missing = append(res.Missing, MissingDestination)
	} else {
		res.Formula = dest.Formula.String()
	}

	list := strings.Join(ships, ", ")
	switch {
	case len(ships) > 0 && hasDest:
		res.Text = "Convoy objective: " + list + " must reach " + dest.Text
		if dest.Primary && fleet != 0 {
			res.Confidence = Resolved
		}
	case len(ships) > 0:
		res.Text = "Convoy objective: " + list
	case hasDest:
		res.Text = "Convoy delivery mission active, destination " + dest.Text
	default:
		res.Text = "Convoy delivery mission active"
	}

	return res
}
