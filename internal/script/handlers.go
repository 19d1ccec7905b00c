package script

import (
	"fmt"
	"strings"

	"github.com/woozymasta/fleet-scenario-tool/internal/strtab"
)

func endHandler(c *Call) Result {
	op := c.Instruction.Operand
	if op == 0 {
		return Result{Text: "Section separator", Confidence: Resolved}
	}

	if name, ok := regionName(c, int(op)); ok {
		return Result{Text: "Victory check: " + name, Confidence: Resolved, Zones: []int{int(op)}}
	}

	return Result{Text: fmt.Sprintf("Victory check: region %d", op), Confidence: Unresolved}
}

// turnsHandler reports the literal operand. Its relation to the turn limit is unknown.
func turnsHandler(c *Call) Result {
	return Result{Text: fmt.Sprintf("%d", c.Instruction.Operand), Confidence: Unresolved}
}

func altTurnsHandler(c *Call) Result {
	return Result{Text: fmt.Sprintf("Turn limit: %d turns", c.Instruction.Operand), Confidence: Inferred}
}

func scoreHandler(c *Call) Result {
	return Result{Text: fmt.Sprintf("Victory points objective (ref: %d)", c.Instruction.Operand), Confidence: Inferred}
}

// describeHandler falls back to the opcode description.
func describeHandler(c *Call) Result {
	desc := "Unknown opcode"
	if c.Entry != nil && c.Entry.Description != "" {
		desc = c.Entry.Description
	}

	return Result{Text: fmt.Sprintf("%s (param: %d)", desc, c.Instruction.Operand), Confidence: Unresolved}
}

func refHandler(format string) Handler {
	return func(c *Call) Result {
		return Result{Text: fmt.Sprintf(format, c.Instruction.Operand), Confidence: Unresolved}
	}
}

func regionHandler(format string) Handler {
	return func(c *Call) Result {
		op := int(c.Instruction.Operand)
		if name, ok := regionName(c, op); ok {
			return Result{Text: fmt.Sprintf(format, name), Confidence: Resolved, Zones: []int{op}}
		}

		return Result{Text: fmt.Sprintf(format, fmt.Sprintf("region %d", op)), Confidence: Unresolved}
	}
}

// zoneHandler resolves in-range operands to a region and out-of-range ones
// through the multi-zone table.
func zoneHandler(format string) Handler {
	return func(c *Call) Result {
		op := int(c.Instruction.Operand)
		if name, ok := regionName(c, op); ok {
			return Result{Text: fmt.Sprintf(format, name), Confidence: Resolved, Zones: []int{op}}
		}

		if zones, ok := MultiZone(c.Instruction.Opcode, c.Instruction.Operand); ok {
			names := make([]string, len(zones))
			for i, z := range zones {
				name, ok := regionName(c, z)
				if !ok {
					name = fmt.Sprintf("region %d", z)
				}
				names[i] = name
			}

			return Result{Text: fmt.Sprintf(format, strings.Join(names, " OR ")), Confidence: Resolved, Zones: zones}
		}

		return Result{Text: fmt.Sprintf(format, fmt.Sprintf("zone/condition %d (encoding unknown)", op)), Confidence: Unresolved}
	}
}

func baseHandler(c *Call) Result {
	op := int(c.Instruction.Operand)
	if op == 0 {
		return Result{Text: "Engage/destroy enemy air facilities (no specific targets encoded)", Confidence: Inferred}
	}

	if c.Map != nil {
		f := c.Opts.BaseFormula
		if name, ok := strtab.Resolve(c.Map.StringTable(c.Opts.NameSection), op, f); ok {
			return Result{Text: "Airfield/base objective: " + name, Confidence: Resolved, Formula: f.String()}
		}
	}

	return Result{Text: fmt.Sprintf("Airfield/base objective (base ID %d)", op), Confidence: Unresolved}
}

func portHandler(found, missing string) Handler {
	return func(c *Call) Result {
		op := int(c.Instruction.Operand)
		if res, ok := resolvePort(c, op); ok {
			conf := Resolved
			if !res.Primary {
				conf = Inferred
			}

			return Result{Text: fmt.Sprintf(found, res.Text), Confidence: conf, Formula: res.Formula.String()}
		}

		return Result{Text: fmt.Sprintf(missing, op), Confidence: Unresolved}
	}
}

func specialRuleHandler(c *Call) Result {
	if c.Instruction.Operand == ConvoyActive {
		return convoyHandler(c)
	}

	return Result{Text: fmt.Sprintf("Special rule: code %d", c.Instruction.Operand), Confidence: Unresolved}
}

func regionName(c *Call, idx int) (string, bool) {
	if c.Map == nil || idx < 0 || idx >= c.Map.RegionCount() {
		return "", false
	}

	return c.Map.RegionName(idx)
}

func resolvePort(c *Call, operand int) (strtab.Resolution, bool) {
	if c.Map == nil {
		return strtab.Resolution{}, false
	}

	return strtab.ResolveFirst(c.Map.StringTable(c.Opts.NameSection), operand, c.Opts.PortFormulas...)
}
