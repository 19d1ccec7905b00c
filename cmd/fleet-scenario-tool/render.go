package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mitchellh/go-wordwrap"

	"github.com/woozymasta/fleet-scenario-tool/internal/script"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderScenario formats one decoded scenario for the terminal.
func renderScenario(d decodedScenario, width int) string {
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", d.Index, title)))
	b.WriteString("\n")

	if d.Opaque {
		b.WriteString(dimStyle.Render("raw record, no OBJECTIVES marker"))
		b.WriteString("\n")
		return b.String()
	}

	facts := []string{
		field("key", d.ScenarioKey),
		field("difficulty", d.Difficulty),
		field("map", d.Map),
	}
	if d.TurnLimit != nil {
		facts = append(facts, field("turns", fmt.Sprint(*d.TurnLimit)))
	}
	b.WriteString(strings.Join(facts, "  "))
	b.WriteString("\n\n")

	for _, text := range []string{d.Forces, d.Objectives, d.Notes} {
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.WriteString(wordwrap.WrapString(text, uint(width)))
		b.WriteString("\n\n")
	}

	if len(d.Decoded) == 0 {
		b.WriteString(dimStyle.Render("no objective script"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(objectiveTable(d.Decoded))
	b.WriteString("\n")
	if d.Terminator != "" {
		b.WriteString(dimStyle.Render("terminator: " + string(d.Terminator)))
		b.WriteString("\n")
	}

	return b.String()
}

// objectiveTable renders decoded objectives. Rows that are not resolved are
// dimmed so inferred text is never read as fact.
func objectiveTable(objs []script.DecodedObjective) string {
	rows := make([][]string, 0, len(objs))
	for _, o := range objs {
		rows = append(rows, []string{
			fmt.Sprint(o.Section),
			fmt.Sprint(o.Position),
			fmt.Sprintf("%02X %02X", o.Opcode, o.Operand),
			o.Mnemonic,
			meaning(o),
			string(o.Confidence),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(labelStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers("Sec", "Pos", "Word", "Mnemonic", "Meaning", "Confidence").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(objs) && objs[row].Confidence != script.Resolved {
				return cellStyle.Foreground(lipgloss.Color("8"))
			}
			return cellStyle
		})

	return t.Render()
}

func meaning(o script.DecodedObjective) string {
	text := o.ResolvedText
	if o.Formula != "" {
		text += " [" + o.Formula + "]"
	}
	if len(o.Missing) > 0 {
		text += " (missing: " + strings.Join(o.Missing, ", ") + ")"
	}

	return strings.TrimSpace(text)
}

func field(label, value string) string {
	if value == "" {
		value = "-"
	}

	return labelStyle.Render(label+":") + " " + value
}
