package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agiangrant/ctdcore"
	"github.com/agiangrant/ctdcore/internal/scenario"
	"github.com/agiangrant/ctdcore/retained"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderResult formats one playback as a title, an event table and
// optionally the final widget table.
func renderResult(res *scenario.Result, widgets bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(res.Name))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d frames, %d events", res.Frames, len(res.Events))))
	b.WriteString("\n")

	if len(res.Events) > 0 {
		b.WriteString(renderEvents(res.Events))
		b.WriteString("\n")
	}
	if widgets {
		b.WriteString(renderWidgets(res.Final))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderEvents(events []scenario.Record) string {
	t := newTable("FRAME", "EVENT", "WIDGET", "DETAIL")
	for _, ev := range events {
		t.Row(strconv.FormatUint(ev.Frame, 10), ev.Event, string(ev.ID), ev.Detail)
	}
	return t.String()
}

func renderWidgets(snap ctdcore.Snapshot) string {
	t := newTable("WIDGET", "KIND", "BOUNDS", "STATE")
	for _, w := range snap {
		t.Row(string(w.ID), string(w.Kind), formatBounds(w.Bounds), widgetState(w))
	}
	return t.String()
}

func formatBounds(b retained.Bounds) string {
	return fmt.Sprintf("%g,%g %gx%g", b.X, b.Y, b.Width, b.Height)
}

// widgetState summarizes the kind-specific part of a widget.
func widgetState(w ctdcore.WidgetSnapshot) string {
	var parts []string
	if !w.Enabled && w.Kind != retained.KindLabel {
		parts = append(parts, "disabled")
	}
	switch w.Kind {
	case retained.KindButton, retained.KindLabel:
		parts = append(parts, strconv.Quote(w.Text))
	case retained.KindCheckbox:
		parts = append(parts, "checked="+strconv.FormatBool(w.Checked))
	case retained.KindRadio:
		parts = append(parts, "selected="+strconv.FormatBool(w.Selected))
	case retained.KindSlider:
		parts = append(parts, fmt.Sprintf("value=%g", w.Value))
	case retained.KindTextBox:
		parts = append(parts, fmt.Sprintf("%q caret=%d", w.Text, w.Caret))
		if w.Focused {
			parts = append(parts, "focused")
		}
	case retained.KindComboBox:
		parts = append(parts, fmt.Sprintf("%d:%q", w.SelectedIndex, w.SelectedText))
		if w.IsOpen {
			parts = append(parts, "open")
		}
	}
	return strings.Join(parts, " ")
}
