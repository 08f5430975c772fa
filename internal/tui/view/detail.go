package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Field is one labelled value of the detail modal.
type Field struct {
	Label string
	Value string
}

// DetailStyles groups styles for the detail body.
type DetailStyles struct {
	LabelStyle  lipgloss.Style
	ValueStyle  lipgloss.Style
	BorderStyle lipgloss.Style
}

// RenderDetailBody renders fields as a two column table.
func RenderDetailBody(fields []Field, styles DetailStyles) string {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Label, f.Value})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(styles.BorderStyle).
		BorderHeader(false).
		BorderColumn(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return styles.LabelStyle.PaddingRight(2)
			}
			return styles.ValueStyle
		})
	return t.Render()
}

// PlainText renders fields as "Label: Value" lines, for the clipboard.
func PlainText(title string, fields []Field) string {
	out := title
	for _, f := range fields {
		out += "\n" + f.Label + ": " + f.Value
	}
	return out
}
