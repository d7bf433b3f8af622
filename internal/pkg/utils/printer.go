package utils

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/project-ambr/ambr/internal/pkg/logger"
)

// headerHeight is the title line plus its bottom border.
const headerHeight = 2

// Printer renders rows as a bordered table through the logger.
type Printer struct {
	model table.Model
}

func NewPrinter(headers ...string) *Printer {
	t := table.New(
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)

	styles := table.DefaultStyles()
	styles.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Padding(0, 1).
		Bold(true)
	styles.Cell = lipgloss.NewStyle().Padding(0, 1)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)

	p := &Printer{model: t}
	p.SetHeaders(headers...)

	return p
}

func (p *Printer) SetHeaders(headers ...string) {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h}
	}

	p.model.SetColumns(cols)
}

func (p *Printer) AppendRow(cells ...string) {
	p.model.SetRows(append(p.model.Rows(), table.Row(cells)))
}

// Flush sizes the columns to their content, prints the table and clears
// the rows.
func (p *Printer) Flush() {
	cols := p.model.Columns()
	rows := p.model.Rows()

	for i := range cols {
		width := lipgloss.Width(cols[i].Title)
		for _, row := range rows {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		cols[i].Width = width + 2
	}
	p.model.SetColumns(cols)
	p.model.SetHeight(len(rows) + headerHeight)

	for line := range strings.SplitSeq(p.model.View(), "\n") {
		if strings.TrimSpace(line) != "" {
			logger.Infoln(line)
		}
	}

	p.model.SetRows([]table.Row{})
}

// PrintFields prints label/value pairs as a two column table.
func PrintFields(keyHeader, valueHeader string, fields [][2]string) {
	p := NewPrinter(keyHeader, valueHeader)
	for _, f := range fields {
		p.AppendRow(f[0], f[1])
	}
	p.Flush()
}
