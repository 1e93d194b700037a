package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table writes rows under a bordered header.
func (p *Printer) Table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.heading.Padding(0, 1)
			}
			return p.styles.plain.Padding(0, 1)
		})
	_, err := fmt.Fprintln(p.out, t.String())
	return err
}
