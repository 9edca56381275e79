package main

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/mickamy/nodelens"
)

const maxCellWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6F61")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func truncateCell(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	return string(runes[:w-1]) + "…"
}

// styledTable renders t with borders for an interactive terminal.
func styledTable(t *nodelens.Table) string {
	rows := make([][]string, 0, t.Len())
	for _, r := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = truncateCell(nodelens.FormatValue(r[c]), maxCellWidth)
		}
		rows = append(rows, cells)
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.Columns...).
		Rows(rows...).
		String()
}

// printTable writes t to w: bordered on a terminal, aligned plain text otherwise.
func printTable(w io.Writer, t *nodelens.Table) error {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return nodelens.RenderTable(w, t)
	}
	if _, err := io.WriteString(w, styledTable(t)+"\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, footerStyle.Render(rowCount(t.Len()))+"\n")
	return err
}

func rowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}
