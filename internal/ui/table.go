package ui

import (
	"fmt"
	"strings"
)

// Table renders rows aligned with plain spacing, no box drawing. Column
// widths track the widest cell seen.
type Table struct {
	header    []string
	rows      [][]string
	colWidths []int
}

// NewTable creates a table with optional header labels.
func NewTable(header ...string) *Table {
	t := &Table{header: header}
	t.grow(header)
	return t
}

// AddRow appends a row of cells.
func (t *Table) AddRow(cells ...string) {
	t.grow(cells)
	t.rows = append(t.rows, cells)
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Render writes the table to stdout, header muted.
func (t *Table) Render() {
	if len(t.header) > 0 {
		fmt.Println(Muted.Render(t.formatRow(t.header)))
	}
	for _, row := range t.rows {
		fmt.Println(t.formatRow(row))
	}
}

func (t *Table) formatRow(cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		if i < len(cells)-1 {
			b.WriteString(pad(cell, t.colWidths[i]))
			continue
		}
		b.WriteString(cell)
	}
	return b.String()
}

func (t *Table) grow(cells []string) {
	for len(t.colWidths) < len(cells) {
		t.colWidths = append(t.colWidths, 0)
	}
	for i, cell := range cells {
		if len(cell) > t.colWidths[i] {
			t.colWidths[i] = len(cell)
		}
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
