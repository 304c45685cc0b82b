package spreadsheet

import (
	"strings"

	"rad-stats/domain/sapi"
)

// Table is a grid whose first row holds column headers.
type Table struct {
	Name string
	idx  map[string]int
	rows sapi.Grid
}

func NewTable(name string, grid sapi.Grid) *Table {
	t := &Table{Name: name, idx: map[string]int{}}
	if len(grid) == 0 {
		return t
	}
	t.idx = indexMap(grid[0])
	t.rows = grid[1:]
	return t
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// indexMap keeps the first position of each header.
func indexMap(headers []string) map[string]int {
	m := map[string]int{}
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, ok := m[key]; !ok && key != "" {
			m[key] = i
		}
	}
	return m
}

// Column resolves the first header present among the alternatives.
func (t *Table) Column(alternatives ...string) (int, bool) {
	for _, a := range alternatives {
		if i, ok := t.idx[normalizeHeader(a)]; ok {
			return i, true
		}
	}
	return -1, false
}

// Require is Column with a *sapi.MissingColumnError naming the first alternative.
func (t *Table) Require(alternatives ...string) (int, error) {
	if i, ok := t.Column(alternatives...); ok {
		return i, nil
	}
	return -1, &sapi.MissingColumnError{Table: t.Name, Column: strings.Join(alternatives, " or ")}
}

// Rows calls fn for every data row that has at least one non-blank cell.
// line is the 1-based sheet row number. fn errors stop the iteration.
func (t *Table) Rows(fn func(line int, cell func(col int) string) error) error {
	for i, r := range t.rows {
		if blank(r) {
			continue
		}
		cell := func(col int) string { return t.rows.Cell(i, col) }
		if err := fn(i+2, cell); err != nil {
			return err
		}
	}
	return nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
