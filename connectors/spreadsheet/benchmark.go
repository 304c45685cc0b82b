package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"rad-stats/domain/radiology"
	"rad-stats/domain/sapi"
)

// Slice returns the cells of grid inside an A1-style range such as "D1:E200".
// An empty range returns the grid unchanged. Cells outside the grid read as blank.
func Slice(grid sapi.Grid, ref string) (sapi.Grid, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return grid, nil
	}
	from, to, ok := strings.Cut(ref, ":")
	if !ok {
		to = from
	}
	c1, r1, err := excelize.CellNameToCoordinates(strings.TrimSpace(from))
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", ref, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(strings.TrimSpace(to))
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", ref, err)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	out := make(sapi.Grid, 0, r2-r1+1)
	for r := r1 - 1; r < r2 && r < len(grid); r++ {
		row := make([]string, c2-c1+1)
		for c := c1 - 1; c < c2; c++ {
			row[c-c1+1] = grid.Cell(r, c)
		}
		out = append(out, row)
	}
	return out, nil
}

// ReadSeatAverages reads (seat, normalized average) pairs from the first two
// columns of region. Rows with a blank seat are skipped; a seat with a
// non-numeric average is an error. startRow is the sheet row of region[0],
// used in error messages.
func ReadSeatAverages(table string, region sapi.Grid, startRow int) ([]radiology.SeatAverage, error) {
	var out []radiology.SeatAverage
	for i := range region {
		seat := region.Cell(i, 0)
		if seat == "" {
			continue
		}
		avg, ok := sapi.ParseNumber(region.Cell(i, 1))
		if !ok {
			return nil, &sapi.MalformedValueError{Table: table, Row: startRow + i, Column: "seat average", Value: region.Cell(i, 1)}
		}
		out = append(out, radiology.SeatAverage{Seat: seat, NormHDAverage: avg})
	}
	return out, nil
}

// RangeStartRow returns the 1-based first row of an A1 range, or 1 when empty.
func RangeStartRow(ref string) int {
	from, _, _ := strings.Cut(strings.TrimSpace(ref), ":")
	if from == "" {
		return 1
	}
	_, r, err := excelize.CellNameToCoordinates(strings.TrimSpace(from))
	if err != nil {
		return 1
	}
	return r
}
