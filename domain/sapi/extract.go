package sapi

import (
	"strings"

	"rad-stats/domain/radiology"
)

// DefaultMaxRun is the largest number of radiologist rows read under one seat label.
const DefaultMaxRun = 9

// MissingSeatPolicy decides what happens when a seat label has no anchor row.
type MissingSeatPolicy string

const (
	SkipMissingSeat MissingSeatPolicy = "skip"
	FailMissingSeat MissingSeatPolicy = "error"
)

// Grid is a rectangular-ish view of spreadsheet cells, row-major. Rows may be
// ragged; missing cells read as blank.
type Grid [][]string

// Cell returns the trimmed value at (row, col) or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Extractor recovers (radiologist, seat, value) tuples from a roster region
// where each seat label in the first column is followed by a run of
// radiologist rows: name in the first column, normalized average in the second.
type Extractor struct {
	MaxRun      int
	MissingSeat MissingSeatPolicy
}

// Extract locates every seat's anchor row, then reads the run below it.
// Seats are processed in the given order; tuples keep grid order within a seat.
func (x Extractor) Extract(grid Grid, seats []string) ([]radiology.RosterEntry, error) {
	anchors := locateAnchors(grid)
	var out []radiology.RosterEntry
	for _, seat := range seats {
		row, ok := anchors[SeatKey(seat)]
		if !ok {
			if x.MissingSeat == FailMissingSeat {
				return nil, &SeatNotFoundError{Seat: seat}
			}
			continue
		}
		out = append(out, x.scan(grid, row, seat)...)
	}
	return out, nil
}

// locateAnchors maps each first-column label to the first row it appears on.
func locateAnchors(grid Grid) map[string]int {
	anchors := make(map[string]int, len(grid))
	for i := range grid {
		label := SeatKey(grid.Cell(i, 0))
		if label == "" {
			continue
		}
		if _, seen := anchors[label]; !seen {
			anchors[label] = i
		}
	}
	return anchors
}

// scan reads at most MaxRun rows after the anchor and stops at the first row
// that is not a (name, number) pair.
func (x Extractor) scan(grid Grid, anchor int, seat string) []radiology.RosterEntry {
	maxRun := x.MaxRun
	if maxRun <= 0 {
		maxRun = DefaultMaxRun
	}
	var out []radiology.RosterEntry
	for r := anchor + 1; r <= anchor+maxRun; r++ {
		name, value, ok := rosterRow(grid, r)
		if !ok {
			break
		}
		out = append(out, radiology.RosterEntry{Radiologist: name, Seat: seat, NormHDAvg: value})
	}
	return out
}

func rosterRow(grid Grid, r int) (string, float64, bool) {
	name := grid.Cell(r, 0)
	if name == "" {
		return "", 0, false
	}
	value, ok := ParseNumber(grid.Cell(r, 1))
	if !ok {
		return "", 0, false
	}
	return name, value, true
}
