package sapi

import (
	"sort"

	"github.com/samber/lo"

	"rad-stats/domain/radiology"
)

// Unweighted is a radiologist's average expressed as a percentage of the seat
// benchmark. A zero benchmark yields 0.
func Unweighted(normHDAvg, benchmark float64) float64 {
	if benchmark == 0 {
		return 0
	}
	return normHDAvg / benchmark * 100
}

// SeatRads joins roster entries with seat benchmarks and shift counts.
// Entries whose seat has no benchmark or whose name normalizes to "" are
// dropped. Pairs without a shift match default to one shift.
func SeatRads(entries []radiology.RosterEntry, benchmarks []radiology.SeatBenchmark, shifts ShiftLookup) []radiology.SeatRadRow {
	bySeat := lo.SliceToMap(benchmarks, func(b radiology.SeatBenchmark) (string, radiology.SeatBenchmark) {
		return SeatKey(b.Seat), b
	})
	rows := make([]radiology.SeatRadRow, 0, len(entries))
	for _, e := range entries {
		name := Normalize(e.Radiologist)
		if name == "" {
			continue
		}
		b, ok := bySeat[SeatKey(e.Seat)]
		if !ok {
			continue
		}
		rows = append(rows, radiology.SeatRadRow{
			Radiologist:    name,
			Seat:           e.Seat,
			NormHDAvg:      e.NormHDAvg,
			Benchmark:      b.Benchmark,
			SapiUnweighted: Unweighted(e.NormHDAvg, b.Benchmark),
			Shifts:         shifts.Shifts(name, e.Seat),
		})
	}
	return rows
}

// Summarize aggregates seat rows per radiologist: a shift-weighted SAPI, the
// plain mean across seats, and the total shift count. Rows are sorted by name.
func Summarize(rows []radiology.SeatRadRow) []radiology.SapiSummary {
	groups := lo.GroupBy(rows, func(r radiology.SeatRadRow) string { return NameKey(r.Radiologist) })
	out := make([]radiology.SapiSummary, 0, len(groups))
	for _, g := range groups {
		totalShifts := lo.SumBy(g, func(r radiology.SeatRadRow) int { return r.Shifts })
		weighted := lo.SumBy(g, func(r radiology.SeatRadRow) float64 { return r.SapiUnweighted * float64(r.Shifts) })
		plain := lo.SumBy(g, func(r radiology.SeatRadRow) float64 { return r.SapiUnweighted })
		s := radiology.SapiSummary{
			Radiologist:    g[0].Radiologist,
			SapiUnweighted: plain / float64(len(g)),
			TotalShifts:    totalShifts,
			Seats:          len(g),
		}
		if totalShifts > 0 {
			s.SapiWeighted = weighted / float64(totalShifts)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Radiologist < out[j].Radiologist })
	return out
}
