package sapi

import (
	"github.com/samber/lo"

	"rad-stats/domain/radiology"
)

// ShiftSource selects where per-seat shift counts come from.
type ShiftSource string

const (
	// ShiftsFromEncounters counts encounter rows per (provider, seat).
	ShiftsFromEncounters ShiftSource = "encounters"
	// ShiftsFromTable uses a fixed lookup table supplied by configuration.
	ShiftsFromTable ShiftSource = "table"
)

type providerSeat struct {
	provider string
	seat     string
}

// CountShifts groups encounters by (provider, seat) as written and counts rows.
// Output follows first appearance in the input.
func CountShifts(encounters []radiology.EncounterRecord) []radiology.ShiftCount {
	keyOf := func(e radiology.EncounterRecord) providerSeat {
		return providerSeat{provider: e.ProviderName, seat: e.Seat}
	}
	counts := lo.CountValuesBy(encounters, keyOf)
	order := lo.Uniq(lo.Map(encounters, func(e radiology.EncounterRecord, _ int) providerSeat { return keyOf(e) }))
	return lo.Map(order, func(k providerSeat, _ int) radiology.ShiftCount {
		return radiology.ShiftCount{Radiologist: k.provider, Seat: k.seat, Shifts: counts[k]}
	})
}

// ShiftLookup resolves shift counts by normalized (radiologist, seat).
type ShiftLookup map[providerSeat]int

// IndexShifts normalizes both keys before indexing. Spellings that collapse to
// the same key are summed; names that normalize to "" are dropped.
func IndexShifts(counts []radiology.ShiftCount) ShiftLookup {
	idx := make(ShiftLookup, len(counts))
	for _, c := range counts {
		name := NameKey(c.Radiologist)
		if name == "" {
			continue
		}
		idx[providerSeat{provider: name, seat: SeatKey(c.Seat)}] += c.Shifts
	}
	return idx
}

// Shifts returns the count for the pair, or 1 when there is no positive match.
func (l ShiftLookup) Shifts(radiologist, seat string) int {
	n := l[providerSeat{provider: NameKey(radiologist), seat: SeatKey(seat)}]
	if n < 1 {
		return 1
	}
	return n
}
