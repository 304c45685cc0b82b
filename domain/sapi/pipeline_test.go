package sapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rad-stats/domain/radiology"
)

func TestRunEndToEnd(t *testing.T) {
	in := Inputs{
		Seats:  []radiology.SeatAverage{{Seat: "MAIN", NormHDAverage: 100}},
		Roster: Grid{{"MAIN"}, {"Smith, John MD", "150"}, {}},
		Encounters: []radiology.EncounterRecord{
			{ProviderName: "Smith John", Seat: "MAIN", WorkRVU: 1},
			{ProviderName: "Smith John", Seat: "MAIN", WorkRVU: 1},
			{ProviderName: "Smith John", Seat: "MAIN", WorkRVU: 1},
			{ProviderName: "Smith John", Seat: "MAIN", WorkRVU: 1},
		},
	}
	res, err := Run(in, Options{})
	require.NoError(t, err)

	require.Len(t, res.Benchmarks, 1)
	assert.Equal(t, 125.0, res.Benchmarks[0].Benchmark)

	require.Len(t, res.SeatRads, 1)
	assert.InDelta(t, 120.0, res.SeatRads[0].SapiUnweighted, 1e-9)

	require.Len(t, res.Summary, 1)
	s := res.Summary[0]
	assert.Equal(t, "Smith John", s.Radiologist)
	assert.InDelta(t, 120.0, s.SapiUnweighted, 1e-9)
	assert.InDelta(t, 120.0, s.SapiWeighted, 1e-9)
	assert.Equal(t, 4, s.TotalShifts)
	assert.Equal(t, 4, res.KPIs.TotalProcedures)
}

func TestRunShiftTable(t *testing.T) {
	in := Inputs{
		Seats:      []radiology.SeatAverage{{Seat: "A", NormHDAverage: 64}, {Seat: "B", NormHDAverage: 96}},
		Roster:     Grid{{"A"}, {"Rad X", "64"}, {"B"}, {"Rad X", "144"}},
		Encounters: []radiology.EncounterRecord{{ProviderName: "Rad X", Seat: "A"}},
	}
	opts := Options{
		ShiftSource: ShiftsFromTable,
		ShiftTable: []radiology.ShiftCount{
			{Radiologist: "Rad X", Seat: "A", Shifts: 2},
			{Radiologist: "Rad X", Seat: "B", Shifts: 3},
		},
	}
	res, err := Run(in, opts)
	require.NoError(t, err)
	require.Len(t, res.Summary, 1)
	// A: 64/80*100 = 80, B: 144/120*100 = 120
	assert.InDelta(t, 104.0, res.Summary[0].SapiWeighted, 1e-9)
	assert.InDelta(t, 100.0, res.Summary[0].SapiUnweighted, 1e-9)
	assert.Equal(t, 5, res.Summary[0].TotalShifts)
}

func TestRunMissingSeatPolicy(t *testing.T) {
	in := Inputs{
		Seats:  []radiology.SeatAverage{{Seat: "MAIN", NormHDAverage: 100}, {Seat: "GHOST", NormHDAverage: 50}},
		Roster: Grid{{"MAIN"}, {"Rad", "100"}},
	}
	res, err := Run(in, Options{})
	require.NoError(t, err)
	assert.Len(t, res.SeatRads, 1)

	res, err = Run(in, Options{MissingSeat: FailMissingSeat})
	assert.Nil(t, res)
	var nf *SeatNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "GHOST", nf.Seat)
}

func TestRunDoesNotMutateInputs(t *testing.T) {
	roster := Grid{{"MAIN"}, {"Smith, John MD", "150"}}
	enc := []radiology.EncounterRecord{{ProviderName: "Smith, John MD", Seat: "MAIN"}}
	in := Inputs{Seats: []radiology.SeatAverage{{Seat: "MAIN", NormHDAverage: 100}}, Roster: roster, Encounters: enc}
	_, err := Run(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Smith, John MD", roster[1][0])
	assert.Equal(t, "Smith, John MD", enc[0].ProviderName)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, Options{}.Validate())
	assert.Error(t, Options{MissingSeat: "maybe"}.Validate())
	assert.Error(t, Options{ShiftSource: "guess"}.Validate())
	assert.Error(t, Options{MaxRun: -1}.Validate())
}

func TestOptionsFingerprint(t *testing.T) {
	a := Options{ShiftSource: ShiftsFromTable, ShiftTable: []radiology.ShiftCount{{Radiologist: "X", Seat: "A", Shifts: 1}}}
	b := Options{ShiftSource: ShiftsFromTable, ShiftTable: []radiology.ShiftCount{{Radiologist: "X", Seat: "A", Shifts: 2}}}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, Options{}.Fingerprint(), Options{}.Fingerprint())
}

func TestInputsFiltered(t *testing.T) {
	in := Inputs{Schedule: sampleSchedule(), Encounters: sampleEncounters()}
	out := in.Filtered(Filter{Provider: "Lee Ann"})
	assert.Len(t, out.Schedule, 2)
	assert.Len(t, out.Encounters, 1)
	assert.Len(t, in.Schedule, 4)
}
