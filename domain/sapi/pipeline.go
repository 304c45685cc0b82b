package sapi

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"rad-stats/domain/radiology"
)

// Options parameterizes one pipeline run.
type Options struct {
	MaxRun      int
	MissingSeat MissingSeatPolicy
	ShiftSource ShiftSource
	// ShiftTable is used when ShiftSource is ShiftsFromTable.
	ShiftTable []radiology.ShiftCount
}

// Validate rejects unknown policy values. Empty values mean the defaults.
func (o Options) Validate() error {
	switch o.MissingSeat {
	case "", SkipMissingSeat, FailMissingSeat:
	default:
		return fmt.Errorf("unknown missing seat policy %q (want %s or %s)", o.MissingSeat, SkipMissingSeat, FailMissingSeat)
	}
	switch o.ShiftSource {
	case "", ShiftsFromEncounters, ShiftsFromTable:
	default:
		return fmt.Errorf("unknown shift source %q (want %s or %s)", o.ShiftSource, ShiftsFromEncounters, ShiftsFromTable)
	}
	if o.MaxRun < 0 {
		return fmt.Errorf("max run must not be negative, got %d", o.MaxRun)
	}
	return nil
}

// Fingerprint identifies the options for result caching.
func (o Options) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run=%d;seat=%s;src=%s", o.MaxRun, o.MissingSeat, o.ShiftSource)
	if o.ShiftSource == ShiftsFromTable {
		for _, c := range o.ShiftTable {
			fmt.Fprintf(&b, ";%s|%s|%d", c.Radiologist, c.Seat, c.Shifts)
		}
	}
	return b.String()
}

// Inputs are the loaded source tables. They are never modified by Run.
type Inputs struct {
	Seats      []radiology.SeatAverage
	Roster     Grid
	Schedule   []radiology.ShiftRecord
	Encounters []radiology.EncounterRecord
}

// Filtered returns a copy with schedule and encounters narrowed by f.
func (in Inputs) Filtered(f Filter) Inputs {
	out := in
	out.Schedule = f.Schedule(in.Schedule)
	out.Encounters = f.Encounters(in.Encounters, in.Schedule)
	return out
}

// Result holds every derived relation of a run.
type Result struct {
	Benchmarks []radiology.SeatBenchmark `json:"benchmarks"`
	Roster     []radiology.RosterEntry   `json:"roster"`
	Shifts     []radiology.ShiftCount    `json:"shifts"`
	SeatRads   []radiology.SeatRadRow    `json:"seat_rads"`
	Summary    []radiology.SapiSummary   `json:"summary"`
	KPIs       radiology.KPISummary      `json:"kpis"`
}

// Run executes normalize, extract, benchmark, shift aggregation and SAPI
// aggregation in sequence. Nothing is returned on error.
func Run(in Inputs, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	benchmarks := Benchmarks(in.Seats)

	x := Extractor{MaxRun: opts.MaxRun, MissingSeat: opts.MissingSeat}
	seatLabels := lo.Map(in.Seats, func(s radiology.SeatAverage, _ int) string { return s.Seat })
	roster, err := x.Extract(in.Roster, seatLabels)
	if err != nil {
		return nil, fmt.Errorf("extract roster: %w", err)
	}

	var shifts []radiology.ShiftCount
	if opts.ShiftSource == ShiftsFromTable {
		shifts = opts.ShiftTable
	} else {
		shifts = CountShifts(in.Encounters)
	}

	seatRads := SeatRads(roster, benchmarks, IndexShifts(shifts))
	return &Result{
		Benchmarks: benchmarks,
		Roster:     roster,
		Shifts:     shifts,
		SeatRads:   seatRads,
		Summary:    Summarize(seatRads),
		KPIs:       KPIs(in.Schedule, in.Encounters),
	}, nil
}
