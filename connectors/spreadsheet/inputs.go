package spreadsheet

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"rad-stats/domain/config"
	"rad-stats/domain/sapi"
)

// Input names used in errors and logs.
const (
	InputSchedule   = "schedule"
	InputEncounters = "encounters"
	InputBenchmark  = "benchmark"
)

// ResolvePath joins a configured file name with the data directory unless it is absolute.
func ResolvePath(dataDir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dataDir, file)
}

// InputPaths lists the files LoadInputs reads, in a stable order.
func InputPaths(cfg *config.Config) []string {
	return []string{
		ResolvePath(cfg.DataDir, cfg.Inputs.Schedule.File),
		ResolvePath(cfg.DataDir, cfg.Inputs.Encounters.File),
		ResolvePath(cfg.DataDir, cfg.Inputs.Benchmark.File),
	}
}

// LoadInputs reads the three configured sources fully into memory.
// The first missing file, sheet or column stops the load.
func LoadInputs(cfg *config.Config) (sapi.Inputs, error) {
	var in sapi.Inputs

	schedPath := ResolvePath(cfg.DataDir, cfg.Inputs.Schedule.File)
	grid, err := Load(InputSchedule, schedPath, cfg.Inputs.Schedule.Sheet)
	if err != nil {
		return in, err
	}
	if in.Schedule, err = ReadSchedule(NewTable(filepath.Base(schedPath), grid)); err != nil {
		return in, err
	}

	encPath := ResolvePath(cfg.DataDir, cfg.Inputs.Encounters.File)
	grid, err = Load(InputEncounters, encPath, cfg.Inputs.Encounters.Sheet)
	if err != nil {
		return in, err
	}
	if in.Encounters, err = ReadEncounters(NewTable(filepath.Base(encPath), grid)); err != nil {
		return in, err
	}

	b := cfg.Inputs.Benchmark
	benchPath := ResolvePath(cfg.DataDir, b.File)
	grid, err = Load(InputBenchmark, benchPath, b.Sheet)
	if err != nil {
		return in, err
	}
	seatRegion, err := Slice(grid, b.SeatRange)
	if err != nil {
		return in, fmt.Errorf("seat_range: %w", err)
	}
	if in.Seats, err = ReadSeatAverages(filepath.Base(benchPath), seatRegion, RangeStartRow(b.SeatRange)); err != nil {
		return in, err
	}
	if in.Roster, err = Slice(grid, b.RosterRange); err != nil {
		return in, fmt.Errorf("roster_range: %w", err)
	}

	slog.Info("phase.load.done",
		"schedule", len(in.Schedule),
		"encounters", len(in.Encounters),
		"seats", len(in.Seats),
		"roster_rows", len(in.Roster))
	return in, nil
}
