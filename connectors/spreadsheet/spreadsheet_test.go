package spreadsheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rad-stats/domain/config"
	"rad-stats/domain/sapi"
)

// writeWorkbook saves sheets (name -> rows) as an xlsx file.
func writeWorkbook(t *testing.T, path string, sheets map[string][][]any, order ...string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			vals := row
			require.NoError(t, f.SetSheetRow(name, cell, &vals))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadXLSXNamedSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"Notes":    {{"ignore me"}},
		"Combined": {{"Provider", "Date"}, {"Smith, John MD", "2024-03-01"}},
	}, "Notes", "Combined")

	grid, err := Load("schedule", path, "Combined")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "Smith, John MD", grid.Cell(1, 0))

	grid, err = Load("schedule", path, "")
	require.NoError(t, err)
	assert.Equal(t, "ignore me", grid.Cell(0, 0))
}

func TestLoadXLSXKeepsStoredNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Smith, John MD", 150.456, 99.125}))
	whole, err := f.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	twoPlaces, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "B1", "B1", whole))
	require.NoError(t, f.SetCellStyle(sheet, "C1", "C1", twoPlaces))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	grid, err := Load("benchmark", path, "")
	require.NoError(t, err)
	assert.Equal(t, "150.456", grid.Cell(0, 1))
	assert.Equal(t, "99.125", grid.Cell(0, 2))
}

func TestLoadXLSXDateCellsParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Provider", "Date", "Shift Length", "Shift Type", "Corrected Shifts"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Smith, John MD", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Half", "Mammo", 0.5}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	grid, err := Load("schedule", path, "")
	require.NoError(t, err)
	recs, err := ReadSchedule(NewTable("schedule.xlsx", grid))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), recs[0].Date)
}

func TestReadEncountersRejectsNaNAndInf(t *testing.T) {
	for _, v := range []string{"NaN", "inf", "-Infinity"} {
		tbl := NewTable("enc.csv", sapi.Grid{
			{"Finalizing Provider", "Seat", "Procedure Code", "Work RVU"},
			{"Smith John", "MAIN", "77067", v},
		})
		_, err := ReadEncounters(tbl)
		var mv *sapi.MalformedValueError
		require.True(t, errors.As(err, &mv), v)
		assert.Equal(t, v, mv.Value)
	}
}

func TestLoadMissingInputs(t *testing.T) {
	dir := t.TempDir()
	_, err := Load("schedule", filepath.Join(dir, "nope.xlsx"), "")
	var mi *sapi.MissingInputError
	require.True(t, errors.As(err, &mi))
	assert.Equal(t, "schedule", mi.Name)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(dir, "book.xlsx")
	writeWorkbook(t, path, map[string][][]any{"Sheet A": {{"x"}}}, "Sheet A")
	_, err = Load("benchmark", path, "Missing")
	require.True(t, errors.As(err, &mi))
	assert.Contains(t, mi.Path, "#Missing")
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enc.csv")
	writeFile(t, path, "\xef\xbb\xbfDR NAME,Location,Procedure Code,WORK RVU\nSmith John,MAIN,77067,0.76\n,,,\nLee Ann,NORTH,77063\n")

	grid, err := Load("encounters", path, "")
	require.NoError(t, err)
	tbl := NewTable("enc.csv", grid)
	recs, err := ReadEncounters(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Smith John", recs[0].ProviderName)
	assert.Equal(t, "MAIN", recs[0].Seat)
	assert.InDelta(t, 0.76, recs[0].WorkRVU, 1e-9)
	assert.Equal(t, 0.0, recs[1].WorkRVU)
}

func TestReadEncountersMissingColumn(t *testing.T) {
	tbl := NewTable("enc.csv", sapi.Grid{{"Finalizing Provider", "Location", "Procedure Code"}})
	_, err := ReadEncounters(tbl)
	var mc *sapi.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "enc.csv", mc.Table)
	assert.Contains(t, mc.Column, "Work RVU")
}

func TestReadEncountersMalformedRVU(t *testing.T) {
	tbl := NewTable("enc.csv", sapi.Grid{
		{"Finalizing Provider", "Seat", "Procedure Code", "Work RVU"},
		{"Smith John", "MAIN", "77067", "lots"},
	})
	_, err := ReadEncounters(tbl)
	var mv *sapi.MalformedValueError
	require.True(t, errors.As(err, &mv))
	assert.Equal(t, 2, mv.Row)
	assert.Equal(t, "lots", mv.Value)
}

func TestReadSchedule(t *testing.T) {
	tbl := NewTable("schedule", sapi.Grid{
		{" provider ", "DATE", "Shift Length", "Shift Type", "Corrected Shifts"},
		{"Smith, John MD", "2024-03-01", "half", "Mammo", "0.5"},
		{"Lee, Ann DO", "45352", "Full", "Other", ""},
	})
	recs, err := ReadSchedule(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Half", string(recs[0].ShiftLength))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), recs[0].Date)
	assert.InDelta(t, 0.5, recs[0].CorrectedShifts, 1e-9)
	assert.Equal(t, 2024, recs[1].Date.Year())
	assert.Equal(t, 0.0, recs[1].CorrectedShifts)

	_, err = ReadSchedule(NewTable("schedule", sapi.Grid{{"Provider", "Date", "Shift Length", "Shift Type"}}))
	var mc *sapi.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "Corrected Shifts", mc.Column)
}

func TestReadScheduleBadDate(t *testing.T) {
	tbl := NewTable("schedule", sapi.Grid{
		{"Provider", "Date", "Shift Length", "Shift Type", "Corrected Shifts"},
		{"Smith", "someday", "Half", "Mammo", "1"},
	})
	_, err := ReadSchedule(tbl)
	var mv *sapi.MalformedValueError
	require.True(t, errors.As(err, &mv))
	assert.Equal(t, "Date", mv.Column)
}

func TestParseDate(t *testing.T) {
	for _, v := range []string{"2024-03-01", "3/1/2024", "03/01/2024", "3/1/24", "03-01-24", "2024/03/01"} {
		d, ok := ParseDate(v)
		require.True(t, ok, v)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d, v)
	}
	_, ok := ParseDate("")
	assert.False(t, ok)
}

func TestSlice(t *testing.T) {
	grid := sapi.Grid{
		{"a", "b", "c"},
		{"d", "e"},
		{"g", "h", "i"},
	}
	got, err := Slice(grid, "B2:C4")
	require.NoError(t, err)
	assert.Equal(t, sapi.Grid{{"e", ""}, {"h", "i"}}, got)

	got, err = Slice(grid, "")
	require.NoError(t, err)
	assert.Equal(t, grid, got)

	_, err = Slice(grid, "nonsense")
	assert.Error(t, err)

	assert.Equal(t, 2, RangeStartRow("B2:C4"))
	assert.Equal(t, 1, RangeStartRow(""))
}

func TestReadSeatAverages(t *testing.T) {
	seats, err := ReadSeatAverages("bench", sapi.Grid{{"MAIN", "100"}, {"", ""}, {"NORTH", "1,200"}}, 2)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "NORTH", seats[1].Seat)
	assert.InDelta(t, 1200.0, seats[1].NormHDAverage, 1e-9)

	_, err = ReadSeatAverages("bench", sapi.Grid{{"MAIN", "x"}}, 5)
	var mv *sapi.MalformedValueError
	require.True(t, errors.As(err, &mv))
	assert.Equal(t, 5, mv.Row)
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "schedule.xlsx"), map[string][][]any{
		"Combined": {
			{"Provider", "Date", "Shift Length", "Shift Type", "Corrected Shifts"},
			{"Smith, John MD", "2024-03-01", "Half", "Mammo", 0.5},
		},
	}, "Combined")
	writeFile(t, filepath.Join(dir, "enc.csv"), "Finalizing Provider,Location,Procedure Code,Work RVU\nSmith John,MAIN,77067,0.76\n")
	writeWorkbook(t, filepath.Join(dir, "bench.xlsx"), map[string][][]any{
		"Bench": {
			{"Seat", "Avg", "", "Roster", "Value"},
			{"MAIN", 100, "", "MAIN", ""},
			{"", "", "", "Smith, John MD", 150},
		},
	}, "Bench")

	cfg := &config.Config{DataDir: dir}
	cfg.Inputs.Schedule = config.Sheet{File: "schedule.xlsx", Sheet: "Combined"}
	cfg.Inputs.Encounters = config.Sheet{File: "enc.csv"}
	cfg.Inputs.Benchmark = config.BenchmarkSheet{File: "bench.xlsx", Sheet: "Bench", SeatRange: "A2:B10", RosterRange: "D2:E10"}

	in, err := LoadInputs(cfg)
	require.NoError(t, err)
	require.Len(t, in.Schedule, 1)
	require.Len(t, in.Encounters, 1)
	require.Len(t, in.Seats, 1)
	assert.Equal(t, "MAIN", in.Roster.Cell(0, 0))
	assert.Equal(t, "150", in.Roster.Cell(1, 1))

	assert.Equal(t, []string{
		filepath.Join(dir, "schedule.xlsx"),
		filepath.Join(dir, "enc.csv"),
		filepath.Join(dir, "bench.xlsx"),
	}, InputPaths(cfg))
}
