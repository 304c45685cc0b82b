package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rad-stats/domain/sapi"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	for _, k := range []string{"DATA_DIR", "SAPI_MISSING_SEAT", "SAPI_SHIFT_SOURCE"} {
		t.Setenv(k, "")
	}
	c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, "Combined", c.Inputs.Schedule.Sheet)
	assert.Equal(t, sapi.DefaultMaxRun, c.SAPI.MaxRun)
	assert.Equal(t, "skip", c.SAPI.MissingSeat)
	assert.Equal(t, "encounters", c.SAPI.ShiftSource)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
data_dir: /srv/rad
sources:
  - name: schedule.xlsx
    url: https://example.com/schedule.xlsx
inputs:
  benchmark:
    file: bench.xlsx
    sheet: Seats
    seat_range: A2:B12
    roster_range: D1:E200
sapi:
  max_run: 5
  missing_seat: error
  shift_source: table
  shift_table:
    - radiologist: Smith John
      seat: MAIN
      shifts: 4
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/rad", c.DataDir)
	require.Len(t, c.Sources, 1)
	assert.Equal(t, "schedule.xlsx", c.Sources[0].File)
	assert.Equal(t, "A2:B12", c.Inputs.Benchmark.SeatRange)

	opts := PipelineOptions(c)
	assert.Equal(t, 5, opts.MaxRun)
	assert.Equal(t, sapi.FailMissingSeat, opts.MissingSeat)
	assert.Equal(t, sapi.ShiftsFromTable, opts.ShiftSource)
	require.Len(t, opts.ShiftTable, 1)
	assert.Equal(t, 4, opts.ShiftTable[0].Shifts)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/override")
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("SAPI_MISSING_SEAT", "error")
	c, err := Load(writeConfig(t, "data_dir: ./data\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", c.DataDir)
	assert.Equal(t, "tok", c.GitHubToken)
	assert.Equal(t, "error", c.SAPI.MissingSeat)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "sapi:\n  missing_seat: sometimes\n"))
	assert.ErrorContains(t, err, "missing seat policy")

	_, err = Load(writeConfig(t, "sapi:\n  shift_source: table\n"))
	assert.ErrorContains(t, err, "shift_table")

	_, err = Load(writeConfig(t, "sources:\n  - name: a.xlsx\n"))
	assert.ErrorContains(t, err, "url is required")

	_, err = Load(writeConfig(t, "data_dir: [oops"))
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("CONFIG_PATH", "/etc/rad.yml")
	assert.Equal(t, "/etc/rad.yml", Path())
}
