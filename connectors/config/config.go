package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	dc "rad-stats/domain/config"
	"rad-stats/domain/radiology"
	"rad-stats/domain/sapi"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "./config.yml"

// Path resolves the configuration file path from CONFIG_PATH.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load parses the YAML configuration file at path, applies environment
// overrides and defaults, then validates. A missing file yields the defaults.
func Load(path string) (*dc.Config, error) {
	var c dc.Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		slog.Info("config.loaded", "path", path)
	case errors.Is(err, os.ErrNotExist):
		slog.Info("config.default", "path", path, "reason", "file not found")
	default:
		return nil, err
	}

	envOverride(&c.DataDir, "DATA_DIR")
	envOverride(&c.GitHubToken, "GITHUB_TOKEN")
	envOverride(&c.SAPI.MissingSeat, "SAPI_MISSING_SEAT")
	envOverride(&c.SAPI.ShiftSource, "SAPI_SHIFT_SOURCE")

	applyDefaults(&c)
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func envOverride(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(c *dc.Config) {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Inputs.Schedule.File == "" {
		c.Inputs.Schedule.File = "schedule.xlsx"
	}
	if c.Inputs.Schedule.Sheet == "" {
		c.Inputs.Schedule.Sheet = "Combined"
	}
	if c.Inputs.Encounters.File == "" {
		c.Inputs.Encounters.File = "encounters.csv"
	}
	if c.Inputs.Benchmark.File == "" {
		c.Inputs.Benchmark.File = "benchmark.xlsx"
	}
	if c.SAPI.MaxRun == 0 {
		c.SAPI.MaxRun = sapi.DefaultMaxRun
	}
	if c.SAPI.MissingSeat == "" {
		c.SAPI.MissingSeat = string(sapi.SkipMissingSeat)
	}
	if c.SAPI.ShiftSource == "" {
		c.SAPI.ShiftSource = string(sapi.ShiftsFromEncounters)
	}
	for i := range c.Sources {
		if c.Sources[i].File == "" && c.Sources[i].Name != "" {
			c.Sources[i].File = c.Sources[i].Name
		}
	}
}

// Validate checks pipeline options and source entries.
func Validate(c *dc.Config) error {
	if err := PipelineOptions(c).Validate(); err != nil {
		return fmt.Errorf("sapi: %w", err)
	}
	if sapi.ShiftSource(c.SAPI.ShiftSource) == sapi.ShiftsFromTable && len(c.SAPI.ShiftTable) == 0 {
		return fmt.Errorf("sapi: shift_source %q requires a non-empty shift_table", c.SAPI.ShiftSource)
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("sources[%d]: url is required", i)
		}
		if strings.TrimSpace(s.File) == "" {
			return fmt.Errorf("sources[%d]: file or name is required", i)
		}
	}
	return nil
}

// PipelineOptions maps the sapi section onto pipeline options.
func PipelineOptions(c *dc.Config) sapi.Options {
	table := make([]radiology.ShiftCount, 0, len(c.SAPI.ShiftTable))
	for _, e := range c.SAPI.ShiftTable {
		table = append(table, radiology.ShiftCount{Radiologist: e.Radiologist, Seat: e.Seat, Shifts: e.Shifts})
	}
	return sapi.Options{
		MaxRun:      c.SAPI.MaxRun,
		MissingSeat: sapi.MissingSeatPolicy(c.SAPI.MissingSeat),
		ShiftSource: sapi.ShiftSource(c.SAPI.ShiftSource),
		ShiftTable:  table,
	}
}
