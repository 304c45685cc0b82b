package config

// Config represents the structure of config.yml used by the tool.
type Config struct {
	DataDir string   `yaml:"data_dir"`
	Sources []Source `yaml:"sources"`
	Inputs  struct {
		Schedule   Sheet          `yaml:"schedule"`
		Encounters Sheet          `yaml:"encounters"`
		Benchmark  BenchmarkSheet `yaml:"benchmark"`
	} `yaml:"inputs"`
	SAPI SAPI `yaml:"sapi"`

	// GitHubToken is only read from the environment.
	GitHubToken string `yaml:"-"`
}

// Source is a remote file downloaded by the import command into DataDir.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	File string `yaml:"file"`
}

type Sheet struct {
	File  string `yaml:"file"`
	Sheet string `yaml:"sheet"`
}

// BenchmarkSheet locates the seat averages and the roster region inside the
// benchmark workbook. Ranges are A1-style, e.g. "A2:B12".
type BenchmarkSheet struct {
	File        string `yaml:"file"`
	Sheet       string `yaml:"sheet"`
	SeatRange   string `yaml:"seat_range"`
	RosterRange string `yaml:"roster_range"`
}

type SAPI struct {
	MaxRun      int          `yaml:"max_run"`
	MissingSeat string       `yaml:"missing_seat"` // skip|error
	ShiftSource string       `yaml:"shift_source"` // encounters|table
	ShiftTable  []ShiftEntry `yaml:"shift_table"`
}

type ShiftEntry struct {
	Radiologist string `yaml:"radiologist"`
	Seat        string `yaml:"seat"`
	Shifts      int    `yaml:"shifts"`
}
