package calculate

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"rad-stats/connectors/config"
	ccsv "rad-stats/connectors/csv"
	"rad-stats/connectors/spreadsheet"
	dc "rad-stats/domain/config"
	"rad-stats/domain/sapi"
)

// Run executes the calculate command: load the configured spreadsheets, run
// the SAPI pipeline and write the output relations as CSV.
//
// Usage:
//
//	rad-stats calculate [-data ./data] [-out ./data] [-provider NAME] [-from YYYY-MM-DD] [-to YYYY-MM-DD]
func Run(args []string) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", "", "directory containing the input spreadsheets (overrides data_dir)")
	outDir := fs.String("out", "", "directory for output CSVs (default: the data directory)")
	provider := fs.String("provider", "", "restrict schedule and encounters to one provider")
	from := fs.String("from", "", "first schedule date to include, YYYY-MM-DD")
	to := fs.String("to", "", "last schedule date to include, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("calculate: unexpected arguments %v", fs.Args())
	}

	filter, err := sapi.ParseFilter(*provider, *from, *to)
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *outDir == "" {
		*outDir = cfg.DataDir
	}

	slog.Info("calculate.start", "data", cfg.DataDir, "out", *outDir, "filter", filter.Key())
	res, err := Calculate(cfg, filter)
	if err != nil {
		slog.Error("calculate.error", "error", err)
		return err
	}
	if err := ccsv.WriteAllCSVs(*outDir, res); err != nil {
		slog.Error("phase.csv.write.error", "error", err)
		return fmt.Errorf("failed to write CSV outputs: %w", err)
	}
	slog.Info("calculate.done",
		"seats", len(res.Benchmarks),
		"seat_rads", len(res.SeatRads),
		"radiologists", len(res.Summary))
	return nil
}

// Calculate loads the configured inputs and runs the pipeline on them.
func Calculate(cfg *dc.Config, filter sapi.Filter) (*sapi.Result, error) {
	in, err := spreadsheet.LoadInputs(cfg)
	if err != nil {
		return nil, err
	}
	return sapi.Run(in.Filtered(filter), config.PipelineOptions(cfg))
}
