package web

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"rad-stats/connectors/config"
	ccsv "rad-stats/connectors/csv"
	"rad-stats/connectors/memo"
	"rad-stats/connectors/spreadsheet"
	dc "rad-stats/domain/config"
	"rad-stats/domain/sapi"
)

// Run starts a small Echo web server exposing the SAPI relations as JSON and an optional SPA dashboard.
//
// Usage:
//
//	rad-stats web [-addr :8080] [-data ./data] [-ui ./ui/dist]
//
// Endpoints (all accept ?provider=NAME&from=YYYY-MM-DD&to=YYYY-MM-DD):
//
//	GET /api/benchmarks   -> per-seat average and benchmark
//	GET /api/seat_rads    -> per (radiologist, seat) SAPI with shifts
//	GET /api/sapi         -> per radiologist weighted/unweighted SAPI
//	GET /api/kpis         -> headline numbers
//	GET /api/schedule     -> filtered schedule rows
//	GET /api/encounters   -> filtered encounter rows
//	GET /api/providers    -> provider names for the selector
//	GET /api/export/:name -> <data>/<name>.csv written by the calculate command
//
// When -ui points to a built Vite app (index.html exists), static files are served at / and
// unknown routes fall back to index.html for SPA routing.
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "http listen address (host:port)")
	dataDir := fs.String("data", "", "directory containing input spreadsheets and CSV exports (overrides data_dir)")
	uiDir := fs.String("ui", "./ui/dist", "directory containing built UI (Vite dist)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	slog.Info("web.start", "addr", *addr, "data", cfg.DataDir, "ui", *uiDir)
	return NewServer(cfg, *uiDir).Start(*addr)
}

type server struct {
	cfg     *dc.Config
	opts    sapi.Options
	inputs  *memo.Cache[sapi.Inputs]
	results *memo.Cache[*sapi.Result]
}

// exports maps /api/export/:name to files written by the calculate command.
var exports = map[string]string{
	"seat_benchmark": ccsv.SeatBenchmarkFile,
	"seat_rad":       ccsv.SeatRadFile,
	"sapi_summary":   ccsv.SapiSummaryFile,
	"kpi":            ccsv.KPIFile,
}

// NewServer wires the routes. uiDir may be empty.
func NewServer(cfg *dc.Config, uiDir string) *echo.Echo {
	return newServer(cfg).routes(uiDir)
}

func newServer(cfg *dc.Config) *server {
	return &server{
		cfg:     cfg,
		opts:    config.PipelineOptions(cfg),
		inputs:  memo.New[sapi.Inputs](),
		results: memo.New[*sapi.Result](),
	}
}

func (s *server) routes(uiDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.GET("/api/benchmarks", s.withResult(func(c echo.Context, _ sapi.Filter, _ sapi.Inputs, res *sapi.Result) error {
		return c.JSON(http.StatusOK, res.Benchmarks)
	}))
	e.GET("/api/seat_rads", s.withResult(func(c echo.Context, f sapi.Filter, _ sapi.Inputs, res *sapi.Result) error {
		return c.JSON(http.StatusOK, f.SeatRads(res.SeatRads))
	}))
	e.GET("/api/sapi", s.withResult(func(c echo.Context, f sapi.Filter, _ sapi.Inputs, res *sapi.Result) error {
		return c.JSON(http.StatusOK, f.Summary(res.Summary))
	}))
	e.GET("/api/kpis", s.withResult(func(c echo.Context, _ sapi.Filter, _ sapi.Inputs, res *sapi.Result) error {
		return c.JSON(http.StatusOK, res.KPIs)
	}))
	e.GET("/api/schedule", s.withResult(func(c echo.Context, f sapi.Filter, in sapi.Inputs, _ *sapi.Result) error {
		return c.JSON(http.StatusOK, f.Schedule(in.Schedule))
	}))
	e.GET("/api/encounters", s.withResult(func(c echo.Context, f sapi.Filter, in sapi.Inputs, _ *sapi.Result) error {
		return c.JSON(http.StatusOK, f.Encounters(in.Encounters, in.Schedule))
	}))
	e.GET("/api/providers", s.withResult(func(c echo.Context, _ sapi.Filter, in sapi.Inputs, _ *sapi.Result) error {
		return c.JSON(http.StatusOK, append([]string{sapi.AllProviders}, sapi.Providers(in.Schedule)...))
	}))
	e.GET("/api/export/:name", s.serveExport)

	if index, ok := dashboardIndex(uiDir); ok {
		e.Static("/", uiDir)
		e.GET("/", func(c echo.Context) error { return c.File(index) })
		e.HTTPErrorHandler = dashboardFallback(e, index)
	}
	return e
}

// dashboardIndex returns the built dashboard entry point when uiDir holds one.
func dashboardIndex(uiDir string) (string, bool) {
	if uiDir == "" {
		return "", false
	}
	index := filepath.Join(uiDir, "index.html")
	fi, err := os.Stat(index)
	return index, err == nil && !fi.IsDir()
}

// dashboardFallback answers unknown non-API paths with the dashboard so its
// client-side routes survive a reload. API 404s keep their JSON body.
func dashboardFallback(e *echo.Echo, index string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		api := strings.HasPrefix(c.Request().URL.Path, "/api/")
		if errors.As(err, &he) && he.Code == http.StatusNotFound && !api {
			if ferr := c.File(index); ferr == nil {
				return
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

type resultHandler func(c echo.Context, f sapi.Filter, in sapi.Inputs, res *sapi.Result) error

// withResult parses the filter, loads inputs and runs the pipeline through the
// caches, then hands the unfiltered inputs and the filtered result to h.
func (s *server) withResult(h resultHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		f, err := sapi.ParseFilter(c.QueryParam("provider"), c.QueryParam("from"), c.QueryParam("to"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":   err.Error(),
				"message": "invalid filter",
			})
		}
		in, res, err := s.compute(f)
		if err != nil {
			return writeError(c, err)
		}
		return h(c, f, in, res)
	}
}

func (s *server) compute(f sapi.Filter) (sapi.Inputs, *sapi.Result, error) {
	inputKey, err := memo.Fingerprint(spreadsheet.InputPaths(s.cfg), s.cfg.Inputs.Schedule.Sheet, s.cfg.Inputs.Encounters.Sheet,
		s.cfg.Inputs.Benchmark.Sheet, s.cfg.Inputs.Benchmark.SeatRange, s.cfg.Inputs.Benchmark.RosterRange)
	if err != nil {
		return sapi.Inputs{}, nil, err
	}
	in, hit, err := s.inputs.Get(inputKey, func() (sapi.Inputs, error) { return spreadsheet.LoadInputs(s.cfg) })
	if err != nil {
		slog.Error("phase.load.error", "error", err)
		return sapi.Inputs{}, nil, err
	}
	slog.Debug("web.inputs.cache", "hit", hit, "key", inputKey[:12])

	// One entry per distinct filter on the current inputs; nothing is evicted.
	// Filter.Key folds provider spellings and date formats, so the entry count
	// is bounded by the distinct (provider, from, to) triples actually queried.
	resultKey := inputKey + "|" + s.opts.Fingerprint() + "|" + f.Key()
	res, hit, err := s.results.Get(resultKey, func() (*sapi.Result, error) { return sapi.Run(in.Filtered(f), s.opts) })
	if err != nil {
		slog.Error("phase.pipeline.error", "error", err)
		return sapi.Inputs{}, nil, err
	}
	slog.Debug("web.pipeline.cache", "hit", hit, "filter", f.Key())
	return in, res, nil
}

// writeError maps pipeline errors to JSON responses: missing inputs are 404,
// data problems 422, anything else 500.
func writeError(c echo.Context, err error) error {
	var missing *sapi.MissingInputError
	if errors.As(err, &missing) {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error":   "file not found",
			"path":    missing.Path,
			"message": err.Error(),
		})
	}
	var col *sapi.MissingColumnError
	var val *sapi.MalformedValueError
	var seat *sapi.SeatNotFoundError
	if errors.As(err, &col) || errors.As(err, &val) || errors.As(err, &seat) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":   err.Error(),
			"message": "input data does not match the expected layout",
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error":   err.Error(),
		"message": "failed to compute report",
	})
}

func (s *server) serveExport(c echo.Context) error {
	file, ok := exports[c.Param("name")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error":   "unknown export",
			"message": "expected one of seat_benchmark, seat_rad, sapi_summary, kpi",
		})
	}
	path := filepath.Join(s.cfg.DataDir, file)
	rows, err := readExport(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c.JSON(http.StatusNotFound, map[string]any{
				"error":   "file not found",
				"path":    path,
				"message": "CSV file is missing; run the calculate command",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"path":    path,
			"message": "failed to read CSV",
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// readExport decodes a calculated CSV into one object per row keyed by the
// header. Cells stay strings so the CSV formatting is what the client sees.
func readExport(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := []map[string]string{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		row := make(map[string]string, len(header))
		for i, v := range rec {
			if i < len(header) {
				row[header[i]] = v
			}
		}
		out = append(out, row)
	}
}
