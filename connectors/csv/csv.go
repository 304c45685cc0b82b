package csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"rad-stats/domain/radiology"
	"rad-stats/domain/sapi"
)

// Output file names inside the data directory.
const (
	SeatBenchmarkFile = "seat_benchmark.csv"
	SeatRadFile       = "seat_rad.csv"
	SapiSummaryFile   = "sapi_summary.csv"
	KPIFile           = "kpi.csv"
)

// WriteAllCSVs writes every output relation of res into dir.
func WriteAllCSVs(dir string, res *sapi.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := WriteSeatBenchmarkCSV(filepath.Join(dir, SeatBenchmarkFile), res.Benchmarks); err != nil {
		return err
	}
	if err := WriteSeatRadCSV(filepath.Join(dir, SeatRadFile), res.SeatRads); err != nil {
		return err
	}
	if err := WriteSapiSummaryCSV(filepath.Join(dir, SapiSummaryFile), res.Summary); err != nil {
		return err
	}
	if err := WriteKPICSV(filepath.Join(dir, KPIFile), res.KPIs); err != nil {
		return err
	}
	return nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func writeRows(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func WriteSeatBenchmarkCSV(path string, rows []radiology.SeatBenchmark) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Seat, formatFloat(r.NormHDAverage), formatFloat(r.Benchmark)})
	}
	return writeRows(path, []string{"seat", "seat_norm_hd_avg", "benchmark"}, out)
}

func WriteSeatRadCSV(path string, rows []radiology.SeatRadRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Radiologist,
			r.Seat,
			formatFloat(r.NormHDAvg),
			formatFloat(r.Benchmark),
			formatFloat(r.SapiUnweighted),
			strconv.Itoa(r.Shifts),
		})
	}
	return writeRows(path, []string{"radiologist", "seat", "norm_hd_avg", "benchmark", "sapi_unweighted", "shifts"}, out)
}

func WriteSapiSummaryCSV(path string, rows []radiology.SapiSummary) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Radiologist,
			formatFloat(r.SapiWeighted),
			formatFloat(r.SapiUnweighted),
			strconv.Itoa(r.TotalShifts),
			strconv.Itoa(r.Seats),
		})
	}
	return writeRows(path, []string{"radiologist", "sapi_weighted", "sapi_unweighted", "total_shifts", "seats"}, out)
}

// WriteKPICSV writes one metric per row.
func WriteKPICSV(path string, k radiology.KPISummary) error {
	rows := [][]string{
		{"total_wrvu", formatFloat(k.TotalWorkRVU)},
		{"total_procedures", strconv.Itoa(k.TotalProcedures)},
		{"half_day_mammo_shifts", strconv.Itoa(k.HalfDayMammoShifts)},
		{"avg_wrvu_per_half_day", formatFloat(k.AvgWRVUPerHalfDay)},
		{"full_day_equivalents", formatFloat(k.FullDayEquivalents)},
		{"corrected_shifts", formatFloat(k.CorrectedShifts)},
	}
	return writeRows(path, []string{"metric", "value"}, rows)
}
