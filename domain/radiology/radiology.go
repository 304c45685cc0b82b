package radiology

import "time"

// ShiftLength is the scheduled length of a shift as exported by the scheduler.
type ShiftLength string

const (
	ShiftHalf ShiftLength = "Half"
	ShiftFull ShiftLength = "Full"
)

// ShiftRecord is one scheduled shift row (minimal fields used by the pipeline)
type ShiftRecord struct {
	Provider        string      `json:"provider"`
	Date            time.Time   `json:"date"`
	ShiftLength     ShiftLength `json:"shift_length"`
	ShiftType       string      `json:"shift_type"` // Mammo, Other, ...
	CorrectedShifts float64     `json:"corrected_shifts"`
}

// EncounterRecord is one billed procedure.
type EncounterRecord struct {
	ProviderName  string  `json:"provider_name"`
	Seat          string  `json:"seat"`
	ProcedureCode string  `json:"procedure_code"`
	WorkRVU       float64 `json:"work_rvu"`
}

// SeatAverage is one row of the seat sub-region of the benchmark sheet.
type SeatAverage struct {
	Seat          string  `json:"seat"`
	NormHDAverage float64 `json:"seat_norm_hd_avg"`
}

type SeatBenchmark struct {
	Seat          string  `json:"seat"`
	NormHDAverage float64 `json:"seat_norm_hd_avg"`
	Benchmark     float64 `json:"benchmark"`
}

// RosterEntry is a (radiologist, seat, value) tuple recovered from the roster region.
type RosterEntry struct {
	Radiologist string  `json:"radiologist"`
	Seat        string  `json:"seat"`
	NormHDAvg   float64 `json:"norm_hd_avg"`
}

// ShiftCount is the number of encounter rows billed by a provider at a seat,
// keyed by the names as written in the source.
type ShiftCount struct {
	Radiologist string `json:"radiologist"`
	Seat        string `json:"seat"`
	Shifts      int    `json:"shifts"`
}

type SeatRadRow struct {
	Radiologist    string  `json:"radiologist"`
	Seat           string  `json:"seat"`
	NormHDAvg      float64 `json:"norm_hd_avg"`
	Benchmark      float64 `json:"benchmark"`
	SapiUnweighted float64 `json:"sapi_unweighted"`
	Shifts         int     `json:"shifts"`
}

// SapiSummary is the per-radiologist aggregate across every seat worked.
type SapiSummary struct {
	Radiologist    string  `json:"radiologist"`
	SapiWeighted   float64 `json:"sapi_weighted"`
	SapiUnweighted float64 `json:"sapi_unweighted"`
	TotalShifts    int     `json:"total_shifts"`
	Seats          int     `json:"seats"`
}

// KPISummary holds the headline numbers of the dashboard.
type KPISummary struct {
	TotalWorkRVU       float64 `json:"total_wrvu"`
	TotalProcedures    int     `json:"total_procedures"`
	HalfDayMammoShifts int     `json:"half_day_mammo_shifts"`
	AvgWRVUPerHalfDay  float64 `json:"avg_wrvu_per_half_day"`
	FullDayEquivalents float64 `json:"full_day_equivalents"`
	CorrectedShifts    float64 `json:"corrected_shifts"`
}
