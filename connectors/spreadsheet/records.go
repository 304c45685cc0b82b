package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rad-stats/domain/radiology"
	"rad-stats/domain/sapi"
)

// Column headers, matched case-insensitively. Alternatives cover the two
// export conventions seen in the billing data.
var (
	colProvider        = []string{"Provider"}
	colDate            = []string{"Date"}
	colShiftLength     = []string{"Shift Length"}
	colShiftType       = []string{"Shift Type"}
	colCorrectedShifts = []string{"Corrected Shifts"}

	colFinalizingProvider = []string{"Finalizing Provider", "DR NAME"}
	colSeat               = []string{"Location", "Seat", "Location/Seat"}
	colProcedureCode      = []string{"Procedure Code", "CPT"}
	colWorkRVU            = []string{"Work RVU", "WORK RVU", "wRVU"}
)

// ReadSchedule maps the shift-schedule table. Every column is required.
func ReadSchedule(t *Table) ([]radiology.ShiftRecord, error) {
	provider, err := t.Require(colProvider...)
	if err != nil {
		return nil, err
	}
	date, err := t.Require(colDate...)
	if err != nil {
		return nil, err
	}
	length, err := t.Require(colShiftLength...)
	if err != nil {
		return nil, err
	}
	typ, err := t.Require(colShiftType...)
	if err != nil {
		return nil, err
	}
	corrected, err := t.Require(colCorrectedShifts...)
	if err != nil {
		return nil, err
	}

	var out []radiology.ShiftRecord
	err = t.Rows(func(line int, cell func(int) string) error {
		d, ok := ParseDate(cell(date))
		if !ok {
			return &sapi.MalformedValueError{Table: t.Name, Row: line, Column: colDate[0], Value: cell(date)}
		}
		cs, err := optionalNumber(t.Name, line, colCorrectedShifts[0], cell(corrected))
		if err != nil {
			return err
		}
		out = append(out, radiology.ShiftRecord{
			Provider:        cell(provider),
			Date:            d,
			ShiftLength:     parseShiftLength(cell(length)),
			ShiftType:       cell(typ),
			CorrectedShifts: cs,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadEncounters maps the encounter/billing table. Every column is required.
func ReadEncounters(t *Table) ([]radiology.EncounterRecord, error) {
	provider, err := t.Require(colFinalizingProvider...)
	if err != nil {
		return nil, err
	}
	seat, err := t.Require(colSeat...)
	if err != nil {
		return nil, err
	}
	code, err := t.Require(colProcedureCode...)
	if err != nil {
		return nil, err
	}
	rvu, err := t.Require(colWorkRVU...)
	if err != nil {
		return nil, err
	}

	var out []radiology.EncounterRecord
	err = t.Rows(func(line int, cell func(int) string) error {
		w, err := optionalNumber(t.Name, line, colWorkRVU[0], cell(rvu))
		if err != nil {
			return err
		}
		out = append(out, radiology.EncounterRecord{
			ProviderName:  cell(provider),
			Seat:          cell(seat),
			ProcedureCode: cell(code),
			WorkRVU:       w,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// optionalNumber reads a numeric cell; blank reads as 0.
func optionalNumber(table string, line int, column, v string) (float64, error) {
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	f, ok := sapi.ParseNumber(v)
	if !ok {
		return 0, &sapi.MalformedValueError{Table: table, Row: line, Column: column, Value: v}
	}
	return f, nil
}

func parseShiftLength(v string) radiology.ShiftLength {
	switch {
	case strings.EqualFold(v, string(radiology.ShiftHalf)):
		return radiology.ShiftHalf
	case strings.EqualFold(v, string(radiology.ShiftFull)):
		return radiology.ShiftFull
	default:
		return radiology.ShiftLength(v)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/01/02",
}

// ParseDate accepts ISO and US layouts and Excel serial day numbers.
func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
