package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"rad-stats/domain/sapi"
)

// Load reads one sheet of a spreadsheet file into a grid. The format follows the
// extension: .csv and .txt are read as CSV, .xls with the legacy reader and
// anything else as xlsx. An empty sheet name selects the first sheet.
// A missing file or sheet is reported as *sapi.MissingInputError.
func Load(name, path, sheet string) (sapi.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &sapi.MissingInputError{Name: name, Path: path, Err: err}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var grid sapi.Grid
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		grid, err = readCSV(data)
	case ".xls":
		grid, err = readXLS(data, sheet)
	default:
		grid, err = readXLSX(data, sheet)
	}
	if err != nil {
		if errors.Is(err, errSheetNotFound) {
			return nil, &sapi.MissingInputError{Name: name, Path: path + "#" + sheet, Err: err}
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	slog.Debug("spreadsheet.load", "name", name, "path", path, "sheet", sheet, "rows", len(grid))
	return grid, nil
}

var errSheetNotFound = errors.New("sheet not found")

func readCSV(data []byte) (sapi.Grid, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return sapi.Grid(records), nil
}

func readXLSX(data []byte, sheet string) (sapi.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", errSheetNotFound, sheet)
	}
	// Stored values, not display text: a "0.00" format must not round averages.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	return sapi.Grid(rows), nil
}

func readXLS(data []byte, sheet string) (sapi.Grid, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		if sheet != "" && strings.TrimSpace(ws.Name) != strings.TrimSpace(sheet) {
			continue
		}
		grid := make(sapi.Grid, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				grid = append(grid, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			grid = append(grid, cells)
		}
		return grid, nil
	}
	return nil, fmt.Errorf("%w: %q", errSheetNotFound, sheet)
}
