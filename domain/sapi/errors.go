package sapi

import "fmt"

// MissingInputError reports a required source file or sheet that is absent.
type MissingInputError struct {
	Name string
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s input missing at %s: %v", e.Name, e.Path, e.Err)
	}
	return fmt.Sprintf("%s input missing at %s", e.Name, e.Path)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// MissingColumnError reports an expected column absent from a loaded table.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s missing column %s", e.Table, e.Column)
}

// SeatNotFoundError is returned when a seat label has no anchor row in the
// roster grid and the missing-seat policy is FailMissingSeat.
type SeatNotFoundError struct {
	Seat string
}

func (e *SeatNotFoundError) Error() string {
	return fmt.Sprintf("seat %q not found in roster", e.Seat)
}

// MalformedValueError reports a cell that should hold a number or date but does not.
// Row is 1-based as shown by spreadsheet tools.
type MalformedValueError struct {
	Table  string
	Row    int
	Column string
	Value  string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("%s row %d column %s: malformed value %q", e.Table, e.Row, e.Column, e.Value)
}
