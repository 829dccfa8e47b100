package analytics

import (
	"errors"
	"fmt"
)

// ErrDataAccess marks failures to read the source table: missing or unreadable
// file, malformed CSV, missing column, or a failed warehouse query.
var ErrDataAccess = errors.New("data access error")

// ErrEmptyResult is returned when a query has no qualifying rows and an empty
// table would be meaningless.
var ErrEmptyResult = errors.New("empty result")

// MissingColumnError names a required column absent from the source header.
type MissingColumnError struct {
	Column string
	Source string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found in %s", e.Column, e.Source)
}

// Unwrap makes a missing column match ErrDataAccess.
func (e *MissingColumnError) Unwrap() error {
	return ErrDataAccess
}
