package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrInvalidInput = errors.New("invalid input")

	// Load errors
	ErrEmptyDataset  = errors.New("dataset has no records")
	ErrMissingColumn = errors.New("required column missing")
	ErrInvalidCell   = errors.New("invalid cell value")
	ErrUnknownFormat = errors.New("unsupported dataset format")

	ErrUnknownCondition = fmt.Errorf("%w: unknown loan condition", ErrInvalidInput)
)

// CellError reports a cell that could not be coerced into a loan field
type CellError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d column %s: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() []error {
	return []error{ErrInvalidCell, e.Err}
}
