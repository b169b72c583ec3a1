package parser

import (
	"fmt"
	"io"
)

// Parser defines the interface for parsing WIP export files
type Parser interface {
	ParseJobs(r io.Reader) ([]JobRow, error)
	ParseChangeOrders(r io.Reader) ([]ChangeOrderRow, error)
}

// ValidationError represents a parsing error with context
type ValidationError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d, column %s: failed to parse '%s': %v",
		e.Row, e.Column, e.Value, e.Err)
}
