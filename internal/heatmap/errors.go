package heatmap

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when a domain is requested for zero measurements.
	ErrEmptyDataset = errors.New("dataset has no measurements")

	// ErrDomainNotSet is returned when a scale is used before Configure.
	ErrDomainNotSet = errors.New("scale domain not configured")

	// ErrUnknownMonth is returned for month names outside January..December.
	ErrUnknownMonth = errors.New("unknown month")

	// ErrInvalidPalette is returned by NewPalette for empty or unsorted legends.
	ErrInvalidPalette = errors.New("invalid palette")
)

// ParseError reports a malformed raw record.
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %s", e.Field, e.Value, e.Reason)
}
