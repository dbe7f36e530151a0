package nli

import (
	"errors"

	"github.com/caseforge/nli/edrm"
)

// ErrPackaging is returned when native bytes cannot be read or the container
// cannot be written. A save that fails with ErrPackaging leaves no container
// at the destination.
var ErrPackaging = errors.New("nli: packaging failure")

// Errors re-exported from edrm.
var (
	// ErrInvalidFieldType is returned when a value cannot be coerced to a
	// field's declared data type.
	ErrInvalidFieldType = edrm.ErrInvalidFieldType

	// ErrDateParse is returned when an item date cannot be parsed from its
	// source field.
	ErrDateParse = edrm.ErrDateParse

	// ErrDanglingParent is returned when an entry references a parent id that
	// was never registered.
	ErrDanglingParent = edrm.ErrDanglingParent

	// ErrCyclicParent is returned when an entry's ancestor chain loops back
	// onto itself.
	ErrCyclicParent = edrm.ErrCyclicParent

	// ErrMalformedSource is returned when a CSV or JSON source document
	// cannot be parsed.
	ErrMalformedSource = edrm.ErrMalformedSource
)
