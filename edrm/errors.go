package edrm

import "errors"

var (
	// ErrInvalidFieldType is returned when a value cannot be coerced to a
	// field's declared data type.
	ErrInvalidFieldType = errors.New("edrm: value incompatible with field type")

	// ErrDateParse is returned when an item date cannot be parsed from its
	// source field.
	ErrDateParse = errors.New("edrm: item date parse failure")

	// ErrUnknownField is returned when setting the value of a field that has
	// not been assigned to the entry.
	ErrUnknownField = errors.New("edrm: no such field on entry")

	// ErrDanglingParent is returned when an entry references a parent id that
	// was never registered with the builder.
	ErrDanglingParent = errors.New("edrm: parent id not registered")

	// ErrCyclicParent is returned when an entry's ancestor chain loops back
	// onto itself.
	ErrCyclicParent = errors.New("edrm: entry is its own ancestor")

	// ErrMalformedSource is returned when a CSV or JSON source document cannot
	// be parsed.
	ErrMalformedSource = errors.New("edrm: malformed source document")
)
