package edrm

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FieldType identifies the kind of data a field carries. The values are the
// data type names the EDRM load-file vocabulary uses.
type FieldType string

const (
	TypeText     FieldType = "Text"
	TypeDateTime FieldType = "DateTime"
	TypeInteger  FieldType = "LongInteger"
	TypeLongText FieldType = "LongText"
	TypeDecimal  FieldType = "Decimal"
	TypeBoolean  FieldType = "Boolean"
)

// Field is a single named, typed value stored on an entry. A field also has a
// key: the XML element name used to carry its value for each document in the
// load file. Keys are managed by FieldFactory so that every field of the same
// name shares one key; construct fields through a factory rather than by hand.
//
// Fields are never shared between entries. Use Clone when the same definition
// and value are needed on more than one entry.
type Field struct {
	key   string
	name  string
	typ   FieldType
	value any
}

// Key returns the XML element name used to store this field's value.
func (f *Field) Key() string { return f.key }

// Name returns the field name as it appears in the final case.
func (f *Field) Name() string { return f.name }

// Type returns the declared data type of the field.
func (f *Field) Type() FieldType { return f.typ }

// Value returns the current value of the field.
func (f *Field) Value() any { return f.value }

// SetValue replaces the field's value. The value is checked against the
// declared type; incompatible values fail with ErrInvalidFieldType.
func (f *Field) SetValue(value any) error {
	coerced, err := coerceValue(f.typ, value)
	if err != nil {
		return err
	}
	f.value = coerced
	return nil
}

// Clone returns an independent copy of the field. Mutating the clone's value
// never affects the original.
func (f *Field) Clone() *Field {
	clone := *f
	return &clone
}

// RenderValue returns the string form of the value as it is written to the
// load file: timestamps in the load-file layout, decimals rounded to four
// places, nil as the empty string. The result is XML-sanitized.
func (f *Field) RenderValue() string {
	switch v := f.value.(type) {
	case nil:
		return ""
	case time.Time:
		return FormatTimestamp(v)
	case float64:
		return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(math.Round(float64(v)*10000)/10000, 'f', -1, 64)
	case string:
		return sanitizeXMLContent(v)
	default:
		return sanitizeXMLContent(fmt.Sprint(v))
	}
}

// coerceValue checks value against the declared field type, normalizing it
// where a lossless conversion exists. It returns ErrInvalidFieldType when no
// such conversion applies.
func coerceValue(typ FieldType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch typ {
	case TypeText, TypeLongText:
		return value, nil

	case TypeInteger:
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return v, nil
		case string:
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidFieldType, v)
			}
			return v, nil
		}

	case TypeDecimal:
		switch v := value.(type) {
		case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return v, nil
		case string:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("%w: %q is not a decimal", ErrInvalidFieldType, v)
			}
			return v, nil
		}

	case TypeBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			if _, err := strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidFieldType, v)
			}
			return v, nil
		}

	case TypeDateTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			if _, err := ParseTimestamp(v); err != nil {
				return nil, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidFieldType, v)
			}
			return v, nil
		}

	default:
		return nil, fmt.Errorf("%w: unknown field type %q", ErrInvalidFieldType, typ)
	}

	return nil, fmt.Errorf("%w: cannot store %T as %s", ErrInvalidFieldType, value, typ)
}
