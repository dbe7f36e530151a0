package edrm

import (
	"crypto/sha1"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mapping is an insertion-ordered set of key/value pairs, the input shape for
// MappingEntry. Go maps do not preserve order, and field order in the load
// file follows input order, so mapping data is carried in this dedicated
// type.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]any)}
}

// Set assigns value under key, keeping the key's first-insertion position.
// It returns the mapping for chaining.
func (m *Mapping) Set(key string, value any) *Mapping {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *Mapping) Keys() []string { return m.keys }

// Len returns the number of pairs.
func (m *Mapping) Len() int { return len(m.keys) }

// FormatScalar renders a scalar value the way mapping text and field listings
// display it: nil as the empty string, timestamps in the load-file layout,
// floats without trailing zeros.
func FormatScalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return FormatTimestamp(v)
	default:
		return fmt.Sprint(v)
	}
}

// MappingEntry is the generic entry for key/value data: CSV rows, database
// records, decomposed JSON nodes. The mapping's pairs become fields, typed by
// their Go values, and the entry's text is the pair listing. A MappingEntry
// has no disk native; the packager materializes its text as a generated
// artifact inside the container.
//
// Name and item date are derived heuristically from the data. Sources where
// the heuristics pick the wrong field should wrap MappingEntry and override
// RawName, TimeField, or ItemDate.
type MappingEntry struct {
	Base
	data *Mapping
	name string
}

// NewMappingEntry creates an entry whose name is derived from the data by the
// name heuristic. parentID may be "" for a top-level entry.
func NewMappingEntry(data *Mapping, mimeType, parentID string) (*MappingEntry, error) {
	return newMappingEntry(data, mimeType, parentID, "")
}

// NewNamedMappingEntry creates an entry with an explicit display name,
// bypassing the name heuristic. Decomposers use this to name entries after
// their position in the source document.
func NewNamedMappingEntry(name string, data *Mapping, mimeType, parentID string) (*MappingEntry, error) {
	return newMappingEntry(data, mimeType, parentID, name)
}

func newMappingEntry(data *Mapping, mimeType, parentID, name string) (*MappingEntry, error) {
	me := &MappingEntry{Base: NewBase(parentID), data: data, name: name}
	if err := me.fillDataFields(); err != nil {
		return nil, err
	}
	if err := me.fillGenericFields(mimeType); err != nil {
		return nil, err
	}
	return me, nil
}

// fillDataFields adds one field per mapping pair, typed by the Go value.
func (me *MappingEntry) fillDataFields() error {
	for _, key := range me.data.Keys() {
		value, _ := me.data.Get(key)

		var typ FieldType
		switch value.(type) {
		case bool:
			typ = TypeBoolean
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			typ = TypeInteger
		case float32, float64:
			typ = TypeDecimal
		case time.Time:
			typ = TypeDateTime
		default:
			typ = TypeText
			value = FormatScalar(value)
		}

		f, err := GenerateField(key, typ, value)
		if err != nil {
			return err
		}
		me.Fields().Set(f)
	}
	return nil
}

func (me *MappingEntry) fillGenericFields(mimeType string) error {
	itemDate, err := me.ItemDate()
	if err != nil {
		return err
	}

	var pairs strings.Builder
	for _, key := range me.data.Keys() {
		v, _ := me.data.Get(key)
		fmt.Fprintf(&pairs, "%s=%s\n", key, FormatScalar(v))
	}

	for _, def := range []struct {
		name  string
		typ   FieldType
		value any
	}{
		{FieldMIMEType, TypeText, mimeType},
		{FieldSHA1, TypeText, HashData(pairs.String(), sha1.New())},
		{FieldName, TypeText, me.RawName()},
		{FieldItemDate, TypeDateTime, itemDate},
	} {
		f, err := GenerateField(def.name, def.typ, def.value)
		if err != nil {
			return err
		}
		me.Fields().Set(f)
	}
	return nil
}

// Data returns the entry's mapping.
func (me *MappingEntry) Data() *Mapping { return me.data }

// RawName returns the explicit name when one was given. Otherwise it looks
// for a field whose key contains "name", falling back to the first field, and
// renders that value.
func (me *MappingEntry) RawName() string {
	if me.name != "" {
		return me.name
	}
	keys := me.data.Keys()
	if len(keys) == 0 {
		return ""
	}

	nameKey := keys[0]
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), "name") {
			nameKey = key
			break
		}
	}
	v, _ := me.data.Get(nameKey)
	return FormatScalar(v)
}

// IdentifierField names the content digest as the natural key.
func (me *MappingEntry) IdentifierField() string { return FieldSHA1 }

// TimeField names the mapping key treated as the item date: "CreateTime" when
// present, else the first key containing "time", else the first containing
// "date". It returns "" when no candidate exists.
func (me *MappingEntry) TimeField() string {
	keys := me.data.Keys()
	for _, key := range keys {
		if key == "CreateTime" {
			return key
		}
	}
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), "time") {
			return key
		}
	}
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), "date") {
			return key
		}
	}
	return ""
}

// ItemDate returns the value of the time field. String values must be in
// ItemDateLayout; anything unparseable fails with ErrDateParse rather than
// defaulting silently. Without a time field the current time is used, placing
// the entry at the moment the container was assembled.
func (me *MappingEntry) ItemDate() (time.Time, error) {
	field := me.TimeField()
	if field == "" {
		return time.Now(), nil
	}

	v, _ := me.data.Get(field)
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(ItemDateLayout, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: field %q value %q", ErrDateParse, field, v)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: field %q holds %T", ErrDateParse, field, v)
	}
}

// Text renders the mapping pairs as "key: value" lines in insertion order.
func (me *MappingEntry) Text() (string, error) {
	var b strings.Builder
	for i, key := range me.data.Keys() {
		if i > 0 {
			b.WriteByte('\n')
		}
		v, _ := me.data.Get(key)
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(FormatScalar(v))
	}
	return b.String(), nil
}
