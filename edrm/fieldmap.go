package edrm

import "fmt"

// FieldMap holds an entry's fields keyed by field name, preserving insertion
// order. Insertion order is the order fields are written to the load file.
type FieldMap struct {
	names  []string
	fields map[string]*Field
}

// NewFieldMap returns an empty field map.
func NewFieldMap() *FieldMap {
	return &FieldMap{fields: make(map[string]*Field)}
}

// Set assigns the field under its own name. A field set under a name already
// present replaces the stored field but keeps the original position.
func (fm *FieldMap) Set(f *Field) {
	if _, ok := fm.fields[f.Name()]; !ok {
		fm.names = append(fm.names, f.Name())
	}
	fm.fields[f.Name()] = f
}

// Get returns the field stored under name.
func (fm *FieldMap) Get(name string) (*Field, bool) {
	f, ok := fm.fields[name]
	return f, ok
}

// SetValue replaces the value of an existing field. Assigning to a name that
// has no field fails with ErrUnknownField; use Set to add new fields.
func (fm *FieldMap) SetValue(name string, value any) error {
	f, ok := fm.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f.SetValue(value)
}

// Names returns the field names in insertion order. The returned slice is
// shared; callers must not modify it.
func (fm *FieldMap) Names() []string { return fm.names }

// Len returns the number of fields.
func (fm *FieldMap) Len() int { return len(fm.names) }

// Clone returns a deep copy: every field is cloned, order preserved.
func (fm *FieldMap) Clone() *FieldMap {
	clone := NewFieldMap()
	for _, name := range fm.names {
		clone.Set(fm.fields[name].Clone())
	}
	return clone
}
