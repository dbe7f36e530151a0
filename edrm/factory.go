package edrm

import (
	"fmt"
	"sync"
)

// FieldFactory hands out fields with stable keys. A key names the XML element
// that carries the field's value for each document, so two fields with the
// same name must share a key while remaining distinct Field instances. The
// factory keeps the name-to-key mapping and a counter for fresh keys.
//
// A FieldFactory is safe for concurrent use.
type FieldFactory struct {
	mu   sync.Mutex
	next int
	keys map[string]string
}

// NewFieldFactory returns an empty factory.
func NewFieldFactory() *FieldFactory {
	return &FieldFactory{keys: make(map[string]string)}
}

// Generate creates a field with the given name, type, and initial value. The
// initial value is type-checked the same way SetValue checks assignments.
// Fields of a name seen before reuse that name's key.
func (ff *FieldFactory) Generate(name string, typ FieldType, value any) (*Field, error) {
	coerced, err := coerceValue(typ, value)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}

	ff.mu.Lock()
	key, ok := ff.keys[name]
	if !ok {
		key = fmt.Sprintf("field_%d", ff.next)
		ff.next++
		ff.keys[name] = key
	}
	ff.mu.Unlock()

	return &Field{key: key, name: name, typ: typ, value: coerced}, nil
}

// defaultFactory backs GenerateField. Keys only need to be unique within one
// load file, and a shared process-wide factory satisfies that for every
// builder in the process.
var defaultFactory = NewFieldFactory()

// GenerateField creates a field through the shared default factory. Entry
// constructors use this so that standard field names (Name, MIME Type, ...)
// map to the same keys everywhere.
func GenerateField(name string, typ FieldType, value any) (*Field, error) {
	return defaultFactory.Generate(name, typ, value)
}
