package nli

import "github.com/caseforge/nli/edrm"

// --- Re-exports from edrm ---

// Entry is one node in the case hierarchy.
type Entry = edrm.Entry

// Composite is an entry that expands into a subtree when added.
type Composite = edrm.Composite

// NativeProvider is an entry backed by a real file on disk.
type NativeProvider = edrm.NativeProvider

// Field is a single named, typed value stored on an entry.
type Field = edrm.Field

// FieldType identifies the kind of data a field carries.
type FieldType = edrm.FieldType

// Mapping is an insertion-ordered set of key/value pairs.
type Mapping = edrm.Mapping

// Field type constants.
const (
	TypeText     = edrm.TypeText
	TypeDateTime = edrm.TypeDateTime
	TypeInteger  = edrm.TypeInteger
	TypeLongText = edrm.TypeLongText
	TypeDecimal  = edrm.TypeDecimal
	TypeBoolean  = edrm.TypeBoolean
)

// NewMapping returns an empty ordered mapping.
var NewMapping = edrm.NewMapping

// GenerateField creates a field through the shared default factory.
var GenerateField = edrm.GenerateField
