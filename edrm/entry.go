package edrm

import "time"

// Entry is one node in the item hierarchy destined for the load file. The
// concrete variants in this package (FileEntry, DirectoryEntry, MappingEntry)
// cover the common cases; callers with richer sources implement Entry, usually
// by embedding one of the variants and overriding the derivation methods.
type Entry interface {
	// RawName returns the display name before path sanitation. The effective
	// name used for staging and manifest paths is derived from it by the
	// builder via SanitizeName.
	RawName() string

	// Fields returns the entry's field map. Fields added before or after
	// registration are both written to the load file.
	Fields() *FieldMap

	// Parent returns the id of the entry's parent, or "" for a root entry.
	Parent() string

	// IdentifierField names the field holding the entry's natural key, or ""
	// when the entry has none.
	IdentifierField() string

	// MimeType returns the entry's MIME type.
	MimeType() string

	// Text returns the full-text content to index for the entry. It may be
	// empty. Failures from custom derivations propagate to the caller.
	Text() (string, error)

	// ItemDate returns the entry's position on the case timeline. A zero time
	// means the entry has no item date.
	ItemDate() (time.Time, error)

	// AddAsParentPath returns the container path with this entry's own
	// contribution prepended, for descendants that inherit a location from
	// it. Non-container entries return existing unchanged.
	AddAsParentPath(existing string) string
}

// NativeProvider is implemented by entries whose payload is a real file on
// disk. The packager stages those bytes into the container.
type NativeProvider interface {
	Entry

	// NativePath returns the absolute path of the source file.
	NativePath() string

	// NativeHash returns the MD5 of the native bytes, hex-encoded, for the
	// manifest's external-file record.
	NativeHash() (string, error)
}

// Composite is implemented by entries that expand into a subtree when added:
// the entry registers itself and then its generated children with the
// builder. CSV and JSON file entries are the in-tree composites.
type Composite interface {
	Entry

	// AddToBuilder registers the entry and its expansion. It returns the id
	// assigned to the composite itself.
	AddToBuilder(b *Builder) (string, error)
}

// Base carries the state every entry variant shares: the ordered field map
// and the parent link. Variants embed Base and provide the derivation
// methods.
type Base struct {
	fields *FieldMap
	parent string
}

// NewBase returns a Base with an empty field map and the given parent id.
func NewBase(parentID string) Base {
	return Base{fields: NewFieldMap(), parent: parentID}
}

// Fields returns the entry's field map.
func (b *Base) Fields() *FieldMap { return b.fields }

// Parent returns the parent id, or "" for a root entry.
func (b *Base) Parent() string { return b.parent }

// IdentifierField returns "": no natural key by default.
func (b *Base) IdentifierField() string { return "" }

// MimeType returns the value of the MIME Type field, or "" if unset.
func (b *Base) MimeType() string {
	f, ok := b.fields.Get(FieldMIMEType)
	if !ok {
		return ""
	}
	if s, ok := f.Value().(string); ok {
		return s
	}
	return ""
}

// Text returns no content by default.
func (b *Base) Text() (string, error) { return "", nil }

// ItemDate returns no item date by default.
func (b *Base) ItemDate() (time.Time, error) { return time.Time{}, nil }

// AddAsParentPath returns existing unchanged; most entries are not
// containers.
func (b *Base) AddAsParentPath(existing string) string { return existing }

// Standard field names populated automatically on the built-in entry
// variants.
const (
	FieldName         = "Name"
	FieldItemDate     = "Item Date"
	FieldMIMEType     = "MIME Type"
	FieldSHA1         = "SHA-1"
	FieldPathName     = "Path Name"
	FieldFileAccessed = "File Accessed"
	FieldFileCreated  = "File Created"
	FieldFileModified = "File Modified"
	FieldFileOwner    = "File Owner"
	FieldFileSize     = "File Size"
)
