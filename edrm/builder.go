package edrm

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
)

// Builder accumulates entries and assembles the load file. Entries are
// registered exactly once; registration assigns the entry's id and links it
// into its parent's family. Registration order is display order: siblings
// appear in the manifest in the order they were added, not sorted by name.
//
// A Builder is not safe for concurrent registration; id and sequence
// assignment assume one caller at a time.
type Builder struct {
	custodian      string
	containerPaths bool
	logger         *slog.Logger

	entries  map[string]Entry
	order    []string
	families map[string][]string
	seq      int
}

// NewBuilder returns an empty builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		custodian: DefaultCustodian,
		entries:   make(map[string]Entry),
		families:  make(map[string][]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// log returns the logger, falling back to a discard logger if nil.
func (b *Builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.logger
}

// AddEntry registers an entry and returns its assigned id.
//
// The id is a digest over the entry's raw name, its parent id, and the
// registration sequence number. The sequence number makes ids unique within
// the session even for entries with identical names under the same parent;
// ids are opaque tokens, not reproducible content addresses.
func (b *Builder) AddEntry(entry Entry) (string, error) {
	id := b.nextID(entry)
	b.entries[id] = entry
	b.order = append(b.order, id)

	if _, ok := b.families[id]; !ok {
		b.families[id] = nil
	}
	if parent := entry.Parent(); parent != "" {
		b.families[parent] = append(b.families[parent], id)
	}

	b.log().Debug("registered entry", "id", id, "name", entry.RawName(), "parent", entry.Parent())
	return id, nil
}

func (b *Builder) nextID(entry Entry) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d", entry.RawName(), entry.Parent(), b.seq)
	b.seq++
	return hex.EncodeToString(h.Sum(nil))
}

// AddFile registers a plain file entry. parentID may be "" for a top-level
// document.
func (b *Builder) AddFile(path, mimeType, parentID string) (string, error) {
	fe, err := NewFileEntry(path, mimeType, parentID)
	if err != nil {
		return "", err
	}
	return b.AddEntry(fe)
}

// AddDirectory registers a folder entry. Nested folders are added one level
// at a time, each using its parent folder's id.
func (b *Builder) AddDirectory(nameOrPath, parentID string) (string, error) {
	de, err := NewDirectoryEntry(nameOrPath, parentID)
	if err != nil {
		return "", err
	}
	return b.AddEntry(de)
}

// AddMapping registers a generic mapping entry for the given data.
func (b *Builder) AddMapping(data *Mapping, mimeType, parentID string) (string, error) {
	me, err := NewMappingEntry(data, mimeType, parentID)
	if err != nil {
		return "", err
	}
	return b.AddEntry(me)
}

// Entry returns the registered entry with the given id.
func (b *Builder) Entry(id string) (Entry, bool) {
	e, ok := b.entries[id]
	return e, ok
}

// EntryIDs returns the registered ids in registration order. The returned
// slice is shared; callers must not modify it.
func (b *Builder) EntryIDs() []string { return b.order }

// Children returns the ids of an entry's children in registration order.
func (b *Builder) Children(id string) []string { return b.families[id] }

// EffectiveName returns the entry's sanitized name, falling back to the id
// when sanitation strips the raw name to nothing.
func (b *Builder) EffectiveName(id string) string {
	entry, ok := b.entries[id]
	if !ok {
		return id
	}
	return SanitizeName(entry.RawName(), id)
}

// RelativePath returns the entry's path inside the container: its effective
// name prefixed by each ancestor's path contribution, root to leaf.
func (b *Builder) RelativePath(id string) (string, error) {
	entry, ok := b.entries[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDanglingParent, id)
	}

	path := b.EffectiveName(id)
	err := b.walkAncestors(id, entry, func(ancestor Entry) {
		path = ancestor.AddAsParentPath(path)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Validate checks the tree invariants for every registered entry: each parent
// reference resolves within the session and no entry is its own ancestor.
func (b *Builder) Validate() error {
	for _, id := range b.order {
		if err := b.walkAncestors(id, b.entries[id], nil); err != nil {
			return err
		}
	}
	return nil
}

// walkAncestors visits each ancestor of the entry from nearest to root,
// detecting dangling references and cycles.
func (b *Builder) walkAncestors(id string, entry Entry, visit func(Entry)) error {
	seen := map[string]bool{id: true}
	current := entry
	for current.Parent() != "" {
		parentID := current.Parent()
		if seen[parentID] {
			return fmt.Errorf("%w: %s", ErrCyclicParent, parentID)
		}
		seen[parentID] = true

		parent, ok := b.entries[parentID]
		if !ok {
			return fmt.Errorf("%w: %s (child of %s)", ErrDanglingParent, parentID, id)
		}
		if visit != nil {
			visit(parent)
		}
		current = parent
	}
	return nil
}
