package edrm

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caseforge/nli/edrm/internal/platform"
)

// DirectoryMimeType marks folder entries in the load file.
const DirectoryMimeType = "filesystem/directory"

// DirectoryEntry represents one folder level in the case structure. It has no
// native bytes; its purpose is to parent other entries, and it contributes
// its own name to the container path of every descendant.
//
// The argument may name a real directory on disk, in which case stat metadata
// and a digest over the directory contents are recorded, or it may be a bare
// label for a folder that exists only in the case structure. Nested folders
// are added one level at a time, each child using its parent's id.
type DirectoryEntry struct {
	Base
	name     string
	path     string
	itemDate time.Time
}

// NewDirectoryEntry creates a folder entry. parentID may be "" for a
// top-level folder.
func NewDirectoryEntry(nameOrPath, parentID string) (*DirectoryEntry, error) {
	de := &DirectoryEntry{Base: NewBase(parentID), name: filepath.Base(nameOrPath)}

	var digest string
	if info, err := os.Stat(nameOrPath); err == nil && info.IsDir() {
		abs, err := filepath.Abs(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", nameOrPath, err)
		}
		de.path = abs
		if changed, ok := platform.ChangeTime(info); ok {
			de.itemDate = changed
		} else {
			de.itemDate = info.ModTime()
		}
		digest, err = HashDirectory(abs, sha1.New())
		if err != nil {
			return nil, err
		}
	} else {
		de.itemDate = time.Now()
		digest = HashData(de.name, sha1.New())
	}

	for _, def := range []struct {
		name  string
		typ   FieldType
		value any
	}{
		{FieldMIMEType, TypeText, DirectoryMimeType},
		{FieldItemDate, TypeDateTime, de.itemDate},
		{FieldName, TypeText, de.name},
		{FieldSHA1, TypeText, digest},
	} {
		f, err := GenerateField(def.name, def.typ, def.value)
		if err != nil {
			return nil, err
		}
		de.Fields().Set(f)
	}
	return de, nil
}

// RawName returns the folder label.
func (de *DirectoryEntry) RawName() string { return de.name }

// IdentifierField names the content digest as the natural key.
func (de *DirectoryEntry) IdentifierField() string { return FieldSHA1 }

// ItemDate returns the directory change time, or the creation time of the
// entry for label-only folders.
func (de *DirectoryEntry) ItemDate() (time.Time, error) { return de.itemDate, nil }

// DirectoryPath returns the backing directory on disk, or "" for label-only
// folders.
func (de *DirectoryEntry) DirectoryPath() string { return de.path }

// AddAsParentPath prepends the folder's effective name: descendants live
// under this folder in the container.
func (de *DirectoryEntry) AddAsParentPath(existing string) string {
	return SanitizeName(de.name, de.name) + "/" + existing
}
