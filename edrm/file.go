package edrm

import (
	"crypto/md5"
	"crypto/sha1"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caseforge/nli/edrm/internal/platform"
)

// defaultOwner is used when the platform cannot resolve a file's owner.
const defaultOwner = "Undefined"

// FileEntry represents a document backed by a real file on disk. It is the
// default entry type for actual source evidence: its bytes are staged into
// the container and its stat metadata becomes standard fields.
//
// A FileEntry is not a container and has no children of its own. Variants
// that expand a file into a subtree (CSV, JSON) embed FileEntry and override
// AddAsParentPath.
type FileEntry struct {
	Base
	path     string
	itemDate time.Time
}

// NewFileEntry creates an entry for the file at path. The path is resolved to
// an absolute path and the file is stat'ed and digested immediately; a
// missing or unreadable file fails here, not at save time. parentID may be ""
// for a top-level document.
func NewFileEntry(path, mimeType, parentID string) (*FileEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}

	fe := &FileEntry{Base: NewBase(parentID), path: abs}
	if err := fe.fillBasicFields(info, mimeType); err != nil {
		return nil, err
	}
	return fe, nil
}

// fillBasicFields populates the standard metadata fields from stat data.
func (fe *FileEntry) fillBasicFields(info fs.FileInfo, mimeType string) error {
	changed, ok := platform.ChangeTime(info)
	if !ok {
		changed = info.ModTime()
	}
	accessed, ok := platform.AccessTime(info)
	if !ok {
		accessed = info.ModTime()
	}
	created, ok := platform.BirthTime(info)
	if !ok {
		created = changed
	}
	owner, ok := platform.Owner(info)
	if !ok {
		owner = defaultOwner
	}
	fe.itemDate = changed

	sha, err := fe.contentDigest()
	if err != nil {
		return err
	}

	for _, def := range []struct {
		name  string
		typ   FieldType
		value any
	}{
		{FieldMIMEType, TypeText, mimeType},
		{FieldItemDate, TypeDateTime, fe.itemDate},
		{FieldPathName, TypeText, fe.path},
		{FieldFileAccessed, TypeDateTime, accessed},
		{FieldFileCreated, TypeDateTime, created},
		{FieldFileModified, TypeDateTime, info.ModTime()},
		{FieldFileOwner, TypeText, owner},
		{FieldName, TypeText, filepath.Base(fe.path)},
		{FieldSHA1, TypeText, sha},
		{FieldFileSize, TypeInteger, info.Size()},
	} {
		f, err := GenerateField(def.name, def.typ, def.value)
		if err != nil {
			return err
		}
		fe.Fields().Set(f)
	}
	return nil
}

// contentDigest returns the SHA-1 of the native bytes. DirectoryEntry swaps
// this out for a digest over directory contents.
func (fe *FileEntry) contentDigest() (string, error) {
	return HashFile(fe.path, sha1.New())
}

// NativePath returns the absolute path of the source file.
func (fe *FileEntry) NativePath() string { return fe.path }

// NativeHash returns the MD5 of the native bytes for the external-file
// record.
func (fe *FileEntry) NativeHash() (string, error) {
	return HashFile(fe.path, md5.New())
}

// RawName returns the file's base name.
func (fe *FileEntry) RawName() string { return filepath.Base(fe.path) }

// IdentifierField names the content digest as the natural key.
func (fe *FileEntry) IdentifierField() string { return FieldSHA1 }

// ItemDate returns the file's change time.
func (fe *FileEntry) ItemDate() (time.Time, error) { return fe.itemDate, nil }
