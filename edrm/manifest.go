package edrm

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Build assembles the EDRM XML 1.2 load file for the registered entries. The
// tree invariants are validated before any element is emitted; a dangling or
// cyclic parent reference fails the whole build.
//
// The resulting document declares conformance to the EDRM XML 1.2 layout.
// Well-formedness and nesting are guaranteed here; schema conformance beyond
// that is a contract with the consuming tooling.
func (b *Builder) Build() (*etree.Document, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.log().Info("building load file", "entries", len(b.order))

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("Root")
	root.CreateAttr("MajorVersion", "1")
	root.CreateAttr("MinorVersion", "2")
	root.CreateAttr("Description", "EDRM XML Load File")
	root.CreateAttr("Locale", "US")
	root.CreateAttr("DataInterchangeType", "Update")

	b.appendFieldDefinitions(root.CreateElement("Fields"))

	batch := root.CreateElement("Batch")
	documents := batch.CreateElement("Documents")
	for _, id := range b.order {
		if err := b.appendDocument(documents, id); err != nil {
			return nil, err
		}
	}

	b.appendRelationships(batch.CreateElement("Relationships"))
	b.appendFolders(batch.CreateElement("Folders"))

	doc.Indent(2)
	return doc, nil
}

// Save builds the load file and writes it to path.
func (b *Builder) Save(path string) error {
	doc, err := b.Build()
	if err != nil {
		return err
	}
	b.log().Info("saving load file", "path", path)
	return doc.WriteToFile(path)
}

// appendFieldDefinitions emits one definition per distinct field name,
// linking the display name to the key elements that carry its values.
func (b *Builder) appendFieldDefinitions(fieldList *etree.Element) {
	seen := make(map[string]bool)
	for _, id := range b.order {
		fields := b.entries[id].Fields()
		for _, name := range fields.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true

			f, _ := fields.Get(name)
			el := fieldList.CreateElement("Field")
			el.CreateAttr("Name", f.Name())
			el.CreateAttr("DataType", string(f.Type()))
			el.CreateAttr("Key", f.Key())
		}
	}
}

func (b *Builder) appendDocument(container *etree.Element, id string) error {
	entry := b.entries[id]
	b.log().Debug("serializing document", "id", id, "name", entry.RawName())

	docEl := container.CreateElement("Document")
	docEl.CreateAttr("DocID", id)
	docEl.CreateAttr("DocType", "File")
	docEl.CreateAttr("MimeType", entry.MimeType())

	values := docEl.CreateElement("FieldValues")
	fields := entry.Fields()
	for _, name := range fields.Names() {
		f, _ := fields.Get(name)
		values.CreateElement(f.Key()).SetText(f.RenderValue())
	}

	text, err := entry.Text()
	if err != nil {
		return fmt.Errorf("text for entry %s: %w", id, err)
	}

	if err := b.appendFiles(docEl, id, entry, text); err != nil {
		return err
	}
	return b.appendLocation(docEl, id, entry, text)
}

// appendFiles emits the Files collection locating the entry's native bytes.
// Folder entries have no native; mapping-derived entries have one only in
// container mode, where their text is materialized under natives/.
func (b *Builder) appendFiles(docEl *etree.Element, id string, entry Entry, text string) error {
	native, isNative := entry.(NativeProvider)
	if !isNative {
		if text == "" {
			return nil
		}
		if !b.containerPaths {
			docEl.CreateElement("InlineContent").SetText(sanitizeXMLContent(text))
			return nil
		}

		fileEl := docEl.CreateElement("Files").CreateElement("File")
		fileEl.CreateAttr("FileType", "Native")
		external := fileEl.CreateElement("ExternalFile")
		external.CreateAttr("FilePath", GeneratedNativeDir)
		external.CreateAttr("FileName", id)
		return nil
	}

	fileEl := docEl.CreateElement("Files").CreateElement("File")
	fileEl.CreateAttr("FileType", "Native")
	external := fileEl.CreateElement("ExternalFile")

	if b.containerPaths {
		rel, err := b.RelativePath(id)
		if err != nil {
			return err
		}
		dir := path.Dir(rel)
		if dir == "." {
			dir = ""
		}
		external.CreateAttr("FilePath", dir)
		external.CreateAttr("FileName", path.Base(rel))
	} else {
		external.CreateAttr("FilePath", native.NativePath())
		external.CreateAttr("FileName", filepath.Base(native.NativePath()))
	}

	md5sum, err := native.NativeHash()
	if err != nil {
		return fmt.Errorf("native hash for entry %s: %w", id, err)
	}
	external.CreateAttr("Hash", md5sum)
	external.CreateAttr("HashType", "MD5")
	return nil
}

// appendLocation emits the Locations collection. Every entry carries a
// custodian; the LocationURI places the entry's payload, when it has one, in
// the final case.
func (b *Builder) appendLocation(docEl *etree.Element, id string, entry Entry, text string) error {
	location := docEl.CreateElement("Locations").CreateElement("Location")
	location.CreateElement("Custodian").SetText(b.custodian)

	description := "Location on Disk"
	if b.containerPaths {
		description = "Location within the container"
	}
	location.CreateElement("Description").SetText(description)

	uri, err := b.locationURI(id, entry, text)
	if err != nil {
		return err
	}
	if uri != "" {
		location.CreateElement("LocationURI").SetText(uri)
	}
	return nil
}

func (b *Builder) locationURI(id string, entry Entry, text string) (string, error) {
	_, isNative := entry.(NativeProvider)
	_, isDir := entry.(*DirectoryEntry)

	if b.containerPaths {
		switch {
		case isNative, isDir:
			rel, err := b.RelativePath(id)
			if err != nil {
				return "", err
			}
			return quotePlus(rel), nil
		case text != "":
			return GeneratedNativeDir + "/" + id, nil
		}
		return "", nil
	}

	if native, ok := entry.(NativeProvider); ok {
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(native.NativePath())}
		return u.String(), nil
	}
	return "", nil
}

// appendRelationships emits one Container relationship per parent/child
// pair, in registration order.
func (b *Builder) appendRelationships(relList *etree.Element) {
	for _, parentID := range b.order {
		for _, childID := range b.families[parentID] {
			rel := relList.CreateElement("Relationship")
			rel.CreateAttr("Type", "Container")
			rel.CreateAttr("ParentDocId", parentID)
			rel.CreateAttr("ChildDocId", childID)
		}
	}
}

// appendFolders emits the family folder structure: each entry with children
// becomes a folder holding its descendants.
func (b *Builder) appendFolders(folderList *etree.Element) {
	remaining := make(map[string][]string, len(b.families))
	for id, family := range b.families {
		remaining[id] = family
	}
	for _, id := range b.order {
		if _, ok := remaining[id]; ok {
			b.appendFolder(folderList, id, remaining)
		}
	}
}

func (b *Builder) appendFolder(container *etree.Element, id string, remaining map[string][]string) {
	if b.entries[id].Parent() != "" {
		container.CreateElement("Document").CreateAttr("DocId", id)
	}

	family, ok := remaining[id]
	if !ok {
		return
	}
	delete(remaining, id)
	if len(family) == 0 {
		return
	}

	folder := container.CreateElement("Folder")
	folder.CreateAttr("FolderName", id)
	for _, childID := range family {
		b.appendFolder(folder, childID, remaining)
	}
}

// quotePlus escapes a container path for use as a LocationURI, keeping the
// path separators.
func quotePlus(p string) string {
	return strings.ReplaceAll(url.QueryEscape(p), "%2F", "/")
}

// GeneratedNativeDir is the container directory holding the generated text
// artifacts of mapping-derived entries. Artifacts are named by entry id since
// mapping names collide far more often than file names.
const GeneratedNativeDir = "natives"
