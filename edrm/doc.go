// Package edrm builds EDRM XML 1.2 load files from a tree of evidence
// entries.
//
// An entry is one node in the case hierarchy: a file on disk ([FileEntry]),
// a folder level ([DirectoryEntry]), or a record of key/value data
// ([MappingEntry]). Entries are registered with a [Builder], which assigns
// each a session-unique id, links it to its parent, and serializes the whole
// tree into the load file:
//
//	b := edrm.NewBuilder()
//	folderID, err := b.AddDirectory("Evidence", "")
//	if err != nil {
//	    return err
//	}
//	_, err = b.AddFile("/cases/0142/report.pdf", "application/pdf", folderID)
//	if err != nil {
//	    return err
//	}
//	err = b.Save("loadfile.xml")
//
// Custom sources implement [Entry], usually by embedding one of the variants
// and overriding the name, text, or item-date derivations. Sources that
// expand into whole subtrees implement [Composite]; the datatypes package
// provides CSV and JSON composites.
//
// A Builder is single-threaded: registration, validation, and serialization
// are sequential phases over one in-memory tree.
package edrm
