// Package nli assembles portable evidence containers: a zip archive holding
// an EDRM XML 1.2 load file plus the native files for every entry in the case
// hierarchy.
//
// A [Generator] collects entries (plain files, folder levels, key/value
// records, and composite CSV/JSON sources) and packages them in one shot:
//
//	g := nli.New()
//	folderID, err := g.AddDirectory("Evidence", "")
//	if err != nil {
//	    return err
//	}
//	_, err = g.AddFile("/cases/0142/report.pdf", "application/pdf", folderID)
//	if err != nil {
//	    return err
//	}
//	err = g.Save("/cases/0142/evidence.nli")
//
// The container mirrors the entry hierarchy: each folder entry is a
// directory, file entries keep their bytes at the hierarchy's path, and
// mapping entries are materialized as generated text artifacts. The load
// file describing all of it lives under ._metadata/ together with container
// properties and a digest sidecar.
//
// Save is all-or-nothing: the archive is staged and written to a temporary
// file first, and the destination is only created once the whole container
// has been assembled.
//
// The low-level entry model and load-file builder live in the edrm
// subpackage; CSV and JSON decomposition in datatypes.
package nli
