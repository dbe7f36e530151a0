package datatypes

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/caseforge/nli/edrm"
)

// CSVMimeType is assigned to the CSV file entry itself; RowMimeType to each
// generated row entry.
const (
	CSVMimeType = "text/csv"
	RowMimeType = "application/x-database-table-row"
)

// RowGenerator produces the entry for one CSV data row. The default generator
// returns a plain CSVRowEntry; callers provide their own when rows need
// custom names, item dates, or text.
type RowGenerator func(csv *CSVEntry, index int, parentID string) (edrm.Entry, error)

// CSVEntry represents a CSV file whose rows become child entries. The whole
// file is read into memory at construction, the first record serving as the
// header. The entry acts as a container: row artifacts land under a directory
// named after the CSV in the packaged container.
type CSVEntry struct {
	*edrm.FileEntry
	header []string
	rows   [][]string
	rowGen RowGenerator
}

// NewCSVEntry creates an entry for the CSV file at path. A file that cannot
// be read or parsed fails with ErrMalformedSource. rowGen may be nil to use
// the default row entries; parentID may be "" for a top-level file.
func NewCSVEntry(path, parentID string, rowGen RowGenerator) (*CSVEntry, error) {
	fe, err := edrm.NewFileEntry(path, CSVMimeType, parentID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fe.NativePath())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", edrm.ErrMalformedSource, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: missing header row", edrm.ErrMalformedSource, path)
	}

	if rowGen == nil {
		rowGen = defaultRowGenerator
	}
	return &CSVEntry{
		FileEntry: fe,
		header:    records[0],
		rows:      records[1:],
		rowGen:    rowGen,
	}, nil
}

// Header returns the column names from the first record.
func (ce *CSVEntry) Header() []string { return ce.header }

// RowCount returns the number of data rows.
func (ce *CSVEntry) RowCount() int { return len(ce.rows) }

// Row returns the raw cells of the data row at index.
func (ce *CSVEntry) Row(index int) []string { return ce.rows[index] }

// AddAsParentPath prepends the CSV's effective name: rows and any other
// descendants live under a directory named after the file.
func (ce *CSVEntry) AddAsParentPath(existing string) string {
	return edrm.SanitizeName(ce.RawName(), ce.RawName()) + "/" + existing
}

// AddToBuilder registers the CSV entry and one row entry per data row, in row
// order, as its children.
func (ce *CSVEntry) AddToBuilder(b *edrm.Builder) (string, error) {
	id, err := b.AddEntry(ce)
	if err != nil {
		return "", err
	}
	for index := range ce.rows {
		row, err := ce.rowGen(ce, index, id)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", index, err)
		}
		if _, err := b.AddEntry(row); err != nil {
			return "", fmt.Errorf("row %d: %w", index, err)
		}
	}
	return id, nil
}

func defaultRowGenerator(ce *CSVEntry, index int, parentID string) (edrm.Entry, error) {
	return NewCSVRowEntry(ce, index, parentID)
}

// CSVRowEntry is the default entry for one CSV data row: one field per
// column, named by the header, holding the raw cell string. It exists only in
// the context of its parent CSVEntry.
type CSVRowEntry struct {
	*edrm.MappingEntry
	csv   *CSVEntry
	index int
}

// NewCSVRowEntry creates the entry for the data row at index, as a child of
// parentID.
func NewCSVRowEntry(ce *CSVEntry, index int, parentID string) (*CSVRowEntry, error) {
	data := edrm.NewMapping()
	row := ce.Row(index)
	for col, name := range ce.Header() {
		cell := ""
		if col < len(row) {
			cell = row[col]
		}
		data.Set(name, cell)
	}

	me, err := edrm.NewMappingEntry(data, RowMimeType, parentID)
	if err != nil {
		return nil, err
	}
	return &CSVRowEntry{MappingEntry: me, csv: ce, index: index}, nil
}

// CSV returns the parent CSV entry.
func (re *CSVRowEntry) CSV() *CSVEntry { return re.csv }

// Index returns the row's position among the data rows.
func (re *CSVRowEntry) Index() int { return re.index }
