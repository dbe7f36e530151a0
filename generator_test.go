package nli

import (
	"crypto/sha1"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/zip"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseforge/nli/datatypes"
	"github.com/caseforge/nli/edrm"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func readZipMember(t *testing.T, zr *zip.ReadCloser, name string) []byte {
	t.Helper()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return data
		}
	}
	t.Fatalf("archive member %s not found", name)
	return nil
}

func TestSaveContainer(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestFile(t, dir, "doc.txt", "hello evidence")
	dest := filepath.Join(dir, "out", "evidence.nli")

	g := New(
		WithCustodian("custodian-1"),
		WithExaminer("examiner-1"),
		WithCaseNumber("2024-117"),
		WithEvidenceNumber("E-3"),
	)

	folderID, err := g.AddDirectory("Evidence", "")
	require.NoError(t, err)
	_, err = g.AddFile(docPath, "text/plain", folderID)
	require.NoError(t, err)
	mapID, err := g.AddMapping(edrm.NewMapping().Set("host", "ws-7"), "application/x-record", folderID)
	require.NoError(t, err)

	require.NoError(t, g.Save(dest))

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["._metadata/image_contents.xml"])
	assert.True(t, names["._metadata/image_metadata.xml"])
	assert.True(t, names["._metadata/image_contents.sha1_hash"])
	assert.True(t, names["Evidence/doc.txt"])
	assert.True(t, names["natives/"+mapID])

	// The staged native carries the original bytes.
	assert.Equal(t, "hello evidence",
		string(readZipMember(t, zr, "Evidence/doc.txt")))
	assert.Contains(t,
		string(readZipMember(t, zr, "natives/"+mapID)), "host: ws-7")

	// The digest sidecar is the raw SHA-1 of the load file.
	manifest := readZipMember(t, zr, "._metadata/image_contents.xml")
	wantHash := sha1.Sum(manifest)
	assert.Equal(t, wantHash[:],
		readZipMember(t, zr, "._metadata/image_contents.sha1_hash"))

	// Save records the archive digest.
	dgst := g.Digest()
	require.NotEmpty(t, dgst)
	assert.Equal(t, digest.Canonical, dgst.Algorithm())
	archiveBytes, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, digest.FromBytes(archiveBytes), dgst)
}

func TestSaveContainerProperties(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "evidence.nli")

	g := New(WithExaminer("jordan"), WithCaseNumber("77"))
	_, err := g.AddMapping(edrm.NewMapping().Set("a", "1"), "application/x-record", "")
	require.NoError(t, err)
	require.NoError(t, g.Save(dest))

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(readZipMember(t, zr, "._metadata/image_metadata.xml")))

	props := make(map[string]string)
	for _, p := range doc.FindElements("//property") {
		props[p.SelectAttrValue("key", "")] = p.SelectAttrValue("value", "")
	}
	assert.Equal(t, "jordan", props["examiner-name"])
	assert.Equal(t, "77", props["case-number"])
	assert.Equal(t, "01", props["evidence-number"])
	assert.Equal(t, creationSoftwareName, props["creation-software-name"])
	assert.Equal(t, creationSoftwareVersion, props["creation-software-version"])
	assert.True(t, strings.HasSuffix(props["creation-datetime"], " UTC"))
}

func TestSaveAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestFile(t, dir, "gone.txt", "will vanish")
	dest := filepath.Join(dir, "evidence.nli")

	g := New()
	_, err := g.AddFile(docPath, "text/plain", "")
	require.NoError(t, err)

	// The source disappears between registration and packaging.
	require.NoError(t, os.Remove(docPath))

	err = g.Save(dest)
	require.ErrorIs(t, err, ErrPackaging)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed save must not leave a container behind")
	assert.Empty(t, g.Digest())
}

func TestSaveDanglingParent(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "evidence.nli")

	g := New()
	_, err := g.AddMapping(edrm.NewMapping().Set("a", "1"), "application/x-record", "no-such-id")
	require.NoError(t, err)

	err = g.Save(dest)
	require.ErrorIs(t, err, ErrDanglingParent)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddEntryExpandsComposites(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeTestFile(t, dir, "hosts.csv", "host,ip\nalpha,10.0.0.1\nbeta,10.0.0.2\n")
	dest := filepath.Join(dir, "evidence.nli")

	g := New()
	ce, err := datatypes.NewCSVEntry(csvPath, "", nil)
	require.NoError(t, err)
	csvID, err := g.AddEntry(ce)
	require.NoError(t, err)

	// The CSV file plus one entry per row.
	require.Len(t, g.Builder().EntryIDs(), 3)
	rows := g.Builder().Children(csvID)
	require.Len(t, rows, 2)

	require.NoError(t, g.Save(dest))

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()

	// Row artifacts render the source pairs back out.
	assert.Contains(t,
		string(readZipMember(t, zr, "natives/"+rows[0])), "host: alpha")
	assert.Contains(t,
		string(readZipMember(t, zr, "natives/"+rows[1])), "ip: 10.0.0.2")
	assert.Equal(t, "host,ip\nalpha,10.0.0.1\nbeta,10.0.0.2\n",
		string(readZipMember(t, zr, "hosts.csv")))
}
