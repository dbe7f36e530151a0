package edrm

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func TestAddEntryAssignsUniqueIDs(t *testing.T) {
	b := NewBuilder()
	idPattern := regexp.MustCompile(`^[0-9a-f]{40}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		// Identical name and parent on purpose: only the sequence number
		// distinguishes them.
		id, err := b.AddMapping(NewMapping().Set("a", "1"), "application/x-record", "")
		require.NoError(t, err)
		assert.Regexp(t, idPattern, id)
		assert.False(t, seen[id], "id %s assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, b.EntryIDs(), 50)
}

func TestRegistrationOrderPreserved(t *testing.T) {
	b := NewBuilder()

	first, err := b.AddMapping(NewMapping().Set("n", "1"), "application/x-record", "")
	require.NoError(t, err)
	second, err := b.AddMapping(NewMapping().Set("n", "2"), "application/x-record", first)
	require.NoError(t, err)
	third, err := b.AddMapping(NewMapping().Set("n", "3"), "application/x-record", first)
	require.NoError(t, err)

	assert.Equal(t, []string{first, second, third}, b.EntryIDs())
	assert.Equal(t, []string{second, third}, b.Children(first))
}

func TestValidateDanglingParent(t *testing.T) {
	b := NewBuilder()
	_, err := b.AddMapping(NewMapping().Set("a", "1"), "application/x-record", "no-such-id")
	require.NoError(t, err, "registration itself accepts forward references")

	_, err = b.Build()
	require.ErrorIs(t, err, ErrDanglingParent)
}

func TestValidateCyclicParent(t *testing.T) {
	b := NewBuilder()

	first, err := NewMappingEntry(NewMapping().Set("a", "1"), "application/x-record", "")
	require.NoError(t, err)
	firstID, err := b.AddEntry(first)
	require.NoError(t, err)

	second, err := NewMappingEntry(NewMapping().Set("b", "2"), "application/x-record", firstID)
	require.NoError(t, err)
	secondID, err := b.AddEntry(second)
	require.NoError(t, err)

	// Mutating topology after registration is exactly what validation
	// guards against.
	first.parent = secondID

	_, err = b.Build()
	require.ErrorIs(t, err, ErrCyclicParent)
}

func TestValidateSelfReference(t *testing.T) {
	b := NewBuilder()
	entry, err := NewMappingEntry(NewMapping().Set("a", "1"), "application/x-record", "")
	require.NoError(t, err)
	id, err := b.AddEntry(entry)
	require.NoError(t, err)

	entry.parent = id

	_, err = b.Build()
	require.ErrorIs(t, err, ErrCyclicParent)
}

func TestRelativePath(t *testing.T) {
	dir := t.TempDir()
	doc := writeTestFile(t, dir, "doc.txt", "evidence")

	b := NewBuilder(WithContainerPaths(true))
	mainID, err := b.AddDirectory("Main", "")
	require.NoError(t, err)
	subID, err := b.AddDirectory("Sub", mainID)
	require.NoError(t, err)
	fileID, err := b.AddFile(doc, "text/plain", subID)
	require.NoError(t, err)

	path, err := b.RelativePath(fileID)
	require.NoError(t, err)
	assert.Equal(t, "Main/Sub/doc.txt", path)
}

func TestEffectiveNameFallsBackToID(t *testing.T) {
	b := NewBuilder()
	me, err := NewNamedMappingEntry(". .", NewMapping().Set("a", "1"), "application/x-record", "")
	require.NoError(t, err)
	id, err := b.AddEntry(me)
	require.NoError(t, err)

	assert.Equal(t, id, b.EffectiveName(id))
}

func TestBuildManifestShape(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestFile(t, dir, "doc.txt", "hello")

	b := NewBuilder(WithContainerPaths(true), WithCustodian("examiner-1"))
	folderID, err := b.AddDirectory("Evidence", "")
	require.NoError(t, err)
	fileID, err := b.AddFile(docPath, "text/plain", folderID)
	require.NoError(t, err)
	mapID, err := b.AddMapping(NewMapping().Set("a", "1"), "application/x-record", folderID)
	require.NoError(t, err)

	doc, err := b.Build()
	require.NoError(t, err)

	root := doc.SelectElement("Root")
	require.NotNil(t, root)
	assert.Equal(t, "1", root.SelectAttrValue("MajorVersion", ""))
	assert.Equal(t, "2", root.SelectAttrValue("MinorVersion", ""))

	// One definition per distinct field name.
	defs := root.SelectElement("Fields").SelectElements("Field")
	byName := make(map[string]int)
	for _, def := range defs {
		byName[def.SelectAttrValue("Name", "")]++
		assert.NotEmpty(t, def.SelectAttrValue("Key", ""))
		assert.NotEmpty(t, def.SelectAttrValue("DataType", ""))
	}
	for name, count := range byName {
		assert.Equal(t, 1, count, "field %s defined more than once", name)
	}

	batch := root.SelectElement("Batch")
	require.NotNil(t, batch)
	docs := batch.SelectElement("Documents").SelectElements("Document")
	require.Len(t, docs, 3)
	assert.Equal(t, folderID, docs[0].SelectAttrValue("DocID", ""))
	assert.Equal(t, fileID, docs[1].SelectAttrValue("DocID", ""))
	assert.Equal(t, mapID, docs[2].SelectAttrValue("DocID", ""))

	// The file document carries an external native reference with an MD5.
	fileDoc := docs[1]
	external := fileDoc.FindElement("./Files/File/ExternalFile")
	require.NotNil(t, external)
	assert.Equal(t, "Evidence", external.SelectAttrValue("FilePath", ""))
	assert.Equal(t, "doc.txt", external.SelectAttrValue("FileName", ""))
	assert.Regexp(t, `^[0-9a-f]{32}$`, external.SelectAttrValue("Hash", ""))
	assert.Equal(t, "MD5", external.SelectAttrValue("HashType", ""))

	uri := fileDoc.FindElement("./Locations/Location/LocationURI")
	require.NotNil(t, uri)
	assert.Equal(t, "Evidence/doc.txt", uri.Text())

	custodian := fileDoc.FindElement("./Locations/Location/Custodian")
	require.NotNil(t, custodian)
	assert.Equal(t, "examiner-1", custodian.Text())

	// The mapping document points at its generated native.
	mapDoc := docs[2]
	mapExternal := mapDoc.FindElement("./Files/File/ExternalFile")
	require.NotNil(t, mapExternal)
	assert.Equal(t, GeneratedNativeDir, mapExternal.SelectAttrValue("FilePath", ""))
	assert.Equal(t, mapID, mapExternal.SelectAttrValue("FileName", ""))

	// Parent/child relationships, registration order.
	rels := batch.SelectElement("Relationships").SelectElements("Relationship")
	require.Len(t, rels, 2)
	assert.Equal(t, folderID, rels[0].SelectAttrValue("ParentDocId", ""))
	assert.Equal(t, fileID, rels[0].SelectAttrValue("ChildDocId", ""))
	assert.Equal(t, mapID, rels[1].SelectAttrValue("ChildDocId", ""))

	// The folder entry becomes a Folder with its family inside.
	folder := batch.FindElement("./Folders/Folder")
	require.NotNil(t, folder)
	assert.Equal(t, folderID, folder.SelectAttrValue("FolderName", ""))
	assert.Len(t, folder.SelectElements("Document"), 2)
}

func BenchmarkBuildManifest(b *testing.B) {
	builder := NewBuilder()
	parent := ""
	for i := 0; i < 500; i++ {
		data := NewMapping().Set("seq", int64(i)).Set("host", "ws-7")
		id, err := builder.AddMapping(data, "application/x-record", parent)
		if err != nil {
			b.Fatal(err)
		}
		if i%50 == 0 {
			parent = id
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Build(); err != nil {
			b.Fatal(err)
		}
	}
}

func TestBuildStandaloneInlinesMappingText(t *testing.T) {
	b := NewBuilder() // no container paths
	_, err := b.AddMapping(NewMapping().Set("a", "1"), "application/x-record", "")
	require.NoError(t, err)

	doc, err := b.Build()
	require.NoError(t, err)

	inline := doc.FindElement("./Root/Batch/Documents/Document/InlineContent")
	require.NotNil(t, inline)
	assert.Equal(t, "a: 1", inline.Text())
	assert.Nil(t, doc.FindElement("./Root/Batch/Documents/Document/Files"))
}
