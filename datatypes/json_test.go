package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseforge/nli/edrm"
)

func TestJSONScalarDocument(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "value.json", `"hello"`)

	je, err := NewJSONFileEntry(path, "")
	require.NoError(t, err)

	b := edrm.NewBuilder()
	fileID, err := je.AddToBuilder(b)
	require.NoError(t, err)
	require.Len(t, b.EntryIDs(), 2)

	child, ok := b.Entry(b.EntryIDs()[1])
	require.True(t, ok)
	assert.Equal(t, fileID, child.Parent())
	assert.Equal(t, "JSON Value", child.RawName())

	valueField, ok := child.Fields().Get("Value")
	require.True(t, ok)
	assert.Equal(t, "hello", valueField.Value())

	text, err := child.Text()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestJSONArrayDecomposition(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "array.json", `[1, "x", [2, 3]]`)

	je, err := NewJSONFileEntry(path, "")
	require.NoError(t, err)

	b := edrm.NewBuilder()
	fileID, err := je.AddToBuilder(b)
	require.NoError(t, err)
	require.Len(t, b.EntryIDs(), 3, "file, root array, one nested array")

	rootID := b.EntryIDs()[1]
	root, ok := b.Entry(rootID)
	require.True(t, ok)
	assert.Equal(t, fileID, root.Parent())
	assert.Equal(t, "JSON Array", root.RawName())

	// Scalar elements become indexed fields; the nested array does not.
	zero, ok := root.Fields().Get("0")
	require.True(t, ok)
	assert.Equal(t, "1", zero.RenderValue())
	one, ok := root.Fields().Get("1")
	require.True(t, ok)
	assert.Equal(t, "x", one.Value())
	_, ok = root.Fields().Get("2")
	assert.False(t, ok)

	text, err := root.Text()
	require.NoError(t, err)
	assert.Equal(t, "1, x", text)

	nested, ok := b.Entry(b.EntryIDs()[2])
	require.True(t, ok)
	assert.Equal(t, rootID, nested.Parent())
	assert.Equal(t, "2", nested.RawName(), "nested entry named by its index")

	nestedText, err := nested.Text()
	require.NoError(t, err)
	assert.Equal(t, "2, 3", nestedText)
}

func TestJSONObjectDecomposition(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "object.json",
		`{"zeta": 1, "alpha": "two", "inner": {"flag": true}, "list": ["a", "b"]}`)

	je, err := NewJSONFileEntry(path, "")
	require.NoError(t, err)

	b := edrm.NewBuilder()
	fileID, err := je.AddToBuilder(b)
	require.NoError(t, err)
	require.Len(t, b.EntryIDs(), 4, "file, object, inner object, list")

	rootID := b.EntryIDs()[1]
	root, ok := b.Entry(rootID)
	require.True(t, ok)
	assert.Equal(t, fileID, root.Parent())
	assert.Equal(t, "JSON Object", root.RawName())

	// Scalar members in document order, complex members absent.
	names := root.Fields().Names()
	assert.Equal(t, []string{"zeta", "alpha"}, names[:2])
	_, ok = root.Fields().Get("inner")
	assert.False(t, ok)

	inner, ok := b.Entry(b.EntryIDs()[2])
	require.True(t, ok)
	assert.Equal(t, "inner", inner.RawName())
	assert.Equal(t, rootID, inner.Parent())
	flag, ok := inner.Fields().Get("flag")
	require.True(t, ok)
	assert.Equal(t, true, flag.Value())

	list, ok := b.Entry(b.EntryIDs()[3])
	require.True(t, ok)
	assert.Equal(t, "list", list.RawName())
	assert.Equal(t, rootID, list.Parent())
	listText, err := list.Text()
	require.NoError(t, err)
	assert.Equal(t, "a, b", listText)
}

func TestJSONObjectFieldOrderRoundTrip(t *testing.T) {
	// Scalar-only object: the emitted field set must reconstruct the source
	// pairs, order included.
	path := writeTestFile(t, t.TempDir(), "flat.json",
		`{"b": "2", "a": "1", "c": "3"}`)

	je, err := NewJSONFileEntry(path, "")
	require.NoError(t, err)

	b := edrm.NewBuilder()
	_, err = je.AddToBuilder(b)
	require.NoError(t, err)

	obj, ok := b.Entry(b.EntryIDs()[1])
	require.True(t, ok)

	var got []string
	for _, name := range obj.Fields().Names()[:3] {
		f, _ := obj.Fields().Get(name)
		got = append(got, name+"="+f.RenderValue())
	}
	assert.Equal(t, []string{"b=2", "a=1", "c=3"}, got)
}

func TestJSONDeepNestingUsesBoundedStack(t *testing.T) {
	// Deep enough to blow a call stack under naive recursion.
	depth := 2_000
	doc := make([]byte, 0, depth*2)
	for i := 0; i < depth; i++ {
		doc = append(doc, '[')
	}
	for i := 0; i < depth; i++ {
		doc = append(doc, ']')
	}
	path := writeTestFile(t, t.TempDir(), "deep.json", string(doc))

	je, err := NewJSONFileEntry(path, "")
	require.NoError(t, err)

	b := edrm.NewBuilder()
	_, err = je.AddToBuilder(b)
	require.NoError(t, err)
	assert.Len(t, b.EntryIDs(), depth+1)
}

func TestJSONCustomGenerators(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "gen.json", `{"inner": {"a": 1}}`)

	var objectNames []string
	je, err := NewJSONFileEntry(path, "",
		WithObjectGenerator(func(name string, scalars *edrm.Mapping, parentID string) (edrm.Entry, error) {
			objectNames = append(objectNames, name)
			return NewJSONObjectEntry(name, scalars, parentID)
		}))
	require.NoError(t, err)

	b := edrm.NewBuilder()
	_, err = je.AddToBuilder(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"JSON Object", "inner"}, objectNames)
}

func TestJSONMalformedSource(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "bad.json", `{"a":`)

	_, err := NewJSONFileEntry(path, "")
	require.ErrorIs(t, err, edrm.ErrMalformedSource)
}

func TestJSONParentPath(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "doc.json", `{"a": 1}`)

	je, err := NewJSONFileEntry(path, "")
	require.NoError(t, err)
	assert.Equal(t, "doc.json/x", je.AddAsParentPath("x"))
}
