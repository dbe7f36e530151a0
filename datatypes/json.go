package datatypes

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/caseforge/nli/edrm"
)

// MIME types for the JSON file entry and its structural variants.
const (
	JSONMimeType       = "application/json"
	JSONValueMimeType  = "application/x-json-value"
	JSONArrayMimeType  = "application/x-json-array"
	JSONObjectMimeType = "application/x-json-object"
)

// Display names for the entry generated from the document root.
const (
	jsonRootObjectName = "JSON Object"
	jsonRootArrayName  = "JSON Array"
	jsonRootValueName  = "JSON Value"
	jsonRootValueKey   = "Value"
)

// Generator strategies for the structural variants, mirroring RowGenerator
// for CSV rows. Each receives the entry's display name, its scalar content,
// and the id of its parent in the tree.
type (
	ValueGenerator  func(name, key string, value any, parentID string) (edrm.Entry, error)
	ArrayGenerator  func(name string, scalars *edrm.Mapping, parentID string) (edrm.Entry, error)
	ObjectGenerator func(name string, scalars *edrm.Mapping, parentID string) (edrm.Entry, error)
)

// JSONValueEntry represents a scalar JSON document: a single field holding
// the scalar, with the scalar's string form as text.
type JSONValueEntry struct {
	*edrm.MappingEntry
	key string
}

// NewJSONValueEntry creates a scalar entry holding value under key.
func NewJSONValueEntry(name, key string, value any, parentID string) (*JSONValueEntry, error) {
	me, err := edrm.NewNamedMappingEntry(name, edrm.NewMapping().Set(key, value), JSONValueMimeType, parentID)
	if err != nil {
		return nil, err
	}
	return &JSONValueEntry{MappingEntry: me, key: key}, nil
}

// Text returns the scalar's string form.
func (ve *JSONValueEntry) Text() (string, error) {
	v, _ := ve.Data().Get(ve.key)
	return edrm.FormatScalar(v), nil
}

// JSONArrayEntry represents a JSON array node. Scalar elements are stored as
// indexed fields ("0", "1", ...); complex elements become indexed child
// entries. The entry acts as a container for those children.
type JSONArrayEntry struct {
	*edrm.MappingEntry
}

// NewJSONArrayEntry creates an array entry over the scalar elements.
func NewJSONArrayEntry(name string, scalars *edrm.Mapping, parentID string) (*JSONArrayEntry, error) {
	me, err := edrm.NewNamedMappingEntry(name, scalars, JSONArrayMimeType, parentID)
	if err != nil {
		return nil, err
	}
	return &JSONArrayEntry{MappingEntry: me}, nil
}

// Text joins the scalar elements in document order. Nested arrays and
// objects are children, not text.
func (ae *JSONArrayEntry) Text() (string, error) {
	parts := make([]string, 0, ae.Data().Len())
	for _, key := range ae.Data().Keys() {
		v, _ := ae.Data().Get(key)
		parts = append(parts, edrm.FormatScalar(v))
	}
	return strings.Join(parts, ", "), nil
}

// AddAsParentPath prepends the array's effective name for its child entries.
func (ae *JSONArrayEntry) AddAsParentPath(existing string) string {
	return edrm.SanitizeName(ae.RawName(), ae.RawName()) + "/" + existing
}

// JSONObjectEntry represents a JSON object node. Scalar members are stored as
// fields named by their keys; complex members become named child entries.
type JSONObjectEntry struct {
	*edrm.MappingEntry
}

// NewJSONObjectEntry creates an object entry over the scalar members.
func NewJSONObjectEntry(name string, scalars *edrm.Mapping, parentID string) (*JSONObjectEntry, error) {
	me, err := edrm.NewNamedMappingEntry(name, scalars, JSONObjectMimeType, parentID)
	if err != nil {
		return nil, err
	}
	return &JSONObjectEntry{MappingEntry: me}, nil
}

// AddAsParentPath prepends the object's effective name for its child entries.
func (oe *JSONObjectEntry) AddAsParentPath(existing string) string {
	return edrm.SanitizeName(oe.RawName(), oe.RawName()) + "/" + existing
}

// JSONOption configures a JSONFileEntry.
type JSONOption func(*JSONFileEntry)

// WithValueGenerator replaces the entry generator for scalar nodes.
func WithValueGenerator(gen ValueGenerator) JSONOption {
	return func(je *JSONFileEntry) { je.valueGen = gen }
}

// WithArrayGenerator replaces the entry generator for array nodes.
func WithArrayGenerator(gen ArrayGenerator) JSONOption {
	return func(je *JSONFileEntry) { je.arrayGen = gen }
}

// WithObjectGenerator replaces the entry generator for object nodes.
func WithObjectGenerator(gen ObjectGenerator) JSONOption {
	return func(je *JSONFileEntry) { je.objectGen = gen }
}

// JSONFileEntry represents a JSON document that expands into a subtree of
// structural entries. The document is parsed at construction; expansion
// happens when the entry is added to a builder.
type JSONFileEntry struct {
	*edrm.FileEntry
	root      gjson.Result
	valueGen  ValueGenerator
	arrayGen  ArrayGenerator
	objectGen ObjectGenerator
}

// NewJSONFileEntry creates an entry for the JSON document at path. A document
// that is not valid JSON fails with ErrMalformedSource. parentID may be ""
// for a top-level file.
func NewJSONFileEntry(path, parentID string, opts ...JSONOption) (*JSONFileEntry, error) {
	fe, err := edrm.NewFileEntry(path, JSONMimeType, parentID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(fe.NativePath())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: %s: invalid JSON", edrm.ErrMalformedSource, path)
	}

	je := &JSONFileEntry{
		FileEntry: fe,
		root:      gjson.ParseBytes(raw),
		valueGen: func(name, key string, value any, parentID string) (edrm.Entry, error) {
			return NewJSONValueEntry(name, key, value, parentID)
		},
		arrayGen: func(name string, scalars *edrm.Mapping, parentID string) (edrm.Entry, error) {
			return NewJSONArrayEntry(name, scalars, parentID)
		},
		objectGen: func(name string, scalars *edrm.Mapping, parentID string) (edrm.Entry, error) {
			return NewJSONObjectEntry(name, scalars, parentID)
		},
	}
	for _, opt := range opts {
		opt(je)
	}
	return je, nil
}

// AddAsParentPath prepends the file's effective name: the decomposed subtree
// lives under a directory named after the document.
func (je *JSONFileEntry) AddAsParentPath(existing string) string {
	return edrm.SanitizeName(je.RawName(), je.RawName()) + "/" + existing
}

// jsonTask is one pending node in the expansion walk.
type jsonTask struct {
	name     string
	node     gjson.Result
	parentID string
}

// AddToBuilder registers the file entry and expands the document into
// structural entries, parents before children, preserving document order.
//
// The walk uses an explicit stack instead of recursion, so the depth it can
// handle is bounded by memory rather than call-stack frames.
func (je *JSONFileEntry) AddToBuilder(b *edrm.Builder) (string, error) {
	id, err := b.AddEntry(je)
	if err != nil {
		return "", err
	}

	rootName := jsonRootValueName
	switch {
	case je.root.IsObject():
		rootName = jsonRootObjectName
	case je.root.IsArray():
		rootName = jsonRootArrayName
	}

	stack := []jsonTask{{name: rootName, node: je.root, parentID: id}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := je.expandNode(b, task)
		if err != nil {
			return "", err
		}
		// Reverse push so children pop in document order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return id, nil
}

// expandNode registers the entry for one node and returns the tasks for its
// complex members.
func (je *JSONFileEntry) expandNode(b *edrm.Builder, task jsonTask) ([]jsonTask, error) {
	if !task.node.IsObject() && !task.node.IsArray() {
		entry, err := je.valueGen(task.name, jsonRootValueKey, scalarValue(task.node), task.parentID)
		if err != nil {
			return nil, err
		}
		_, err = b.AddEntry(entry)
		return nil, err
	}

	scalars := edrm.NewMapping()
	type member struct {
		name string
		node gjson.Result
	}
	var complexMembers []member

	index := 0
	task.node.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if task.node.IsArray() {
			name = strconv.Itoa(index)
			index++
		}
		if value.IsObject() || value.IsArray() {
			complexMembers = append(complexMembers, member{name: name, node: value})
		} else {
			scalars.Set(name, scalarValue(value))
		}
		return true
	})

	var entry edrm.Entry
	var err error
	if task.node.IsObject() {
		entry, err = je.objectGen(task.name, scalars, task.parentID)
	} else {
		entry, err = je.arrayGen(task.name, scalars, task.parentID)
	}
	if err != nil {
		return nil, err
	}
	id, err := b.AddEntry(entry)
	if err != nil {
		return nil, err
	}

	tasks := make([]jsonTask, len(complexMembers))
	for i, m := range complexMembers {
		tasks[i] = jsonTask{name: m.name, node: m.node, parentID: id}
	}
	return tasks, nil
}

// scalarValue converts a scalar JSON node to its Go value: string, int64 or
// float64, bool, or nil.
func scalarValue(r gjson.Result) any {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			return r.Int()
		}
		return r.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}
