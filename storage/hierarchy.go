package storage

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
)

// Node is a location in a storage hierarchy: either a group or an array.
// The root of a hierarchy is the node with the empty path.
type Node struct {
	store KeyValue
	path  string
}

func (n Node) Store() KeyValue {
	return n.store
}

// Path returns the slash-separated hierarchy path of this node.  The root
// node has path "".
func (n Node) Path() string {
	return n.path
}

// nodeKey forms the storage key for a metadata document or chunk beneath
// this node.
func (n Node) nodeKey(name string) string {
	if n.path == "" {
		return name
	}
	return n.path + "/" + name
}

// ReadAttrs returns the node's attribute document, or nil if absent.
func (n Node) ReadAttrs() (json.RawMessage, error) {
	data, err := n.store.Get(n.nodeKey(attrsKey))
	if err == ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// WriteAttrs replaces the node's attribute document.
func (n Node) WriteAttrs(attrs json.RawMessage) error {
	return n.store.Put(n.nodeKey(attrsKey), attrs)
}

// Parent returns the group one level up the hierarchy, or
// ngff.ErrHierarchyRoot when called on the root node.  The parent handle is
// returned even if no group metadata was persisted for it, since an upward
// walk must tolerate ancestors that were never explicitly created.
func (n Node) Parent() (*Group, error) {
	if n.path == "" {
		return nil, ngff.ErrHierarchyRoot
	}
	parentPath := path.Dir(n.path)
	if parentPath == "." || parentPath == "/" {
		parentPath = ""
	}
	return &Group{Node{store: n.store, path: parentPath}}, nil
}

// Ancestors returns an iterator over this node's ancestors, nearest first,
// ending at the hierarchy root.
func (n Node) Ancestors() *AncestorIter {
	return &AncestorIter{current: n}
}

// AncestorIter produces ancestor groups lazily, nearest first.  The
// iteration is bounded by the hierarchy root, so consuming loops terminate
// without recursion.
type AncestorIter struct {
	current Node
	done    bool
}

// Next returns the next ancestor, or false when the walk has passed the
// hierarchy root.
func (it *AncestorIter) Next() (*Group, bool) {
	if it.done {
		return nil, false
	}
	parent, err := it.current.Parent()
	if err != nil {
		it.done = true
		return nil, false
	}
	it.current = parent.Node
	if parent.path == "" {
		it.done = true
	}
	return parent, true
}

// Group is a hierarchy node that can contain arrays and other groups.
type Group struct {
	Node
}

// CreateGroup persists a group node at the given path, creating implicit
// parent groups up to the root.
func CreateGroup(store KeyValue, groupPath string) (*Group, error) {
	groupPath = normalizePath(groupPath)
	meta, err := json.Marshal(map[string]int{"zarr_format": zarrFormat})
	if err != nil {
		return nil, err
	}
	for p := groupPath; ; p = parentPath(p) {
		n := Node{store: store, path: p}
		if err := store.Put(n.nodeKey(groupMetaKey), meta); err != nil {
			return nil, err
		}
		if p == "" {
			break
		}
	}
	return &Group{Node{store: store, path: groupPath}}, nil
}

// OpenGroup returns a handle to an existing group node.
func OpenGroup(store KeyValue, groupPath string) (*Group, error) {
	groupPath = normalizePath(groupPath)
	n := Node{store: store, path: groupPath}
	found, err := store.Exists(n.nodeKey(groupMetaKey))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no group exists at path %q", groupPath)
	}
	return &Group{n}, nil
}

// Array is a hierarchy node holding one chunked N-dimensional array.
type Array struct {
	Node
	meta ArrayMeta
}

// Meta returns the persisted array metadata.
func (a *Array) Meta() ArrayMeta {
	return a.meta
}

// Shape returns the array dimensions.
func (a *Array) Shape() []int {
	return a.meta.Shape
}

// DType returns the Zarr dtype string of the array elements.
func (a *Array) DType() string {
	return a.meta.DType
}

// CreateArray persists an array node with the given metadata, creating
// implicit parent groups.
func CreateArray(store KeyValue, arrayPath string, meta ArrayMeta) (*Array, error) {
	arrayPath = normalizePath(arrayPath)
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("bad metadata for array %q: %w", arrayPath, err)
	}
	if parent := parentPath(arrayPath); parent != "" {
		if _, err := CreateGroup(store, parent); err != nil {
			return nil, err
		}
	}
	n := Node{store: store, path: arrayPath}
	encoded, err := meta.encode()
	if err != nil {
		return nil, err
	}
	if err := store.Put(n.nodeKey(arrayMetaKey), encoded); err != nil {
		return nil, err
	}
	return &Array{Node: n, meta: meta}, nil
}

// OpenArray returns a handle to an existing array node.
func OpenArray(store KeyValue, arrayPath string) (*Array, error) {
	arrayPath = normalizePath(arrayPath)
	n := Node{store: store, path: arrayPath}
	data, err := store.Get(n.nodeKey(arrayMetaKey))
	if err == ErrKeyNotFound {
		return nil, fmt.Errorf("no array exists at path %q", arrayPath)
	}
	if err != nil {
		return nil, err
	}
	meta, err := decodeArrayMeta(data)
	if err != nil {
		return nil, fmt.Errorf("array at path %q: %w", arrayPath, err)
	}
	return &Array{Node: n, meta: meta}, nil
}

// RelativePath returns the path of descendant relative to ancestor, or
// false if descendant is not beneath ancestor.
func RelativePath(ancestor, descendant string) (string, bool) {
	ancestor = normalizePath(ancestor)
	descendant = normalizePath(descendant)
	if ancestor == "" {
		return descendant, descendant != ""
	}
	if !strings.HasPrefix(descendant, ancestor+"/") {
		return "", false
	}
	return descendant[len(ancestor)+1:], true
}

func normalizePath(p string) string {
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

func parentPath(p string) string {
	parent := path.Dir(p)
	if parent == "." || parent == "/" {
		return ""
	}
	return parent
}
