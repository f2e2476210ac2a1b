package conduit

import "unsafe"

// bufferTag classifies the ownership of a leaf Node's backing bytes. See
// spec §5 "Shared-resource policy" and §9 "Ownership tri-state of buffers".
type bufferTag uint8

const (
	bufNone bufferTag = iota
	bufAlloced
	bufExternal
	bufMapped
)

// String names the buffer ownership tag, as used by info()'s mem_spaces
// "type" field (§4.3.7).
func (t bufferTag) String() string {
	switch t {
	case bufAlloced:
		return "alloced"
	case bufExternal:
		return "external"
	case bufMapped:
		return "mmap"
	default:
		return "none"
	}
}

// Node is the runtime value tree: each Node carries a Schema reference and
// either owns a byte buffer, borrows external memory, or has children. See
// spec §3.4.
type Node struct {
	schema      *Schema
	schemaOwned bool // true only at the root of an owned Schema subtree

	data   []byte    // leaf view starting at element 0; nil for composite/EMPTY
	bufTag bufferTag // ownership of `data`'s backing array

	parent   *Node
	children []*Node // one per Schema child, same order, for composites
}

// NewNode returns a new EMPTY Node that owns its (EMPTY) Schema.
func NewNode() *Node {
	return &Node{schema: NewSchema(), schemaOwned: true}
}

// Schema returns this Node's Schema (owned at the root, borrowed below it).
func (n *Node) Schema() *Schema { return n.schema }

// Dtype returns the leaf TypeDescriptor of this Node's Schema.
func (n *Node) Dtype() TypeDescriptor { return n.schema.Dtype() }

// Parent returns the (non-owning) parent Node, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// leafSpan returns the number of bytes a leaf TypeDescriptor spans when its
// offset is treated as 0 (since a leaf Node's `data` slice already starts
// at element 0).
func leafSpan(d TypeDescriptor) int64 {
	if d.NumElements <= 0 {
		return 0
	}
	return (d.NumElements-1)*d.Stride + d.ElementBytes
}

// allocLeaf allocates and returns a zeroed buffer sized for d; the caller
// binds it.
func allocLeaf(d TypeDescriptor) []byte {
	span := leafSpan(d)
	if span < 0 {
		span = 0
	}
	return make([]byte, span)
}

// NewNodeFromDtype returns a new leaf Node, allocating a zeroed buffer
// sized for d (spec §4.3.1: "from a Type Descriptor (allocates a zeroed
// buffer sized for the descriptor)").
func NewNodeFromDtype(d TypeDescriptor) (*Node, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	n := &Node{schema: NewSchemaFromDtype(d), schemaOwned: true}
	n.data = allocLeaf(d)
	n.bufTag = bufAlloced
	return n, nil
}

// NewNodeFromSchema deep-copies schema and allocates one zeroed buffer
// sized for its current (non-compact) layout, then walks children binding
// each leaf descendant to a view of that shared buffer (spec §4.3.1).
func NewNodeFromSchema(schema *Schema) (*Node, error) {
	clone := schema.clone()
	total := clone.TotalBytes()
	if total < 0 {
		return nil, newErr(ErrKindInvalidLayout, "schema has negative total byte span")
	}
	buf := make([]byte, total)
	n := &Node{schema: clone, schemaOwned: true}
	n.bindOwned(buf)
	return n, nil
}

// NewNodeFromSchemaExternal deep-copies schema (layout only) and binds the
// whole subtree, without copying, over base — the "external mode" walk of
// the Generator, and the general "Schema plus borrowed pointer" constructor
// of spec §4.3.1.
func NewNodeFromSchemaExternal(schema *Schema, base []byte) (*Node, error) {
	clone := schema.clone()
	total := clone.TotalBytes()
	if total > int64(len(base)) {
		return nil, newErr(ErrKindInvalidLayout,
			"external buffer too small: schema needs %d bytes, got %d", total, len(base))
	}
	n := &Node{schema: clone, schemaOwned: true}
	n.bindExternal(base)
	return n, nil
}

// bindOwned (re)builds n's child tree, viewing buf as the single alloced
// backing array for the whole subtree.
func (n *Node) bindOwned(buf []byte) {
	n.bindBuffer(buf, bufAlloced)
}

// bindExternal (re)builds n's child tree, viewing buf as a single
// externally-owned backing array for the whole subtree.
func (n *Node) bindExternal(buf []byte) {
	n.bindBuffer(buf, bufExternal)
}

func (n *Node) bindBuffer(buf []byte, tag bufferTag) {
	n.children = nil
	n.data = nil
	n.bufTag = bufNone
	n.walkBind(n.schema, buf, tag)
}

func (n *Node) walkBind(s *Schema, buf []byte, tag bufferTag) {
	switch s.kind {
	case KindObject:
		n.children = make([]*Node, len(s.objChildren))
		for i, cs := range s.objChildren {
			cn := &Node{schema: cs, parent: n}
			cn.walkBind(cs, buf, tag)
			n.children[i] = cn
		}
	case KindList:
		n.children = make([]*Node, len(s.listChildren))
		for i, cs := range s.listChildren {
			cn := &Node{schema: cs, parent: n}
			cn.walkBind(cs, buf, tag)
			n.children[i] = cn
		}
	case KindEmpty:
		n.data = nil
		n.bufTag = bufNone
	default:
		span := leafSpan(s.dtype)
		off := s.dtype.Offset
		end := off + span
		if end > int64(len(buf)) {
			end = int64(len(buf))
		}
		if off > end {
			off = end
		}
		n.data = buf[off:end]
		n.bufTag = tag
	}
}

// resetToLeaf discards n's current content (freeing nothing explicitly;
// Go's GC reclaims unreferenced buffers) and rebinds it as a freshly
// alloced leaf of dtype d. If n has a parent, the parent's Schema child
// entry is updated in place so sibling paths stay valid.
func (n *Node) resetToLeaf(d TypeDescriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	n.children = nil
	n.schema.Set(d)
	n.data = allocLeaf(d)
	n.bufTag = bufAlloced
	return nil
}

// resetToLeafExternal is resetToLeaf's external-binding counterpart: it
// borrows buf rather than allocating.
func (n *Node) resetToLeafExternal(d TypeDescriptor, buf []byte) error {
	if err := d.Validate(); err != nil {
		return err
	}
	span := leafSpan(d)
	if span > int64(len(buf)) {
		return newErr(ErrKindInvalidLayout, "external buffer too small: need %d bytes, got %d", span, len(buf))
	}
	n.children = nil
	n.schema.Set(d)
	n.data = buf[:span]
	n.bufTag = bufExternal
	return nil
}

// Reset releases n's content back to EMPTY.
func (n *Node) Reset() {
	n.schema.becomeEmpty()
	n.children = nil
	n.data = nil
	n.bufTag = bufNone
}

// Clone returns a standalone deep copy of n (compacted, independently
// owned memory, no parent) — the Go spelling of "copy construction deep-
// copies via compaction" (§4.3.1).
func (n *Node) Clone() *Node {
	dst := NewNode()
	n.CompactTo(dst)
	return dst
}

// NumChildren returns the number of OBJECT or LIST children.
func (n *Node) NumChildren() int { return len(n.children) }

// dataPtr returns the address of n.data's backing array for info()'s
// pointer-as-hex grouping, or 0 if n.data is empty.
func (n *Node) dataPtr() uintptr {
	if len(n.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&n.data[0]))
}
