package conduit

import "github.com/RoaringBitmap/roaring"

// NewNodeFromSchemaMapped deep-copies schema (layout only) and binds the
// whole subtree, without copying, over mapped — the counterpart to
// NewNodeFromSchemaExternal for memory-mapped-file-backed buffers (spec
// §9 "ownership tri-state of buffers": alloced / external / mapped).
// Callers are responsible for keeping mapped valid (e.g. via an open
// mmap.Map) for as long as the returned Node is used.
func NewNodeFromSchemaMapped(schema *Schema, mapped []byte) (*Node, error) {
	clone := schema.clone()
	total := clone.TotalBytes()
	if total > int64(len(mapped)) {
		return nil, newErr(ErrKindInvalidLayout,
			"mapped buffer too small: schema needs %d bytes, got %d", total, len(mapped))
	}
	n := &Node{schema: clone, schemaOwned: true}
	n.bindBuffer(mapped, bufMapped)
	return n, nil
}

// MemSpace describes one leaf's backing storage, as reported by Info().
type MemSpace struct {
	Path    string
	Type    string // "alloced", "external", or "mmap"
	Pointer uintptr
	Bytes   int64
}

// NodeInfo is the introspection report of spec §4.3.7.
type NodeInfo struct {
	MemSpaces          []MemSpace
	TotalBytes         int64
	TotalBytesCompact  int64
	TotalBytesAlloced  int64
	TotalBytesExternal int64
	TotalBytesMapped   int64
}

// Info walks n's subtree and reports, per leaf, its backing storage and
// ownership, plus subtree-wide byte totals.
func (n *Node) Info() NodeInfo {
	info := NodeInfo{
		TotalBytes:        n.schema.TotalBytes(),
		TotalBytesCompact: n.schema.TotalBytesCompact(),
	}
	n.collectInfo("", &info)
	return info
}

// PresenceBitmap reports, for an OBJECT or LIST node, which direct
// children are non-EMPTY, as a compressed bitmap keyed by child index.
// (added) This generalizes the teacher's own "bitmap for sparse
// optionals" idea (glyph/emit_packed.go's PackedOptions.UseBitmap,
// computeOptionalMask) from a per-struct []bool mask built fresh for
// one encode into a reusable, mergeable bitmap any caller can
// intersect/union/persist independently of serialization.
func (n *Node) PresenceBitmap() (*roaring.Bitmap, error) {
	if n.schema.kind != KindObject && n.schema.kind != KindList {
		return nil, newErr(ErrKindTypeMismatch,
			"PresenceBitmap requires an OBJECT or LIST node (kind=%s)", n.schema.kind)
	}
	bm := roaring.New()
	for i, c := range n.children {
		if c.schema.kind != KindEmpty {
			bm.Add(uint32(i))
		}
	}
	return bm, nil
}

func (n *Node) collectInfo(path string, info *NodeInfo) {
	switch n.schema.kind {
	case KindObject:
		for i, name := range n.schema.objNames {
			p := name
			if path != "" {
				p = path + "/" + name
			}
			n.children[i].collectInfo(p, info)
		}
	case KindList:
		for i, c := range n.children {
			p := itoa(i)
			if path != "" {
				p = path + "/" + itoa(i)
			}
			c.collectInfo(p, info)
		}
	case KindEmpty:
	default:
		bytes := int64(len(n.data))
		switch n.bufTag {
		case bufAlloced:
			info.TotalBytesAlloced += bytes
		case bufExternal:
			info.TotalBytesExternal += bytes
		case bufMapped:
			info.TotalBytesMapped += bytes
		}
		info.MemSpaces = append(info.MemSpaces, MemSpace{
			Path: path, Type: n.bufTag.String(), Pointer: n.dataPtr(), Bytes: bytes,
		})
	}
}
