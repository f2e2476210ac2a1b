package conduit

import "strings"

// Schema is a node in the Schema tree: either a leaf (wrapping a
// TypeDescriptor), an OBJECT (insertion-ordered name -> child Schema), a
// LIST (ordered sequence of child Schema), or EMPTY. See spec §3.3, §4.2.
type Schema struct {
	kind  Kind
	dtype TypeDescriptor // valid iff kind.IsLeaf()

	// OBJECT state: parallel slices preserve insertion order; nameIdx
	// gives O(1) lookup without disturbing that order.
	objNames    []string
	objChildren []*Schema
	nameIdx     map[string]int

	// LIST state.
	listChildren []*Schema

	parent       *Schema // weak back-reference; never owns, never freed here
	nameInParent string  // this Schema's key in its OBJECT parent, if any
}

// NewSchema returns a new EMPTY Schema.
func NewSchema() *Schema {
	return &Schema{kind: KindEmpty}
}

// NewSchemaFromDtype returns a new leaf Schema wrapping d.
func NewSchemaFromDtype(d TypeDescriptor) *Schema {
	return &Schema{kind: d.Kind, dtype: d}
}

// Kind returns this Schema's dtype kind (EMPTY, OBJECT, LIST, or a leaf kind).
func (s *Schema) Kind() Kind { return s.kind }

// Dtype returns the leaf TypeDescriptor. Only meaningful when Kind().IsLeaf().
func (s *Schema) Dtype() TypeDescriptor { return s.dtype }

// Parent returns the (non-owning) parent Schema, or nil at the root.
func (s *Schema) Parent() *Schema { return s.parent }

// Name returns this Schema's key within its OBJECT parent, or "" if it is
// not an OBJECT child (root, or a LIST child).
func (s *Schema) Name() string { return s.nameInParent }

func (s *Schema) becomeEmpty() {
	s.kind = KindEmpty
	s.dtype = TypeDescriptor{}
	s.objNames = nil
	s.objChildren = nil
	s.nameIdx = nil
	s.listChildren = nil
}

func (s *Schema) becomeObject() {
	s.kind = KindObject
	s.dtype = TypeDescriptor{}
	s.listChildren = nil
	if s.nameIdx == nil {
		s.nameIdx = make(map[string]int)
	}
}

func (s *Schema) becomeList() {
	s.kind = KindList
	s.dtype = TypeDescriptor{}
	s.objNames = nil
	s.objChildren = nil
	s.nameIdx = nil
}

// Set replaces this Schema's contents with a leaf TypeDescriptor.
func (s *Schema) Set(d TypeDescriptor) {
	s.becomeEmpty()
	s.kind = d.Kind
	s.dtype = d
}

// SetSchema deep-copies other into this Schema (replacing any current
// content), preserving neither other's parent nor other's name.
func (s *Schema) SetSchema(other *Schema) {
	clone := other.clone()
	s.kind = clone.kind
	s.dtype = clone.dtype
	s.objNames = clone.objNames
	s.objChildren = clone.objChildren
	s.nameIdx = clone.nameIdx
	s.listChildren = clone.listChildren
	s.reparentChildren()
}

func (s *Schema) reparentChildren() {
	for i, c := range s.objChildren {
		c.parent = s
		c.nameInParent = s.objNames[i]
	}
	for _, c := range s.listChildren {
		c.parent = s
		c.nameInParent = ""
	}
}

// clone returns a deep copy of s with no parent set.
func (s *Schema) clone() *Schema {
	out := &Schema{kind: s.kind, dtype: s.dtype}
	if len(s.objChildren) > 0 {
		out.objNames = append([]string(nil), s.objNames...)
		out.objChildren = make([]*Schema, len(s.objChildren))
		out.nameIdx = make(map[string]int, len(s.nameIdx))
		for k, v := range s.nameIdx {
			out.nameIdx[k] = v
		}
		for i, c := range s.objChildren {
			cc := c.clone()
			cc.parent = out
			cc.nameInParent = out.objNames[i]
			out.objChildren[i] = cc
		}
	} else if s.kind == KindObject {
		out.nameIdx = make(map[string]int)
	}
	if len(s.listChildren) > 0 {
		out.listChildren = make([]*Schema, len(s.listChildren))
		for i, c := range s.listChildren {
			cc := c.clone()
			cc.parent = out
			out.listChildren[i] = cc
		}
	}
	return out
}

// Clone returns a standalone deep copy of s (no parent).
func (s *Schema) Clone() *Schema { return s.clone() }

// NumChildren returns the number of OBJECT or LIST children; 0 for a leaf
// or EMPTY Schema.
func (s *Schema) NumChildren() int {
	switch s.kind {
	case KindObject:
		return len(s.objChildren)
	case KindList:
		return len(s.listChildren)
	default:
		return 0
	}
}

// ChildNames returns the OBJECT child names in insertion order, or nil if
// s is not an OBJECT.
func (s *Schema) ChildNames() []string {
	if s.kind != KindObject {
		return nil
	}
	return append([]string(nil), s.objNames...)
}

// Child returns the i-th child (OBJECT or LIST). IndexOutOfRange if i is
// out of [0, NumChildren()).
func (s *Schema) Child(i int) (*Schema, error) {
	switch s.kind {
	case KindObject:
		if i < 0 || i >= len(s.objChildren) {
			return nil, newErr(ErrKindIndexOutOfRange, "child index %d out of range [0,%d)", i, len(s.objChildren))
		}
		return s.objChildren[i], nil
	case KindList:
		if i < 0 || i >= len(s.listChildren) {
			return nil, newErr(ErrKindIndexOutOfRange, "child index %d out of range [0,%d)", i, len(s.listChildren))
		}
		return s.listChildren[i], nil
	default:
		return nil, newErr(ErrKindIndexOutOfRange, "Child called on non-composite Schema (kind=%s)", s.kind)
	}
}

// childByName returns the named OBJECT child, or nil if absent or s is not
// an OBJECT.
func (s *Schema) childByName(name string) *Schema {
	if s.kind != KindObject {
		return nil
	}
	if idx, ok := s.nameIdx[name]; ok {
		return s.objChildren[idx]
	}
	return nil
}

// appendChildObject adds a new EMPTY child named name, converting s to
// OBJECT first if it was EMPTY. Fails if s is a leaf or LIST.
func (s *Schema) appendChildObject(name string) (*Schema, error) {
	if s.kind == KindEmpty {
		s.becomeObject()
	}
	if s.kind != KindObject {
		return nil, newPathErr(ErrKindPathNotFound, name, "cannot create OBJECT child %q on non-OBJECT Schema (kind=%s)", name, s.kind)
	}
	if existing := s.childByName(name); existing != nil {
		return existing, nil
	}
	child := &Schema{kind: KindEmpty, parent: s, nameInParent: name}
	s.nameIdx[name] = len(s.objChildren)
	s.objNames = append(s.objNames, name)
	s.objChildren = append(s.objChildren, child)
	return child, nil
}

// Append adds a new EMPTY child to a LIST, converting s to LIST first if
// it was EMPTY. Fails if s is a leaf or OBJECT.
func (s *Schema) Append() (*Schema, error) {
	if s.kind == KindEmpty {
		s.becomeList()
	}
	if s.kind != KindList {
		return nil, newErr(ErrKindInvalidLayout, "Append called on non-LIST Schema (kind=%s)", s.kind)
	}
	child := &Schema{kind: KindEmpty, parent: s}
	s.listChildren = append(s.listChildren, child)
	return child, nil
}

// Remove deletes the i-th child (OBJECT or LIST, by position).
func (s *Schema) Remove(i int) error {
	switch s.kind {
	case KindObject:
		if i < 0 || i >= len(s.objChildren) {
			return newErr(ErrKindIndexOutOfRange, "remove index %d out of range [0,%d)", i, len(s.objChildren))
		}
		name := s.objNames[i]
		s.objChildren = append(s.objChildren[:i], s.objChildren[i+1:]...)
		s.objNames = append(s.objNames[:i], s.objNames[i+1:]...)
		delete(s.nameIdx, name)
		for k, idx := range s.nameIdx {
			if idx > i {
				s.nameIdx[k] = idx - 1
			}
		}
		return nil
	case KindList:
		if i < 0 || i >= len(s.listChildren) {
			return newErr(ErrKindIndexOutOfRange, "remove index %d out of range [0,%d)", i, len(s.listChildren))
		}
		s.listChildren = append(s.listChildren[:i], s.listChildren[i+1:]...)
		return nil
	default:
		return newErr(ErrKindIndexOutOfRange, "Remove(index) called on non-composite Schema (kind=%s)", s.kind)
	}
}

// RemoveByName deletes the named OBJECT child. Fails (PathNotFound) if s
// is not an OBJECT or the name is absent.
func (s *Schema) RemoveByName(name string) error {
	if s.kind != KindObject {
		return newPathErr(ErrKindPathNotFound, name, "RemoveByName called on non-OBJECT Schema (kind=%s)", s.kind)
	}
	idx, ok := s.nameIdx[name]
	if !ok {
		return newPathErr(ErrKindPathNotFound, name, "no such child")
	}
	return s.Remove(idx)
}

// splitPath splits a "/"-separated path into segments. A trailing empty
// segment (path ends in "/", or path == "") denotes "self" and is dropped.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Fetch walks path, creating intermediate OBJECT children as needed
// (forcing s to OBJECT first if it was EMPTY). ".." ascends to the
// parent; fetching ".." at the root fails.
func (s *Schema) Fetch(path string) (*Schema, error) {
	cur := s
	for _, seg := range splitPath(path) {
		if seg == "" {
			continue
		}
		if seg == ".." {
			if cur.parent == nil {
				return nil, newPathErr(ErrKindPathNotFound, path, "cannot ascend past root")
			}
			cur = cur.parent
			continue
		}
		child, err := cur.appendChildObject(seg)
		if err != nil {
			return nil, newPathErr(ErrKindPathNotFound, path, "%v", err)
		}
		cur = child
	}
	return cur, nil
}

// FetchPtr is the non-creating variant of Fetch: it fails with
// PathNotFound instead of materializing missing intermediates.
func (s *Schema) FetchPtr(path string) (*Schema, error) {
	cur := s
	for _, seg := range splitPath(path) {
		if seg == "" {
			continue
		}
		if seg == ".." {
			if cur.parent == nil {
				return nil, newPathErr(ErrKindPathNotFound, path, "cannot ascend past root")
			}
			cur = cur.parent
			continue
		}
		if cur.kind != KindObject {
			return nil, newPathErr(ErrKindPathNotFound, path, "segment %q: not an OBJECT", seg)
		}
		child := cur.childByName(seg)
		if child == nil {
			return nil, newPathErr(ErrKindPathNotFound, path, "segment %q: not found", seg)
		}
		cur = child
	}
	return cur, nil
}

// HasPath reports whether path resolves via FetchPtr.
func (s *Schema) HasPath(path string) bool {
	_, err := s.FetchPtr(path)
	return err == nil
}

// Paths collects the full paths of every leaf descendant (and, if expand
// is true, every intermediate OBJECT/LIST node too) in depth-first,
// insertion/position order.
func (s *Schema) Paths(expand bool) []string {
	var out []string
	s.collectPaths("", expand, &out)
	return out
}

func (s *Schema) collectPaths(prefix string, expand bool, out *[]string) {
	switch s.kind {
	case KindObject:
		if expand && prefix != "" {
			*out = append(*out, prefix)
		}
		for i, name := range s.objNames {
			p := name
			if prefix != "" {
				p = prefix + "/" + name
			}
			s.objChildren[i].collectPaths(p, expand, out)
		}
	case KindList:
		if expand && prefix != "" {
			*out = append(*out, prefix)
		}
		for i, c := range s.listChildren {
			p := itoa(i)
			if prefix != "" {
				p = prefix + "/" + itoa(i)
			}
			c.collectPaths(p, expand, out)
		}
	default:
		if prefix != "" {
			*out = append(*out, prefix)
		}
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// TotalBytes returns the byte span of this Schema as laid out today: for a
// leaf, the TypeDescriptor's TotalBytes(); for a composite, the sum of
// children's totals; 0 for EMPTY.
func (s *Schema) TotalBytes() int64 {
	switch s.kind {
	case KindObject:
		var total int64
		for _, c := range s.objChildren {
			total += c.TotalBytes()
		}
		return total
	case KindList:
		var total int64
		for _, c := range s.listChildren {
			total += c.TotalBytes()
		}
		return total
	case KindEmpty:
		return 0
	default:
		return s.dtype.TotalBytes()
	}
}

// TotalBytesCompact returns the byte span this Schema would occupy if
// every leaf were compact and laid out with no gaps.
func (s *Schema) TotalBytesCompact() int64 {
	switch s.kind {
	case KindObject:
		var total int64
		for _, c := range s.objChildren {
			total += c.TotalBytesCompact()
		}
		return total
	case KindList:
		var total int64
		for _, c := range s.listChildren {
			total += c.TotalBytesCompact()
		}
		return total
	case KindEmpty:
		return 0
	default:
		return s.dtype.CompactBytes()
	}
}

// CompactTo produces, into dest, an isomorphic Schema whose leaves are
// compact and whose offsets are assigned by depth-first traversal
// starting at 0.
func (s *Schema) CompactTo(dest *Schema) {
	cursor := int64(0)
	compacted := s.compactWalk(&cursor)
	dest.SetSchema(compacted)
}

func (s *Schema) compactWalk(cursor *int64) *Schema {
	switch s.kind {
	case KindObject:
		out := &Schema{kind: KindObject, nameIdx: make(map[string]int)}
		for i, name := range s.objNames {
			cc := s.objChildren[i].compactWalk(cursor)
			cc.parent = out
			cc.nameInParent = name
			out.nameIdx[name] = len(out.objChildren)
			out.objNames = append(out.objNames, name)
			out.objChildren = append(out.objChildren, cc)
		}
		return out
	case KindList:
		out := &Schema{kind: KindList}
		for _, c := range s.listChildren {
			cc := c.compactWalk(cursor)
			cc.parent = out
			out.listChildren = append(out.listChildren, cc)
		}
		return out
	case KindEmpty:
		return &Schema{kind: KindEmpty}
	default:
		eb := int64(DefaultBytes(s.kind))
		d := TypeDescriptor{
			Kind:         s.kind,
			NumElements:  s.dtype.NumElements,
			Offset:       *cursor,
			Stride:       eb,
			ElementBytes: eb,
			Endianness:   s.dtype.Endianness,
		}
		*cursor += d.CompactBytes()
		return &Schema{kind: s.kind, dtype: d}
	}
}
