package conduit

// This file implements Node-level path navigation and child management
// (spec §4.3.3), mirroring schema.go's Schema-level operations while
// keeping n.children in lockstep with n.schema's child Schemas.

// Kind returns this Node's Schema kind (EMPTY, OBJECT, LIST, or a leaf kind).
func (n *Node) Kind() Kind { return n.schema.kind }

// ChildNames returns the OBJECT child names in insertion order, or nil if
// n is not an OBJECT.
func (n *Node) ChildNames() []string { return n.schema.ChildNames() }

// Child returns the i-th child (OBJECT or LIST), by position.
func (n *Node) Child(i int) (*Node, error) {
	if i < 0 || i >= len(n.children) {
		return nil, newErr(ErrKindIndexOutOfRange, "child index %d out of range [0,%d)", i, len(n.children))
	}
	return n.children[i], nil
}

// ChildByName returns the named OBJECT child.
func (n *Node) ChildByName(name string) (*Node, error) {
	if n.schema.kind != KindObject {
		return nil, newPathErr(ErrKindPathNotFound, name, "ChildByName called on non-OBJECT node (kind=%s)", n.schema.kind)
	}
	idx, ok := n.schema.nameIdx[name]
	if !ok || idx >= len(n.children) {
		return nil, newPathErr(ErrKindPathNotFound, name, "no such child")
	}
	return n.children[idx], nil
}

// fetchChildObject returns the named OBJECT child of n, converting n to
// OBJECT first if it was EMPTY, and materializing both the Schema child
// and its paired Node if either is missing.
func (n *Node) fetchChildObject(name string) (*Node, error) {
	if n.schema.kind == KindEmpty {
		n.schema.becomeObject()
		n.children = nil
		n.data = nil
		n.bufTag = bufNone
	}
	if n.schema.kind != KindObject {
		return nil, newErr(ErrKindPathNotFound, "cannot create OBJECT child %q on non-OBJECT node (kind=%s)", name, n.schema.kind)
	}
	cs, err := n.schema.appendChildObject(name)
	if err != nil {
		return nil, err
	}
	idx := n.schema.nameIdx[name]
	for len(n.children) <= idx {
		n.children = append(n.children, nil)
	}
	if n.children[idx] == nil {
		n.children[idx] = &Node{schema: cs, parent: n}
	}
	return n.children[idx], nil
}

// Fetch walks path, creating intermediate OBJECT children as needed
// (forcing n to OBJECT first if it was EMPTY). ".." ascends to the
// parent; fetching ".." at the root fails.
func (n *Node) Fetch(path string) (*Node, error) {
	cur := n
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
		child, err := cur.fetchChildObject(seg)
		if err != nil {
			return nil, newPathErr(ErrKindPathNotFound, path, "%v", err)
		}
		cur = child
	}
	return cur, nil
}

// FetchPtr is the non-creating variant of Fetch: it fails with
// PathNotFound instead of materializing missing intermediates.
func (n *Node) FetchPtr(path string) (*Node, error) {
	cur := n
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
		if cur.schema.kind != KindObject {
			return nil, newPathErr(ErrKindPathNotFound, path, "segment %q: not an OBJECT", seg)
		}
		idx, ok := cur.schema.nameIdx[seg]
		if !ok || idx >= len(cur.children) {
			return nil, newPathErr(ErrKindPathNotFound, path, "segment %q: not found", seg)
		}
		cur = cur.children[idx]
	}
	return cur, nil
}

// HasPath reports whether path resolves via FetchPtr.
func (n *Node) HasPath(path string) bool {
	_, err := n.FetchPtr(path)
	return err == nil
}

// Paths collects the full paths of every leaf descendant (and, if expand
// is true, every intermediate OBJECT/LIST node too) in depth-first,
// insertion/position order. Node structure always mirrors its Schema, so
// this defers to the Schema tree directly.
func (n *Node) Paths(expand bool) []string { return n.schema.Paths(expand) }

// Append adds a new EMPTY child to a LIST, converting n to LIST first if
// it was EMPTY. Fails if n is a leaf or OBJECT.
func (n *Node) Append() (*Node, error) {
	if n.schema.kind == KindEmpty {
		n.schema.becomeList()
		n.children = nil
		n.data = nil
		n.bufTag = bufNone
	}
	if n.schema.kind != KindList {
		return nil, newErr(ErrKindInvalidLayout, "Append called on non-LIST node (kind=%s)", n.schema.kind)
	}
	cs, err := n.schema.Append()
	if err != nil {
		return nil, err
	}
	cn := &Node{schema: cs, parent: n}
	n.children = append(n.children, cn)
	return cn, nil
}

// Remove deletes the i-th child (OBJECT or LIST, by position). Per spec
// §4.3.3, child tear-down is read from the Schema/Node pair before the
// Schema is mutated, so the Node slice is spliced first.
func (n *Node) Remove(i int) error {
	switch n.schema.kind {
	case KindObject, KindList:
		if i < 0 || i >= len(n.children) {
			return newErr(ErrKindIndexOutOfRange, "remove index %d out of range [0,%d)", i, len(n.children))
		}
		n.children = append(n.children[:i], n.children[i+1:]...)
		return n.schema.Remove(i)
	default:
		return newErr(ErrKindIndexOutOfRange, "Remove(index) called on non-composite node (kind=%s)", n.schema.kind)
	}
}

// RemoveByName deletes the named OBJECT child.
func (n *Node) RemoveByName(name string) error {
	if n.schema.kind != KindObject {
		return newPathErr(ErrKindPathNotFound, name, "RemoveByName called on non-OBJECT node (kind=%s)", n.schema.kind)
	}
	idx, ok := n.schema.nameIdx[name]
	if !ok {
		return newPathErr(ErrKindPathNotFound, name, "no such child")
	}
	return n.Remove(idx)
}
