package conduit

// Update performs the structural merge of spec §4.3.4: OBJECT merges
// recurse child-by-child (creating missing children); LIST merges line
// children up by position and append the remainder; a leaf absorbs
// another leaf in place when the two dtypes are compatible, or when the
// two share a kind and self's own capacity already covers src's element
// count (self's larger buffer is preserved, only the overlapping prefix
// is overwritten); otherwise self is wholly replaced by a compact copy
// of src. Merging EMPTY into anything is a no-op.
func (n *Node) Update(src *Node) error {
	switch src.schema.kind {
	case KindObject:
		if n.schema.kind == KindEmpty {
			n.schema.becomeObject()
			n.children = nil
			n.data = nil
			n.bufTag = bufNone
		}
		if n.schema.kind != KindObject {
			return newErr(ErrKindTypeMismatch, "cannot merge OBJECT into non-OBJECT node (kind=%s)", n.schema.kind)
		}
		for i, name := range src.schema.objNames {
			dstChild, err := n.fetchChildObject(name)
			if err != nil {
				return err
			}
			if err := dstChild.Update(src.children[i]); err != nil {
				return err
			}
		}
		return nil
	case KindList:
		if n.schema.kind == KindEmpty {
			n.schema.becomeList()
			n.children = nil
			n.data = nil
			n.bufTag = bufNone
		}
		if n.schema.kind != KindList {
			return newErr(ErrKindTypeMismatch, "cannot merge LIST into non-LIST node (kind=%s)", n.schema.kind)
		}
		for i, sc := range src.children {
			if i < len(n.children) {
				if err := n.children[i].Update(sc); err != nil {
					return err
				}
				continue
			}
			cn, err := n.Append()
			if err != nil {
				return err
			}
			if err := cn.Update(sc); err != nil {
				return err
			}
		}
		return nil
	case KindEmpty:
		return nil
	default:
		return n.updateLeaf(src)
	}
}

func (n *Node) updateLeaf(src *Node) error {
	if n.schema.kind == src.schema.kind {
		if n.schema.dtype.IsCompatible(src.schema.dtype) {
			return n.copyLeafElements(src)
		}
		if n.schema.dtype.NumElements >= src.schema.dtype.NumElements {
			return n.copyLeafElements(src)
		}
	}
	d := NewTypeDescriptor(src.schema.kind, src.schema.dtype.NumElements)
	if err := n.resetToLeaf(d); err != nil {
		return err
	}
	return n.copyLeafElements(src)
}

// copyLeafElements copies min(n's, src's) element count worth of data from
// src into n, honoring each side's own stride and endianness.
func (n *Node) copyLeafElements(src *Node) error {
	k := n.schema.kind
	if !k.IsNumeric() {
		m := len(n.data)
		if len(src.data) < m {
			m = len(src.data)
		}
		copy(n.data[:m], src.data[:m])
		return nil
	}
	count := n.schema.dtype.NumElements
	if src.schema.dtype.NumElements < count {
		count = src.schema.dtype.NumElements
	}
	dstOrder := byteOrderFor(n.schema.dtype.Endianness)
	srcOrder := byteOrderFor(src.schema.dtype.Endianness)
	dstStride := n.schema.dtype.Stride
	srcStride := src.schema.dtype.Stride
	srcEB := src.schema.dtype.ElementBytes
	dstEB := int64(DefaultBytes(k))
	for i := int64(0); i < count; i++ {
		so := i * srcStride
		do := i * dstStride
		raw := copyElementRaw(src.data[so:so+srcEB], k, srcOrder, dstOrder)
		copy(n.data[do:do+dstEB], raw)
	}
	return nil
}
