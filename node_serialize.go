package conduit

// compactCore builds a fresh, independently-owned compact Schema/buffer
// pair isomorphic to n, with every leaf copied element-wise honoring n's
// original strides and endianness (spec §4.3.5 "Compaction").
func (n *Node) compactCore() (*Schema, []byte) {
	compactSchema := NewSchema()
	n.schema.CompactTo(compactSchema)
	buf := make([]byte, compactSchema.TotalBytesCompact())
	tmp := &Node{schema: compactSchema, schemaOwned: true}
	tmp.bindOwned(buf)
	n.copyValuesTo(tmp)
	return compactSchema, buf
}

// copyValuesTo walks n and dest in lockstep (both share the same Schema
// shape) copying leaf values from n into dest.
func (n *Node) copyValuesTo(dest *Node) {
	switch n.schema.kind {
	case KindObject, KindList:
		for i, c := range n.children {
			c.copyValuesTo(dest.children[i])
		}
	case KindEmpty:
	default:
		dest.copyLeafElements(n)
	}
}

// CompactTo writes an independent, compacted copy of n into dest,
// discarding whatever dest held before. dest must not be shared with any
// other Schema/Node tree (its Schema and child Nodes are replaced
// outright, not merged in place).
func (n *Node) CompactTo(dest *Node) {
	compactSchema, buf := n.compactCore()
	dest.schema = compactSchema
	dest.schemaOwned = true
	dest.parent = nil
	dest.bindOwned(buf)
}

// Compact rebuilds n in place so every leaf is compact, preserving n's
// identity (and its parent's references to it).
func (n *Node) Compact() {
	compactSchema, buf := n.compactCore()
	n.schema.SetSchema(compactSchema)
	n.bindOwned(buf)
}

// flattenBytes concatenates every leaf's bytes in depth-first order,
// reconstructing the contiguous byte stream a compact Node represents.
func (n *Node) flattenBytes() []byte {
	switch n.schema.kind {
	case KindObject, KindList:
		var out []byte
		for _, c := range n.children {
			out = append(out, c.flattenBytes()...)
		}
		return out
	case KindEmpty:
		return nil
	default:
		return append([]byte(nil), n.data...)
	}
}

// Serialize returns the Schema JSON form and a contiguous, compact copy
// of n's data, the pair persisted by spec §6.4's "conduit_pair" protocol
// ({schema.json, data.bin}).
func (n *Node) Serialize() (schemaJSON string, data []byte) {
	compact := n.Clone()
	return compact.schema.ToJSON(DefaultJSONOptions()), compact.flattenBytes()
}

// NodeFromSerialized reconstructs a Node owning its own copy of data, laid
// out per schemaJSON — the read side of Serialize's conduit_pair format.
func NodeFromSerialized(schemaJSON string, data []byte) (*Node, error) {
	schema, err := SchemaFromJSON(schemaJSON)
	if err != nil {
		return nil, err
	}
	need := schema.TotalBytesCompact()
	if need > int64(len(data)) {
		return nil, newErr(ErrKindInvalidLayout, "serialized data too small: schema needs %d bytes, got %d", need, len(data))
	}
	buf := append([]byte(nil), data...)
	n := &Node{schema: schema, schemaOwned: true}
	n.bindOwned(buf)
	return n, nil
}

// NodeFromSerializedExternal is NodeFromSerialized's zero-copy
// counterpart: it binds directly over data without copying.
func NodeFromSerializedExternal(schemaJSON string, data []byte) (*Node, error) {
	schema, err := SchemaFromJSON(schemaJSON)
	if err != nil {
		return nil, err
	}
	need := schema.TotalBytesCompact()
	if need > int64(len(data)) {
		return nil, newErr(ErrKindInvalidLayout, "serialized data too small: schema needs %d bytes, got %d", need, len(data))
	}
	n := &Node{schema: schema, schemaOwned: true}
	n.bindExternal(data)
	return n, nil
}
