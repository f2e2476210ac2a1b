package conduit

import (
	"encoding/base64"
	"io"
)

// ToJSON renders n per protocol (spec §6.1/§6.4):
//
//   - "conduit_json": every leaf rendered with the full Schema-JSON
//     field set (dtype, number_of_elements, offset, stride,
//     element_bytes, endianness, each omitted at its canonical
//     default) plus "value". Reading it back with the Generator
//     "conduit_json" protocol restores the tree and its values, but a
//     leaf with a "value" is rebuilt compact with default endianness,
//     so its offset/stride/element_bytes/endianness are not restored.
//   - "json": plain JSON values, losing dtype information (the Generator
//     "json" protocol's approximate inverse — round-tripping through it
//     re-infers types rather than recovering the originals exactly).
//   - "base64_json": the Schema-JSON form only; pair with ToBase64Data
//     for the encoded bytes, mirroring Generator's separate
//     (schemaText, data) constructor arguments for that protocol.
func (n *Node) ToJSON(protocol string, opts JSONOptions) (string, error) {
	switch protocol {
	case "conduit_json":
		return renderJSON(n.toConduitJSONValue(), opts), nil
	case "json":
		return renderJSON(n.toPlainJSONValue(), opts), nil
	case "base64_json":
		return n.schema.ToJSON(opts), nil
	default:
		return "", newErr(ErrKindParseError, "unknown to_json protocol %q", protocol)
	}
}

// ToJSONStream writes n's JSON rendering to w.
func (n *Node) ToJSONStream(w io.Writer, protocol string, opts JSONOptions) error {
	s, err := n.ToJSON(protocol, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// ToBase64Data returns the base64 encoding of a compact copy of n's
// bytes, the data half of the "base64_json" protocol.
func (n *Node) ToBase64Data() string {
	compact := n.Clone()
	return base64.StdEncoding.EncodeToString(compact.flattenBytes())
}

func (n *Node) toConduitJSONValue() *jsonValue {
	switch n.schema.kind {
	case KindObject:
		obj := newJSONObj()
		for i, name := range n.schema.objNames {
			obj.Set(name, n.children[i].toConduitJSONValue())
		}
		return jvObject(obj)
	case KindList:
		items := make([]*jsonValue, len(n.children))
		for i, c := range n.children {
			items[i] = c.toConduitJSONValue()
		}
		return jvArray(items)
	case KindEmpty:
		obj := newJSONObj()
		obj.Set("dtype", jvString("empty"))
		return jvObject(obj)
	default:
		// dtypeToJSON (dtype_json.go) renders the full Schema-JSON leaf
		// field set (spec.md:168), omitting any field at its canonical
		// default; "value" is then appended onto the same object so the
		// conduit_json form carries both shape and data from one source
		// of truth instead of a second hand-rolled field list.
		jv := dtypeToJSON(n.schema.dtype)
		if n.schema.kind == KindChar8Str {
			s, _ := n.AsString()
			jv.obj.Set("value", jvString(s))
			return jv
		}
		jv.obj.Set("value", n.leafValueToJSON())
		return jv
	}
}

func (n *Node) toPlainJSONValue() *jsonValue {
	switch n.schema.kind {
	case KindObject:
		obj := newJSONObj()
		for i, name := range n.schema.objNames {
			obj.Set(name, n.children[i].toPlainJSONValue())
		}
		return jvObject(obj)
	case KindList:
		items := make([]*jsonValue, len(n.children))
		for i, c := range n.children {
			items[i] = c.toPlainJSONValue()
		}
		return jvArray(items)
	case KindEmpty:
		return jvNull()
	case KindChar8Str:
		s, _ := n.AsString()
		return jvString(s)
	default:
		return n.leafValueToJSON()
	}
}

func (n *Node) leafValueToJSON() *jsonValue {
	d := n.schema.dtype
	if d.NumElements == 1 {
		return n.elementToJSON(0)
	}
	items := make([]*jsonValue, d.NumElements)
	for i := int64(0); i < d.NumElements; i++ {
		items[i] = n.elementToJSON(i)
	}
	return jvArray(items)
}

func (n *Node) elementToJSON(i int64) *jsonValue {
	k := n.schema.kind
	d := n.schema.dtype
	order := byteOrderFor(d.Endianness)
	eb := int64(DefaultBytes(k))
	off := i * d.Stride
	buf := n.data[off : off+eb]
	switch {
	case k.IsSignedInteger():
		return jvInt(getInt(buf, k, order))
	case k.IsUnsignedInteger():
		return jvInt(int64(getUint(buf, k, order)))
	case k.IsFloat():
		return jvFloat(getFloat(buf, k, order))
	default:
		return jvNull()
	}
}
