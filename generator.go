package conduit

import (
	"encoding/base64"
	"strings"
)

// Generator parses a JSON-shaped schema-and-data document into a Node or
// Schema, per one of four protocols (spec §4.4, plus the added
// conduit_pair persisted-pair form):
//
//   - "conduit_json": a single self-contained document; every leaf is a
//     {dtype, number_of_elements, offset, stride, element_bytes,
//     endianness, value?} object (the same field set as Schema JSON,
//     spec.md:168) carrying its own data inline. "value" is optional —
//     a leaf with no "value" is built from shape alone, zero-filled. A
//     declared number_of_elements that disagrees with a provided
//     "value" array's length is a parse error.
//   - "json": plain JSON, with Go types inferred from JSON shape (numbers
//     become i64/f64, strings become char8_str, booleans become u8,
//     null becomes EMPTY, homogeneous numeric arrays become numeric
//     array leaves, other arrays become LIST, objects become OBJECT).
//   - "base64_json": schemaText is a Schema-JSON document (dtype metadata
//     only); data is the base64 text of the corresponding compact bytes.
//   - "conduit_pair" (added): schemaText is a Schema-JSON document; data
//     is the raw compact bytes directly (the {schema.json, data.bin}
//     pair of spec §6.4).
type Generator struct {
	protocol   string
	schemaText string
	data       []byte
}

// NewGenerator validates protocol and returns a Generator over
// schemaText/data.
func NewGenerator(protocol, schemaText string, data []byte) (*Generator, error) {
	switch protocol {
	case "conduit_json", "json", "base64_json", "conduit_pair":
	default:
		return nil, newErr(ErrKindParseError, "unknown generator protocol %q", protocol)
	}
	return &Generator{protocol: protocol, schemaText: schemaText, data: data}, nil
}

// Protocol returns the protocol name this Generator was constructed with.
func (g *Generator) Protocol() string { return g.protocol }

// Walk populates dest (replacing its current content) with an
// independently-owned copy of the parsed document.
func (g *Generator) Walk(dest *Node) error {
	switch g.protocol {
	case "conduit_json":
		v, err := parseJSON([]byte(g.schemaText))
		if err != nil {
			return err
		}
		dest.Reset()
		return buildConduitJSON(dest, v)
	case "json":
		v, err := parseJSON([]byte(g.schemaText))
		if err != nil {
			return err
		}
		dest.Reset()
		return buildPlainJSON(dest, v)
	case "base64_json":
		schema, raw, err := g.decodeBase64Pair()
		if err != nil {
			return err
		}
		n, err := bindOwnedCopy(schema, raw)
		if err != nil {
			return err
		}
		adopt(dest, n)
		return nil
	case "conduit_pair":
		schema, err := SchemaFromJSON(g.schemaText)
		if err != nil {
			return err
		}
		n, err := bindOwnedCopy(schema, g.data)
		if err != nil {
			return err
		}
		adopt(dest, n)
		return nil
	default:
		return newErr(ErrKindParseError, "unknown generator protocol %q", g.protocol)
	}
}

// WalkExternal populates dest by binding directly over the protocol's
// backing bytes, without copying. Only "base64_json" (after decoding) and
// "conduit_pair" carry a raw buffer to bind over.
func (g *Generator) WalkExternal(dest *Node) error {
	switch g.protocol {
	case "base64_json":
		_, raw, err := g.decodeBase64Pair()
		if err != nil {
			return err
		}
		n, err := NodeFromSerializedExternal(g.schemaText, raw)
		if err != nil {
			return err
		}
		adopt(dest, n)
		return nil
	case "conduit_pair":
		n, err := NodeFromSerializedExternal(g.schemaText, g.data)
		if err != nil {
			return err
		}
		adopt(dest, n)
		return nil
	default:
		return newErr(ErrKindConversionError, "protocol %q has no external-binding form", g.protocol)
	}
}

// WalkSchema extracts just the shape of the parsed document into dest,
// discarding any inline values.
func (g *Generator) WalkSchema(dest *Schema) error {
	switch g.protocol {
	case "conduit_json", "json":
		v, err := parseJSON([]byte(g.schemaText))
		if err != nil {
			return err
		}
		tmp := NewNode()
		if g.protocol == "conduit_json" {
			err = buildConduitJSON(tmp, v)
		} else {
			err = buildPlainJSON(tmp, v)
		}
		if err != nil {
			return err
		}
		dest.SetSchema(tmp.schema)
		return nil
	case "base64_json", "conduit_pair":
		schema, err := SchemaFromJSON(g.schemaText)
		if err != nil {
			return err
		}
		dest.SetSchema(schema)
		return nil
	default:
		return newErr(ErrKindParseError, "unknown generator protocol %q", g.protocol)
	}
}

// WalkExternalPair implements the conduit_pair protocol directly, without
// requiring a caller to construct a Generator first.
func WalkExternalPair(dest *Node, schemaJSON string, data []byte) error {
	g := &Generator{protocol: "conduit_pair", schemaText: schemaJSON, data: data}
	return g.WalkExternal(dest)
}

func (g *Generator) decodeBase64Pair() (*Schema, []byte, error) {
	schema, err := SchemaFromJSON(g.schemaText)
	if err != nil {
		return nil, nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(string(g.data))
	if err != nil {
		return nil, nil, newErr(ErrKindParseError, "base64_json: %v", err)
	}
	return schema, raw, nil
}

// bindOwnedCopy binds a fresh Node over its own copy of raw, laid out per
// schema.
func bindOwnedCopy(schema *Schema, raw []byte) (*Node, error) {
	need := schema.TotalBytesCompact()
	if need > int64(len(raw)) {
		return nil, newErr(ErrKindInvalidLayout, "data too small: schema needs %d bytes, got %d", need, len(raw))
	}
	buf := append([]byte(nil), raw...)
	n := &Node{schema: schema, schemaOwned: true}
	n.bindOwned(buf)
	return n, nil
}

// adopt replaces dest's content with src's, reparenting src's children to
// dest and leaving dest's own parent/name untouched.
func adopt(dest, src *Node) {
	dest.schema = src.schema
	dest.schemaOwned = src.schemaOwned
	dest.data = src.data
	dest.bufTag = src.bufTag
	dest.children = src.children
	for _, c := range dest.children {
		c.parent = dest
	}
}

// ----------------------------------------------------------------------
// conduit_json
// ----------------------------------------------------------------------

func buildConduitJSON(n *Node, v *jsonValue) error {
	switch v.kind {
	case jsonObject:
		if dt, ok := v.obj.Get("dtype"); ok && dt.kind == jsonString {
			if dt.str == "empty" {
				n.Reset()
				return nil
			}
			return buildConduitLeaf(n, v)
		}
		for _, name := range v.obj.keys {
			child, _ := v.obj.Get(name)
			cn, err := n.Fetch(name)
			if err != nil {
				return err
			}
			if err := buildConduitJSON(cn, child); err != nil {
				return err
			}
		}
		return nil
	case jsonArray:
		for _, item := range v.arr {
			cn, err := n.Append()
			if err != nil {
				return err
			}
			if err := buildConduitJSON(cn, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return newErr(ErrKindParseError, "conduit_json: leaf values must appear under a dtype object's \"value\" key")
	}
}

// buildConduitLeaf parses one conduit_json leaf object, which carries the
// full Schema-JSON field set (spec.md:168) alongside an optional "value":
// {dtype, number_of_elements, offset, stride, element_bytes, endianness, value?}.
// dtypeFromJSON (dtype_json.go) already implements that field set and its
// canonical-default rules for Schema JSON; it is reused here rather than
// re-parsed by hand so the two JSON forms stay in lockstep.
func buildConduitLeaf(n *Node, v *jsonValue) error {
	d, err := dtypeFromJSON(v)
	if err != nil {
		return err
	}
	k := d.Kind
	if k == KindObject || k == KindList {
		return newDtypeErr(ErrKindParseError, k.String(), "a dtype leaf object cannot declare an OBJECT/LIST dtype; use a plain JSON object/array instead")
	}
	val, hasVal := v.obj.Get("value")
	if !hasVal {
		return n.resetToLeaf(d)
	}
	if k == KindChar8Str {
		if val.kind != jsonString {
			return newDtypeErr(ErrKindParseError, k.String(), "char8_str leaf requires a string \"value\"")
		}
		return n.SetString(val.str)
	}
	if !k.IsNumeric() {
		return newDtypeErr(ErrKindParseError, k.String(), "unsupported leaf dtype in conduit_json")
	}
	switch val.kind {
	case jsonNumber:
		if d.NumElements != 1 {
			return newDtypeErr(ErrKindParseError, k.String(), "number_of_elements=%d does not match scalar \"value\"", d.NumElements)
		}
		return setLeafScalarJSON(n, k, val)
	case jsonArray:
		if int64(len(val.arr)) != d.NumElements {
			return newDtypeErr(ErrKindParseError, k.String(), "number_of_elements=%d does not match \"value\" array length %d", d.NumElements, len(val.arr))
		}
		return setLeafArrayJSON(n, k, val.arr)
	default:
		return newDtypeErr(ErrKindParseError, k.String(), "\"value\" must be a number or array of numbers")
	}
}

func setLeafScalarJSON(n *Node, k Kind, v *jsonValue) error {
	if k.IsFloat() {
		f, err := v.Float()
		if err != nil {
			return newDtypeErr(ErrKindParseError, k.String(), "%v", err)
		}
		if k == KindF32 {
			return n.SetF32(float32(f))
		}
		return n.SetF64(f)
	}
	x, err := v.Int()
	if err != nil {
		return newDtypeErr(ErrKindParseError, k.String(), "%v", err)
	}
	switch k {
	case KindI8:
		return n.SetI8(int8(x))
	case KindI16:
		return n.SetI16(int16(x))
	case KindI32:
		return n.SetI32(int32(x))
	case KindI64:
		return n.SetI64(x)
	case KindU8:
		return n.SetU8(uint8(x))
	case KindU16:
		return n.SetU16(uint16(x))
	case KindU32:
		return n.SetU32(uint32(x))
	case KindU64:
		return n.SetU64(uint64(x))
	default:
		return newDtypeErr(ErrKindParseError, k.String(), "unsupported scalar leaf dtype")
	}
}

func setLeafArrayJSON(n *Node, k Kind, items []*jsonValue) error {
	if k.IsFloat() {
		vals := make([]float64, len(items))
		for i, it := range items {
			f, err := it.Float()
			if err != nil {
				return newDtypeErr(ErrKindParseError, k.String(), "%v", err)
			}
			vals[i] = f
		}
		if k == KindF32 {
			vals32 := make([]float32, len(vals))
			for i, f := range vals {
				vals32[i] = float32(f)
			}
			return n.SetF32Array(vals32)
		}
		return n.SetF64Array(vals)
	}
	vals := make([]int64, len(items))
	for i, it := range items {
		x, err := it.Int()
		if err != nil {
			return newDtypeErr(ErrKindParseError, k.String(), "%v", err)
		}
		vals[i] = x
	}
	switch k {
	case KindI8:
		out := make([]int8, len(vals))
		for i, x := range vals {
			out[i] = int8(x)
		}
		return n.SetI8Array(out)
	case KindI16:
		out := make([]int16, len(vals))
		for i, x := range vals {
			out[i] = int16(x)
		}
		return n.SetI16Array(out)
	case KindI32:
		out := make([]int32, len(vals))
		for i, x := range vals {
			out[i] = int32(x)
		}
		return n.SetI32Array(out)
	case KindI64:
		return n.SetI64Array(vals)
	case KindU8:
		out := make([]uint8, len(vals))
		for i, x := range vals {
			out[i] = uint8(x)
		}
		return n.SetU8Array(out)
	case KindU16:
		out := make([]uint16, len(vals))
		for i, x := range vals {
			out[i] = uint16(x)
		}
		return n.SetU16Array(out)
	case KindU32:
		out := make([]uint32, len(vals))
		for i, x := range vals {
			out[i] = uint32(x)
		}
		return n.SetU32Array(out)
	case KindU64:
		out := make([]uint64, len(vals))
		for i, x := range vals {
			out[i] = uint64(x)
		}
		return n.SetU64Array(out)
	default:
		return newDtypeErr(ErrKindParseError, k.String(), "unsupported array leaf dtype")
	}
}

// ----------------------------------------------------------------------
// json (auto-typed)
// ----------------------------------------------------------------------

func buildPlainJSON(n *Node, v *jsonValue) error {
	switch v.kind {
	case jsonNull:
		n.Reset()
		return nil
	case jsonBool:
		if v.b {
			return n.SetU8(1)
		}
		return n.SetU8(0)
	case jsonNumber:
		if isIntegerLiteral(v.num) {
			x, err := v.Int()
			if err != nil {
				return newErr(ErrKindParseError, "%v", err)
			}
			return n.SetI64(x)
		}
		f, err := v.Float()
		if err != nil {
			return newErr(ErrKindParseError, "%v", err)
		}
		return n.SetF64(f)
	case jsonString:
		return n.SetString(v.str)
	case jsonArray:
		if isNumericArray(v.arr) {
			return buildNumericArrayAuto(n, v.arr)
		}
		if len(v.arr) == 0 && n.schema.kind == KindEmpty {
			n.schema.becomeList()
		}
		for _, item := range v.arr {
			cn, err := n.Append()
			if err != nil {
				return err
			}
			if err := buildPlainJSON(cn, item); err != nil {
				return err
			}
		}
		return nil
	case jsonObject:
		if len(v.obj.keys) == 0 && n.schema.kind == KindEmpty {
			n.schema.becomeObject()
		}
		for _, name := range v.obj.keys {
			child, _ := v.obj.Get(name)
			cn, err := n.Fetch(name)
			if err != nil {
				return err
			}
			if err := buildPlainJSON(cn, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return newErr(ErrKindParseError, "json: unsupported value kind")
	}
}

func isIntegerLiteral(lit string) bool {
	return !strings.ContainsAny(lit, ".eE")
}

func isNumericArray(items []*jsonValue) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if it.kind != jsonNumber {
			return false
		}
	}
	return true
}

// buildNumericArrayAuto builds a numeric array leaf whose element kind is
// inferred from the first element only (spec: "a leaf of that element
// type inferred from the first element"), not from scanning every item.
func buildNumericArrayAuto(n *Node, items []*jsonValue) error {
	if isIntegerLiteral(items[0].num) {
		vals := make([]int64, len(items))
		for i, it := range items {
			x, err := it.Int()
			if err != nil {
				return newErr(ErrKindParseError, "%v", err)
			}
			vals[i] = x
		}
		return n.SetI64Array(vals)
	}
	vals := make([]float64, len(items))
	for i, it := range items {
		f, err := it.Float()
		if err != nil {
			return newErr(ErrKindParseError, "%v", err)
		}
		vals[i] = f
	}
	return n.SetF64Array(vals)
}
