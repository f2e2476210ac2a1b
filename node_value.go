package conduit

// Value is the polymorphic accessor handle of spec §4.3.8: a Node bundled
// with every kind-tagged read it might support. Scalar/wide accessors
// coerce (any numeric leaf converts, C-style, to the requested Go type);
// array accessors are strict views and fail with TypeMismatch unless the
// leaf's own kind matches exactly, since a strided view cannot safely
// reinterpret another kind's element width.
type Value struct {
	node *Node
}

// Value returns a Value handle over n.
func (n *Node) Value() Value { return Value{node: n} }

// Node returns the underlying Node.
func (v Value) Node() *Node { return v.node }

// Kind returns the underlying Node's Schema kind.
func (v Value) Kind() Kind { return v.node.Kind() }

// Coercing scalar reads.
func (v Value) Int8() (int8, error)     { return v.node.ToI8() }
func (v Value) Int16() (int16, error)   { return v.node.ToI16() }
func (v Value) Int32() (int32, error)   { return v.node.ToI32() }
func (v Value) Int64() (int64, error)   { return v.node.ToI64() }
func (v Value) Uint8() (uint8, error)   { return v.node.ToU8() }
func (v Value) Uint16() (uint16, error) { return v.node.ToU16() }
func (v Value) Uint32() (uint32, error) { return v.node.ToU32() }
func (v Value) Uint64() (uint64, error) { return v.node.ToU64() }
func (v Value) Float32() (float32, error) { return v.node.ToF32() }
func (v Value) Float64() (float64, error) { return v.node.ToF64() }

// Integer and Real are the wide coercing reads (mirroring
// Node.ToInteger/Node.ToReal).
func (v Value) Integer() (int64, error) { return v.node.ToInteger() }
func (v Value) Real() (float64, error)  { return v.node.ToReal() }

// String reads a CHAR8_STR leaf; it does not coerce numeric leaves.
func (v Value) String() (string, error) { return v.node.AsString() }

// Strict array views. Each fails with TypeMismatch unless the leaf's
// kind is exactly the requested one.
func (v Value) Int8Array() (StridedArray[int8], error)     { return v.node.AsI8Array() }
func (v Value) Int16Array() (StridedArray[int16], error)   { return v.node.AsI16Array() }
func (v Value) Int32Array() (StridedArray[int32], error)   { return v.node.AsI32Array() }
func (v Value) Int64Array() (StridedArray[int64], error)   { return v.node.AsI64Array() }
func (v Value) Uint8Array() (StridedArray[uint8], error)   { return v.node.AsU8Array() }
func (v Value) Uint16Array() (StridedArray[uint16], error) { return v.node.AsU16Array() }
func (v Value) Uint32Array() (StridedArray[uint32], error) { return v.node.AsU32Array() }
func (v Value) Uint64Array() (StridedArray[uint64], error) { return v.node.AsU64Array() }
func (v Value) Float32Array() (StridedArray[float32], error) { return v.node.AsF32Array() }
func (v Value) Float64Array() (StridedArray[float64], error) { return v.node.AsF64Array() }
