package conduit

import "encoding/binary"

// This file implements the per-kind scalar/array/external set families and
// the as_<kind>/to_<kind> read families of spec §4.3.2. Per design note 9
// ("Polymorphism across primitive kinds... replace with a single generic
// function parameterized by element kind"), every exported per-kind method
// is a thin wrapper over one of the generic engines below.

// Numeric is the closed set of Go types backing the engine's numeric
// kinds (I8..I64, U8..U64, F32, F64).
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// writeGeneric encodes v (whose static Go type determines nothing; k does)
// into buf as kind k using order.
func writeGeneric[T Numeric](buf []byte, k Kind, order binary.ByteOrder, v T) {
	switch {
	case k.IsSignedInteger():
		putInt(buf, k, order, int64(v))
	case k.IsUnsignedInteger():
		putUint(buf, k, order, uint64(v))
	case k.IsFloat():
		putFloat(buf, k, order, float64(v))
	}
}

// readAsT decodes the element stored as kind k at buf and widens/narrows
// it to T via a Go numeric conversion (the engine's C-style static cast).
func readAsT[T Numeric](buf []byte, k Kind, order binary.ByteOrder) T {
	switch {
	case k.IsSignedInteger():
		return T(getInt(buf, k, order))
	case k.IsUnsignedInteger():
		return T(getUint(buf, k, order))
	case k.IsFloat():
		return T(getFloat(buf, k, order))
	default:
		var zero T
		return zero
	}
}

// setScalar replaces n with a single-element leaf of kind k holding v.
func setScalar[T Numeric](n *Node, k Kind, v T) error {
	d := NewTypeDescriptor(k, 1)
	if err := n.resetToLeaf(d); err != nil {
		return err
	}
	writeGeneric(n.data, k, byteOrderFor(d.Endianness), v)
	return nil
}

// setArray replaces n with a compact owned leaf of kind k holding a copy
// of vals.
func setArray[T Numeric](n *Node, k Kind, vals []T) error {
	d := NewTypeDescriptor(k, int64(len(vals)))
	if err := n.resetToLeaf(d); err != nil {
		return err
	}
	order := byteOrderFor(d.Endianness)
	eb := DefaultBytes(k)
	for i, v := range vals {
		writeGeneric(n.data[i*eb:i*eb+eb], k, order, v)
	}
	return nil
}

// asScalarStrict reads element 0 as kind k, requiring the current leaf's
// kind to match exactly (TypeMismatch otherwise).
func asScalarStrict[T Numeric](n *Node, k Kind) (T, error) {
	var zero T
	if n.schema.kind != k {
		return zero, newDtypeErr(ErrKindTypeMismatch, k.String(), "node holds %s, not %s", n.schema.kind, k)
	}
	if len(n.data) < DefaultBytes(k) {
		return zero, newDtypeErr(ErrKindTypeMismatch, k.String(), "leaf has no storage")
	}
	return readAsT[T](n.data, k, byteOrderFor(n.schema.dtype.Endianness)), nil
}

// toScalarCoerce reads element 0 of whatever numeric kind n currently
// holds and casts it to T, C-style.
func toScalarCoerce[T Numeric](n *Node) (T, error) {
	var zero T
	k := n.schema.kind
	if !k.IsNumeric() {
		return zero, newDtypeErr(ErrKindConversionError, k.String(), "cannot coerce non-numeric leaf to a numeric kind")
	}
	if len(n.data) < DefaultBytes(k) {
		return zero, newDtypeErr(ErrKindConversionError, k.String(), "leaf has no storage")
	}
	return readAsT[T](n.data, k, byteOrderFor(n.schema.dtype.Endianness)), nil
}

// StridedArray is a non-owning, strided view over a leaf Node's elements,
// honoring the leaf's stored stride and endianness (spec §4.3.2
// "as_<kind>_array"). It is invalidated by any later Set*/Reset on the
// underlying Node.
type StridedArray[T Numeric] struct {
	node *Node
	kind Kind
}

// Len returns the number of elements in the view.
func (a StridedArray[T]) Len() int64 {
	if a.node == nil {
		return 0
	}
	return a.node.schema.dtype.NumElements
}

// At returns element i, decoded per the leaf's stride/endianness.
func (a StridedArray[T]) At(i int64) T {
	d := a.node.schema.dtype
	order := byteOrderFor(d.Endianness)
	off := i * d.Stride
	return readAsT[T](a.node.data[off:off+int64(DefaultBytes(a.kind))], a.kind, order)
}

// SetAt writes v to element i, honoring the leaf's stride/endianness.
func (a StridedArray[T]) SetAt(i int64, v T) {
	d := a.node.schema.dtype
	order := byteOrderFor(d.Endianness)
	off := i * d.Stride
	writeGeneric(a.node.data[off:off+int64(DefaultBytes(a.kind))], a.kind, order, v)
}

// Slice materializes a compact []T copy of the view.
func (a StridedArray[T]) Slice() []T {
	n := a.Len()
	out := make([]T, n)
	for i := int64(0); i < n; i++ {
		out[i] = a.At(i)
	}
	return out
}

func asArrayStrict[T Numeric](n *Node, k Kind) (StridedArray[T], error) {
	if n.schema.kind != k {
		return StridedArray[T]{}, newDtypeErr(ErrKindTypeMismatch, k.String(), "node holds %s, not %s", n.schema.kind, k)
	}
	return StridedArray[T]{node: n, kind: k}, nil
}

// toArrayCoerce writes every element of n's current leaf, C-style cast to
// T, into dest as a freshly allocated compact leaf of kind destKind.
func toArrayCoerce[T Numeric](n *Node, destKind Kind, dest *Node) error {
	srcKind := n.schema.kind
	if !srcKind.IsNumeric() {
		return newDtypeErr(ErrKindConversionError, srcKind.String(), "cannot coerce non-numeric leaf to a numeric array")
	}
	count := n.schema.dtype.NumElements
	vals := make([]T, count)
	srcOrder := byteOrderFor(n.schema.dtype.Endianness)
	srcEB := int64(DefaultBytes(srcKind))
	srcStride := n.schema.dtype.Stride
	for i := int64(0); i < count; i++ {
		off := i * srcStride
		vals[i] = readAsT[T](n.data[off:off+srcEB], srcKind, srcOrder)
	}
	return setArray(dest, destKind, vals)
}

// setStrided copies count elements of kind k from src (absolute byte
// positions offset+i*stride, each elementBytes wide, encoded as end) into
// a fresh compact owned leaf on n — spec §4.3.2 family 3, "Pointer set".
func setStrided(n *Node, k Kind, src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	srcDesc := TypeDescriptor{Kind: k, NumElements: count, Offset: offset, Stride: stride, ElementBytes: elementBytes, Endianness: end}
	if err := srcDesc.Validate(); err != nil {
		return err
	}
	need := srcDesc.TotalBytes()
	if need > int64(len(src)) {
		return newDtypeErr(ErrKindInvalidLayout, k.String(), "source buffer too small: need %d bytes, got %d", need, len(src))
	}
	dst := NewTypeDescriptor(k, count)
	if err := n.resetToLeaf(dst); err != nil {
		return err
	}
	srcOrder := byteOrderFor(end)
	dstOrder := byteOrderFor(dst.Endianness)
	dstEB := int64(DefaultBytes(k))
	for i := int64(0); i < count; i++ {
		pos := srcDesc.ElementIndex(i)
		raw := copyElementRaw(src[pos:pos+elementBytes], k, srcOrder, dstOrder)
		copy(n.data[i*dstEB:i*dstEB+dstEB], raw)
	}
	return nil
}

// copyElementRaw re-encodes one element of kind k from srcOrder to
// dstOrder (a no-op unless the two differ).
func copyElementRaw(elem []byte, k Kind, srcOrder, dstOrder binary.ByteOrder) []byte {
	out := make([]byte, DefaultBytes(k))
	switch {
	case k.IsSignedInteger():
		putInt(out, k, dstOrder, getInt(elem, k, srcOrder))
	case k.IsUnsignedInteger():
		putUint(out, k, dstOrder, getUint(elem, k, srcOrder))
	case k.IsFloat():
		putFloat(out, k, dstOrder, getFloat(elem, k, srcOrder))
	}
	return out
}

// setExternalStrided binds n directly over src[offset:...], without
// copying, as a leaf of kind k with the given (possibly non-compact)
// layout — spec §4.3.2 family 4, "External set".
func setExternalStrided(n *Node, k Kind, src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	d := TypeDescriptor{Kind: k, NumElements: count, Offset: 0, Stride: stride, ElementBytes: elementBytes, Endianness: end}
	if err := d.Validate(); err != nil {
		return err
	}
	end64 := offset + leafSpan(TypeDescriptor{NumElements: count, Stride: stride, ElementBytes: elementBytes})
	if end64 > int64(len(src)) || offset < 0 {
		return newDtypeErr(ErrKindInvalidLayout, k.String(), "external buffer too small or offset invalid")
	}
	n.children = nil
	n.schema.Set(d)
	n.data = src[offset:end64]
	n.bufTag = bufExternal
	return nil
}

// ---------------------------------------------------------------------
// Per-kind exported wrappers.
// ---------------------------------------------------------------------

// int8
func (n *Node) SetI8(v int8) error               { return setScalar(n, KindI8, v) }
func (n *Node) SetI8Array(vals []int8) error      { return setArray(n, KindI8, vals) }
func (n *Node) AsI8() (int8, error)               { return asScalarStrict[int8](n, KindI8) }
func (n *Node) AsI8Array() (StridedArray[int8], error) { return asArrayStrict[int8](n, KindI8) }
func (n *Node) ToI8() (int8, error)               { return toScalarCoerce[int8](n) }
func (n *Node) ToI8Array(dest *Node) error         { return toArrayCoerce[int8](n, KindI8, dest) }
func (n *Node) SetExternalI8(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindI8, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetI8Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindI8, src, count, offset, stride, elementBytes, end)
}

// int16
func (n *Node) SetI16(v int16) error                 { return setScalar(n, KindI16, v) }
func (n *Node) SetI16Array(vals []int16) error        { return setArray(n, KindI16, vals) }
func (n *Node) AsI16() (int16, error)                 { return asScalarStrict[int16](n, KindI16) }
func (n *Node) AsI16Array() (StridedArray[int16], error) { return asArrayStrict[int16](n, KindI16) }
func (n *Node) ToI16() (int16, error)                 { return toScalarCoerce[int16](n) }
func (n *Node) ToI16Array(dest *Node) error            { return toArrayCoerce[int16](n, KindI16, dest) }
func (n *Node) SetExternalI16(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindI16, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetI16Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindI16, src, count, offset, stride, elementBytes, end)
}

// int32
func (n *Node) SetI32(v int32) error                 { return setScalar(n, KindI32, v) }
func (n *Node) SetI32Array(vals []int32) error        { return setArray(n, KindI32, vals) }
func (n *Node) AsI32() (int32, error)                 { return asScalarStrict[int32](n, KindI32) }
func (n *Node) AsI32Array() (StridedArray[int32], error) { return asArrayStrict[int32](n, KindI32) }
func (n *Node) ToI32() (int32, error)                 { return toScalarCoerce[int32](n) }
func (n *Node) ToI32Array(dest *Node) error            { return toArrayCoerce[int32](n, KindI32, dest) }
func (n *Node) SetExternalI32(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindI32, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetI32Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindI32, src, count, offset, stride, elementBytes, end)
}

// int64
func (n *Node) SetI64(v int64) error                 { return setScalar(n, KindI64, v) }
func (n *Node) SetI64Array(vals []int64) error        { return setArray(n, KindI64, vals) }
func (n *Node) AsI64() (int64, error)                 { return asScalarStrict[int64](n, KindI64) }
func (n *Node) AsI64Array() (StridedArray[int64], error) { return asArrayStrict[int64](n, KindI64) }
func (n *Node) ToI64() (int64, error)                 { return toScalarCoerce[int64](n) }
func (n *Node) ToI64Array(dest *Node) error            { return toArrayCoerce[int64](n, KindI64, dest) }
func (n *Node) SetExternalI64(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindI64, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetI64Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindI64, src, count, offset, stride, elementBytes, end)
}

// uint8
func (n *Node) SetU8(v uint8) error                 { return setScalar(n, KindU8, v) }
func (n *Node) SetU8Array(vals []uint8) error        { return setArray(n, KindU8, vals) }
func (n *Node) AsU8() (uint8, error)                 { return asScalarStrict[uint8](n, KindU8) }
func (n *Node) AsU8Array() (StridedArray[uint8], error) { return asArrayStrict[uint8](n, KindU8) }
func (n *Node) ToU8() (uint8, error)                 { return toScalarCoerce[uint8](n) }
func (n *Node) ToU8Array(dest *Node) error            { return toArrayCoerce[uint8](n, KindU8, dest) }
func (n *Node) SetExternalU8(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindU8, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetU8Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindU8, src, count, offset, stride, elementBytes, end)
}

// uint16
func (n *Node) SetU16(v uint16) error                 { return setScalar(n, KindU16, v) }
func (n *Node) SetU16Array(vals []uint16) error        { return setArray(n, KindU16, vals) }
func (n *Node) AsU16() (uint16, error)                 { return asScalarStrict[uint16](n, KindU16) }
func (n *Node) AsU16Array() (StridedArray[uint16], error) { return asArrayStrict[uint16](n, KindU16) }
func (n *Node) ToU16() (uint16, error)                 { return toScalarCoerce[uint16](n) }
func (n *Node) ToU16Array(dest *Node) error            { return toArrayCoerce[uint16](n, KindU16, dest) }
func (n *Node) SetExternalU16(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindU16, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetU16Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindU16, src, count, offset, stride, elementBytes, end)
}

// uint32
func (n *Node) SetU32(v uint32) error                 { return setScalar(n, KindU32, v) }
func (n *Node) SetU32Array(vals []uint32) error        { return setArray(n, KindU32, vals) }
func (n *Node) AsU32() (uint32, error)                 { return asScalarStrict[uint32](n, KindU32) }
func (n *Node) AsU32Array() (StridedArray[uint32], error) { return asArrayStrict[uint32](n, KindU32) }
func (n *Node) ToU32() (uint32, error)                 { return toScalarCoerce[uint32](n) }
func (n *Node) ToU32Array(dest *Node) error            { return toArrayCoerce[uint32](n, KindU32, dest) }
func (n *Node) SetExternalU32(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindU32, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetU32Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindU32, src, count, offset, stride, elementBytes, end)
}

// uint64
func (n *Node) SetU64(v uint64) error                 { return setScalar(n, KindU64, v) }
func (n *Node) SetU64Array(vals []uint64) error        { return setArray(n, KindU64, vals) }
func (n *Node) AsU64() (uint64, error)                 { return asScalarStrict[uint64](n, KindU64) }
func (n *Node) AsU64Array() (StridedArray[uint64], error) { return asArrayStrict[uint64](n, KindU64) }
func (n *Node) ToU64() (uint64, error)                 { return toScalarCoerce[uint64](n) }
func (n *Node) ToU64Array(dest *Node) error            { return toArrayCoerce[uint64](n, KindU64, dest) }
func (n *Node) SetExternalU64(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindU64, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetU64Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindU64, src, count, offset, stride, elementBytes, end)
}

// float32
func (n *Node) SetF32(v float32) error                 { return setScalar(n, KindF32, v) }
func (n *Node) SetF32Array(vals []float32) error        { return setArray(n, KindF32, vals) }
func (n *Node) AsF32() (float32, error)                 { return asScalarStrict[float32](n, KindF32) }
func (n *Node) AsF32Array() (StridedArray[float32], error) { return asArrayStrict[float32](n, KindF32) }
func (n *Node) ToF32() (float32, error)                 { return toScalarCoerce[float32](n) }
func (n *Node) ToF32Array(dest *Node) error            { return toArrayCoerce[float32](n, KindF32, dest) }
func (n *Node) SetExternalF32(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindF32, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetF32Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindF32, src, count, offset, stride, elementBytes, end)
}

// float64
func (n *Node) SetF64(v float64) error                 { return setScalar(n, KindF64, v) }
func (n *Node) SetF64Array(vals []float64) error        { return setArray(n, KindF64, vals) }
func (n *Node) AsF64() (float64, error)                 { return asScalarStrict[float64](n, KindF64) }
func (n *Node) AsF64Array() (StridedArray[float64], error) { return asArrayStrict[float64](n, KindF64) }
func (n *Node) ToF64() (float64, error)                 { return toScalarCoerce[float64](n) }
func (n *Node) ToF64Array(dest *Node) error            { return toArrayCoerce[float64](n, KindF64, dest) }
func (n *Node) SetExternalF64(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setExternalStrided(n, KindF64, src, count, offset, stride, elementBytes, end)
}
func (n *Node) SetF64Strided(src []byte, count, offset, stride, elementBytes int64, end Endianness) error {
	return setStrided(n, KindF64, src, count, offset, stride, elementBytes, end)
}

// ToInteger and ToReal mirror the original Node::to_integer()/to_real()
// (see original_source/src/conduit/Node.h): widest-width coercions handy
// for generic callers that don't care about the exact source width.
func (n *Node) ToInteger() (int64, error) { return toScalarCoerce[int64](n) }
func (n *Node) ToReal() (float64, error)  { return toScalarCoerce[float64](n) }

// ---------------------------------------------------------------------
// CHAR8_STR (string leaf).
// ---------------------------------------------------------------------

// SetString replaces n with a CHAR8_STR leaf holding s plus its trailing
// NUL (spec §3.1: "stored count always includes a trailing NUL").
func (n *Node) SetString(s string) error {
	d := TypeDescriptor{Kind: KindChar8Str, NumElements: int64(len(s)) + 1, Offset: 0, Stride: 1, ElementBytes: 1}
	if err := n.resetToLeaf(d); err != nil {
		return err
	}
	copy(n.data, s)
	n.data[len(s)] = 0
	return nil
}

// SetExternalString binds n over an externally-owned, NUL-terminated
// CHAR8_STR buffer without copying.
func (n *Node) SetExternalString(buf []byte) error {
	n2 := len(buf)
	if n2 == 0 || buf[n2-1] != 0 {
		return newDtypeErr(ErrKindInvalidLayout, "char8_str", "external string buffer must be NUL-terminated")
	}
	d := TypeDescriptor{Kind: KindChar8Str, NumElements: int64(n2), Offset: 0, Stride: 1, ElementBytes: 1}
	if err := d.Validate(); err != nil {
		return err
	}
	n.children = nil
	n.schema.Set(d)
	n.data = buf
	n.bufTag = bufExternal
	return nil
}

// AsString reads the stored string, excluding its trailing NUL, requiring
// the current leaf kind to be CHAR8_STR exactly.
func (n *Node) AsString() (string, error) {
	if n.schema.kind != KindChar8Str {
		return "", newDtypeErr(ErrKindTypeMismatch, "char8_str", "node holds %s, not char8_str", n.schema.kind)
	}
	if len(n.data) == 0 {
		return "", nil
	}
	return string(n.data[:len(n.data)-1]), nil
}
