// Package conduit implements an in-memory hierarchical typed-data engine:
// a Type Descriptor algebra, a Schema tree describing layout, a Node tree
// binding that layout to owned or externally-owned memory, and a Generator
// that parses a JSON-shaped schema (optionally with an inline or base64
// data payload) into a Schema and/or Node.
//
// The four pieces are tightly coupled: Schema defines layout, Node binds
// layout to memory and enforces typing, TypeDescriptor is the leaf
// algebra, and Generator is the deserializer. Mesh conventions, file/HDF5
// backends, partitioning and point-merging are out of scope; they are
// expected to consume this package through Node/Schema/Generator alone.
package conduit

import (
	"unsafe"
)

// Kind enumerates the closed set of leaf and composite dtypes.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindObject
	KindList
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindChar8Str
)

// String returns the canonical dtype name used in JSON forms (§6.3).
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindI8:
		return "int8"
	case KindI16:
		return "int16"
	case KindI32:
		return "int32"
	case KindI64:
		return "int64"
	case KindU8:
		return "uint8"
	case KindU16:
		return "uint16"
	case KindU32:
		return "uint32"
	case KindU64:
		return "uint64"
	case KindF32:
		return "float32"
	case KindF64:
		return "float64"
	case KindChar8Str:
		return "char8_str"
	default:
		return "unknown"
	}
}

// ParseKind resolves a dtype name (including the native C-family aliases
// from §3.1: char/short/int/long and unsigned/float/double forms) to a Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "empty":
		return KindEmpty, true
	case "object":
		return KindObject, true
	case "list":
		return KindList, true
	case "int8", "char", "signed char":
		return KindI8, true
	case "int16", "short":
		return KindI16, true
	case "int32", "int":
		return KindI32, true
	case "int64", "long", "index_t":
		return KindI64, true
	case "uint8", "unsigned char":
		return KindU8, true
	case "uint16", "unsigned short":
		return KindU16, true
	case "uint32", "unsigned int":
		return KindU32, true
	case "uint64", "unsigned long":
		return KindU64, true
	case "float32", "float":
		return KindF32, true
	case "float64", "double":
		return KindF64, true
	case "char8_str", "string":
		return KindChar8Str, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether k is one of the signed/unsigned/floating kinds.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64,
		KindU8, KindU16, KindU32, KindU64,
		KindF32, KindF64:
		return true
	default:
		return false
	}
}

// IsSignedInteger reports whether k is one of I8/I16/I32/I64.
func (k Kind) IsSignedInteger() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

// IsUnsignedInteger reports whether k is one of U8/U16/U32/U64.
func (k Kind) IsUnsignedInteger() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether k is F32 or F64.
func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// IsComposite reports whether k is OBJECT or LIST.
func (k Kind) IsComposite() bool {
	return k == KindObject || k == KindList
}

// IsLeaf reports whether k is a primitive (numeric or string) kind, i.e.
// neither a composite nor EMPTY.
func (k Kind) IsLeaf() bool {
	return k.IsNumeric() || k == KindChar8Str
}

// DefaultBytes returns the default element width for a numeric kind, and 1
// for CHAR8_STR (each stored byte, including the trailing NUL, is one
// element). Composite and EMPTY kinds return 0.
func DefaultBytes(k Kind) int {
	switch k {
	case KindI8, KindU8, KindChar8Str:
		return 1
	case KindI16, KindU16:
		return 2
	case KindI32, KindU32, KindF32:
		return 4
	case KindI64, KindU64, KindF64:
		return 8
	default:
		return 0
	}
}

// Endianness is BIG, LITTLE, or DEFAULT ("host default" resolved at access
// time; never cached in package state).
type Endianness uint8

const (
	EndianDefault Endianness = iota
	EndianBig
	EndianLittle
)

// String returns the canonical JSON spelling of the endianness.
func (e Endianness) String() string {
	switch e {
	case EndianBig:
		return "big"
	case EndianLittle:
		return "little"
	default:
		return "default"
	}
}

// ParseEndianness parses the JSON spelling of an endianness.
func ParseEndianness(s string) (Endianness, bool) {
	switch s {
	case "big":
		return EndianBig, true
	case "little":
		return EndianLittle, true
	case "default", "":
		return EndianDefault, true
	default:
		return 0, false
	}
}

// hostLittleEndian detects the host's native byte order without caching it
// in package state (§9 "do not cache it in module state"); it is cheap
// enough to recompute per call.
func hostLittleEndian() bool {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	return b[0] == 1
}

// Resolved returns the concrete BIG/LITTLE endianness this value means on
// the current host, resolving DEFAULT.
func (e Endianness) Resolved() Endianness {
	if e != EndianDefault {
		return e
	}
	if hostLittleEndian() {
		return EndianLittle
	}
	return EndianBig
}

// TypeDescriptor describes one leaf element layout: primitive kind, count,
// byte offset, stride, element size and endianness. See spec §3.2.
type TypeDescriptor struct {
	Kind         Kind
	NumElements  int64
	Offset       int64
	Stride       int64
	ElementBytes int64
	Endianness   Endianness
}

// NewTypeDescriptor builds a compact TypeDescriptor for kind k with n
// elements starting at byte offset 0.
func NewTypeDescriptor(k Kind, n int64) TypeDescriptor {
	eb := int64(DefaultBytes(k))
	return TypeDescriptor{
		Kind:         k,
		NumElements:  n,
		Offset:       0,
		Stride:       eb,
		ElementBytes: eb,
		Endianness:   EndianDefault,
	}
}

// Validate checks the invariants of §3.2 and returns an InvalidLayout
// error describing the first violation found, or nil.
func (d TypeDescriptor) Validate() error {
	if d.NumElements < 0 {
		return newDtypeErr(ErrKindInvalidLayout, d.Kind.String(), "num_elements must be >= 0, got %d", d.NumElements)
	}
	if d.Kind.IsNumeric() {
		if d.ElementBytes < int64(DefaultBytes(d.Kind)) {
			return newDtypeErr(ErrKindInvalidLayout, d.Kind.String(),
				"element_bytes (%d) must be >= default_bytes (%d)", d.ElementBytes, DefaultBytes(d.Kind))
		}
	}
	if d.NumElements > 1 && d.Stride < d.ElementBytes {
		return newDtypeErr(ErrKindInvalidLayout, d.Kind.String(),
			"stride (%d) must be >= element_bytes (%d) when num_elements > 1", d.Stride, d.ElementBytes)
	}
	return nil
}

// ElementIndex returns the byte offset of element i: offset + i*stride.
func (d TypeDescriptor) ElementIndex(i int64) int64 {
	return d.Offset + i*d.Stride
}

// IsCompact reports whether stride == element_bytes and element_bytes ==
// default_bytes(kind).
func (d TypeDescriptor) IsCompact() bool {
	return d.Stride == d.ElementBytes && d.ElementBytes == int64(DefaultBytes(d.Kind))
}

// IsCompatible reports whether d and other share kind, num_elements,
// element_bytes and endianness; offset/stride need not match.
func (d TypeDescriptor) IsCompatible(other TypeDescriptor) bool {
	return d.Kind == other.Kind &&
		d.NumElements == other.NumElements &&
		d.ElementBytes == other.ElementBytes &&
		d.Endianness == other.Endianness
}

// TotalBytes returns the number of bytes spanned by this leaf descriptor:
// offset + (num_elements-1)*stride + element_bytes. A descriptor with no
// elements spans only its offset.
func (d TypeDescriptor) TotalBytes() int64 {
	if d.NumElements <= 0 {
		return d.Offset
	}
	n := d.NumElements - 1
	return d.Offset + n*d.Stride + d.ElementBytes
}

// CompactBytes returns the byte span this descriptor would occupy if laid
// out compactly starting at offset 0: num_elements * default_bytes(kind).
func (d TypeDescriptor) CompactBytes() int64 {
	return d.NumElements * int64(DefaultBytes(d.Kind))
}

