package conduit

import (
	"encoding/binary"
	"math"
)

// byteOrderFor resolves an Endianness to a stdlib binary.ByteOrder.
func byteOrderFor(e Endianness) binary.ByteOrder {
	if e.Resolved() == EndianBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// putInt writes a signed integer of kind k into buf[0:DefaultBytes(k)]
// using order, truncating/sign-extending as needed.
func putInt(buf []byte, k Kind, order binary.ByteOrder, v int64) {
	switch k {
	case KindI8:
		buf[0] = byte(v)
	case KindI16:
		order.PutUint16(buf, uint16(v))
	case KindI32:
		order.PutUint32(buf, uint32(v))
	case KindI64:
		order.PutUint64(buf, uint64(v))
	}
}

// getInt reads a signed integer of kind k from buf using order.
func getInt(buf []byte, k Kind, order binary.ByteOrder) int64 {
	switch k {
	case KindI8:
		return int64(int8(buf[0]))
	case KindI16:
		return int64(int16(order.Uint16(buf)))
	case KindI32:
		return int64(int32(order.Uint32(buf)))
	case KindI64:
		return int64(order.Uint64(buf))
	}
	return 0
}

// putUint writes an unsigned integer of kind k into buf using order.
func putUint(buf []byte, k Kind, order binary.ByteOrder, v uint64) {
	switch k {
	case KindU8:
		buf[0] = byte(v)
	case KindU16:
		order.PutUint16(buf, uint16(v))
	case KindU32:
		order.PutUint32(buf, uint32(v))
	case KindU64:
		order.PutUint64(buf, v)
	}
}

// getUint reads an unsigned integer of kind k from buf using order.
func getUint(buf []byte, k Kind, order binary.ByteOrder) uint64 {
	switch k {
	case KindU8:
		return uint64(buf[0])
	case KindU16:
		return uint64(order.Uint16(buf))
	case KindU32:
		return uint64(order.Uint32(buf))
	case KindU64:
		return order.Uint64(buf)
	}
	return 0
}

// putFloat writes a float of kind k (F32 or F64) into buf using order.
func putFloat(buf []byte, k Kind, order binary.ByteOrder, v float64) {
	switch k {
	case KindF32:
		order.PutUint32(buf, math.Float32bits(float32(v)))
	case KindF64:
		order.PutUint64(buf, math.Float64bits(v))
	}
}

// getFloat reads a float of kind k from buf using order.
func getFloat(buf []byte, k Kind, order binary.ByteOrder) float64 {
	switch k {
	case KindF32:
		return float64(math.Float32frombits(order.Uint32(buf)))
	case KindF64:
		return math.Float64frombits(order.Uint64(buf))
	}
	return 0
}

// swapElementBytes reverses the byte order of a single element of kind k
// in place at buf[0:DefaultBytes(k)].
func swapElementBytes(buf []byte, k Kind) {
	n := DefaultBytes(k)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// getAsInt64 reads the element at buf as its own kind k and widens it to
// int64 (used by numeric->numeric coercion, not strict reads).
func getAsInt64(buf []byte, k Kind, order binary.ByteOrder) int64 {
	switch {
	case k.IsSignedInteger():
		return getInt(buf, k, order)
	case k.IsUnsignedInteger():
		return int64(getUint(buf, k, order))
	case k.IsFloat():
		return int64(getFloat(buf, k, order))
	default:
		return 0
	}
}

func getAsUint64(buf []byte, k Kind, order binary.ByteOrder) uint64 {
	switch {
	case k.IsSignedInteger():
		return uint64(getInt(buf, k, order))
	case k.IsUnsignedInteger():
		return getUint(buf, k, order)
	case k.IsFloat():
		return uint64(getFloat(buf, k, order))
	default:
		return 0
	}
}

func getAsFloat64(buf []byte, k Kind, order binary.ByteOrder) float64 {
	switch {
	case k.IsSignedInteger():
		return float64(getInt(buf, k, order))
	case k.IsUnsignedInteger():
		return float64(getUint(buf, k, order))
	case k.IsFloat():
		return getFloat(buf, k, order)
	default:
		return 0
	}
}
