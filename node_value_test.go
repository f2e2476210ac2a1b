package conduit

import "testing"

func TestValueScalarAccessorsCoerce(t *testing.T) {
	n := NewNode()
	if err := n.SetU16(7); err != nil {
		t.Fatal(err)
	}
	v := n.Value()
	if v.Kind() != KindU16 {
		t.Fatalf("Kind() = %v, want U16", v.Kind())
	}
	f, err := v.Float64()
	if err != nil {
		t.Fatalf("Float64: %v", err)
	}
	if f != 7.0 {
		t.Errorf("Float64() = %v, want 7.0", f)
	}
	i, err := v.Integer()
	if err != nil {
		t.Fatalf("Integer: %v", err)
	}
	if i != 7 {
		t.Errorf("Integer() = %d, want 7", i)
	}
}

func TestValueStringAccessor(t *testing.T) {
	n := NewNode()
	if err := n.SetString("abc"); err != nil {
		t.Fatal(err)
	}
	s, err := n.Value().String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if s != "abc" {
		t.Errorf("String() = %q, want %q", s, "abc")
	}
}

func TestValueArrayAccessorIsStrict(t *testing.T) {
	n := NewNode()
	if err := n.SetU8Array([]uint8{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	v := n.Value()
	arr, err := v.Uint8Array()
	if err != nil {
		t.Fatalf("Uint8Array: %v", err)
	}
	if arr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", arr.Len())
	}
	if _, err := v.Int32Array(); err == nil {
		t.Error("Int32Array on a u8 leaf should fail (strict array accessors do not coerce)")
	}
}

func TestValueNodeReturnsUnderlyingNode(t *testing.T) {
	n := NewNode()
	n.SetI32(5)
	v := n.Value()
	if v.Node() != n {
		t.Error("Value.Node() should return the same Node it was created from")
	}
}
