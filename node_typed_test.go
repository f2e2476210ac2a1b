package conduit

import "testing"

func TestSetScalarAndAsScalarStrict(t *testing.T) {
	n := NewNode()
	if err := n.SetI32(-42); err != nil {
		t.Fatalf("SetI32: %v", err)
	}
	got, err := n.AsI32()
	if err != nil {
		t.Fatalf("AsI32: %v", err)
	}
	if got != -42 {
		t.Errorf("AsI32() = %d, want -42", got)
	}
}

func TestAsScalarStrictRejectsKindMismatch(t *testing.T) {
	n := NewNode()
	if err := n.SetI32(1); err != nil {
		t.Fatal(err)
	}
	if _, err := n.AsF64(); err == nil {
		t.Fatal("AsF64 on an i32 leaf should fail (strict accessors do not coerce)")
	}
}

func TestToScalarCoerceAcrossNumericKinds(t *testing.T) {
	n := NewNode()
	if err := n.SetF64(3.9); err != nil {
		t.Fatal(err)
	}
	got, err := n.ToI32()
	if err != nil {
		t.Fatalf("ToI32: %v", err)
	}
	if got != 3 {
		t.Errorf("ToI32() on 3.9 = %d, want 3 (C-style truncation)", got)
	}
}

func TestToIntegerAndToReal(t *testing.T) {
	n := NewNode()
	if err := n.SetU16(500); err != nil {
		t.Fatal(err)
	}
	iv, err := n.ToInteger()
	if err != nil {
		t.Fatalf("ToInteger: %v", err)
	}
	if iv != 500 {
		t.Errorf("ToInteger() = %d, want 500", iv)
	}
	rv, err := n.ToReal()
	if err != nil {
		t.Fatalf("ToReal: %v", err)
	}
	if rv != 500.0 {
		t.Errorf("ToReal() = %v, want 500.0", rv)
	}
}

func TestSetArrayAndStridedArrayMutation(t *testing.T) {
	n := NewNode()
	if err := n.SetF32Array([]float32{1, 2, 3}); err != nil {
		t.Fatalf("SetF32Array: %v", err)
	}
	arr, err := n.AsF32Array()
	if err != nil {
		t.Fatalf("AsF32Array: %v", err)
	}
	arr.SetAt(1, 20)
	if arr.At(1) != 20 {
		t.Errorf("SetAt/At mismatch: got %v, want 20", arr.At(1))
	}
	if got := arr.Slice(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("Slice() = %v, want [1 20 3]", got)
	}
}

func TestSetExternalAliasesBuffer(t *testing.T) {
	n := NewNode()
	raw := make([]byte, 8)
	if err := n.SetExternalI32(raw, 2, 0, 4, 4, EndianDefault); err != nil {
		t.Fatalf("SetExternalI32: %v", err)
	}
	arr, err := n.AsI32Array()
	if err != nil {
		t.Fatal(err)
	}
	arr.SetAt(0, 0x11223344)
	if raw[0] == 0 && raw[1] == 0 && raw[2] == 0 && raw[3] == 0 {
		t.Error("SetExternalI32 should alias the caller's buffer, but raw was untouched")
	}
}

func TestSetStridedReencodesAcrossStride(t *testing.T) {
	n, err := NewNodeFromDtype(NewTypeDescriptor(KindI16, 3))
	if err != nil {
		t.Fatal(err)
	}
	src := make([]byte, 3*8)
	for i := 0; i < 3; i++ {
		v := int16(i + 1)
		src[i*8] = byte(v)
		src[i*8+1] = byte(v >> 8)
	}
	if err := n.SetI16Strided(src, 3, 0, 8, 2, EndianLittle); err != nil {
		t.Fatalf("SetI16Strided: %v", err)
	}
	arr, err := n.AsI16Array()
	if err != nil {
		t.Fatal(err)
	}
	if arr.At(0) != 1 || arr.At(1) != 2 || arr.At(2) != 3 {
		t.Errorf("restrided values = [%d %d %d], want [1 2 3]", arr.At(0), arr.At(1), arr.At(2))
	}
}

func TestStringRoundTrip(t *testing.T) {
	n := NewNode()
	if err := n.SetString("hello"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if n.Kind() != KindChar8Str {
		t.Fatalf("Kind() = %v, want CharStr", n.Kind())
	}
	got, err := n.AsString()
	if err != nil {
		t.Fatalf("AsString: %v", err)
	}
	if got != "hello" {
		t.Errorf("AsString() = %q, want %q", got, "hello")
	}
}

func TestSetExternalStringAliasesBuffer(t *testing.T) {
	n := NewNode()
	buf := []byte("abc\x00")
	if err := n.SetExternalString(buf); err != nil {
		t.Fatalf("SetExternalString: %v", err)
	}
	buf[0] = 'z'
	got, err := n.AsString()
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 'z' {
		t.Errorf("external string should alias the caller's buffer, got %q", got)
	}
}
