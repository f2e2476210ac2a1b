package conduit

import "testing"

func TestInfoCountsAllocedBytes(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	if err := a.SetI32Array([]int32{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	b, _ := n.Fetch("b")
	if err := b.SetF64(1.0); err != nil {
		t.Fatal(err)
	}

	info := n.Info()
	want := int64(4*4 + 8)
	if info.TotalBytesAlloced != want {
		t.Errorf("TotalBytesAlloced = %d, want %d", info.TotalBytesAlloced, want)
	}
	if info.TotalBytesExternal != 0 {
		t.Errorf("TotalBytesExternal = %d, want 0", info.TotalBytesExternal)
	}
	if len(info.MemSpaces) != 2 {
		t.Fatalf("MemSpaces = %v, want 2 entries", info.MemSpaces)
	}
}

func TestInfoCountsExternalBytes(t *testing.T) {
	s := NewSchema()
	s.Set(NewTypeDescriptor(KindU8, 16))
	base := make([]byte, 16)
	n, err := NewNodeFromSchemaExternal(s, base)
	if err != nil {
		t.Fatal(err)
	}
	info := n.Info()
	if info.TotalBytesExternal != 16 {
		t.Errorf("TotalBytesExternal = %d, want 16", info.TotalBytesExternal)
	}
	if info.TotalBytesAlloced != 0 {
		t.Errorf("TotalBytesAlloced = %d, want 0", info.TotalBytesAlloced)
	}
}

func TestInfoCountsMappedBytes(t *testing.T) {
	s := NewSchema()
	s.Set(NewTypeDescriptor(KindU8, 8))
	mapped := make([]byte, 8)
	n, err := NewNodeFromSchemaMapped(s, mapped)
	if err != nil {
		t.Fatal(err)
	}
	info := n.Info()
	if info.TotalBytesMapped != 8 {
		t.Errorf("TotalBytesMapped = %d, want 8", info.TotalBytesMapped)
	}
}

func TestInfoPathsMatchTreeStructure(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	a.SetI32(1)
	b, _ := n.Fetch("b/c")
	b.SetI32(2)

	info := n.Info()
	seen := map[string]bool{}
	for _, ms := range info.MemSpaces {
		seen[ms.Path] = true
	}
	if !seen["a"] {
		t.Errorf("MemSpaces missing path 'a': %v", info.MemSpaces)
	}
	if !seen["b/c"] {
		t.Errorf("MemSpaces missing path 'b/c': %v", info.MemSpaces)
	}
}

func TestPresenceBitmapMarksNonEmptyChildren(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	a.SetI32(1)
	n.Fetch("b") // left EMPTY
	c, _ := n.Fetch("c")
	c.SetF64(2.5)

	bm, err := n.PresenceBitmap()
	if err != nil {
		t.Fatal(err)
	}
	if !bm.Contains(0) || bm.Contains(1) || !bm.Contains(2) {
		s := bm.String()
		t.Errorf("PresenceBitmap = %s, want {0, 2} (index 1 is EMPTY)", s)
	}
	if bm.GetCardinality() != 2 {
		t.Errorf("GetCardinality() = %d, want 2", bm.GetCardinality())
	}
}

func TestPresenceBitmapRejectsLeaf(t *testing.T) {
	n := NewNode()
	n.SetI32(1)
	if _, err := n.PresenceBitmap(); err == nil {
		t.Fatal("expected an error calling PresenceBitmap on a leaf node")
	}
}
