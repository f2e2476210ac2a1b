package conduit

import "testing"

func TestNodeFromDtypeOwnsItsBuffer(t *testing.T) {
	n, err := NewNodeFromDtype(NewTypeDescriptor(KindI32, 4))
	if err != nil {
		t.Fatalf("NewNodeFromDtype: %v", err)
	}
	if err := n.SetI32Array([]int32{1, 2, 3, 4}); err != nil {
		t.Fatalf("SetI32Array: %v", err)
	}
	arr, err := n.AsI32Array()
	if err != nil {
		t.Fatalf("AsI32Array: %v", err)
	}
	if arr.Len() != 4 || arr.At(2) != 3 {
		t.Errorf("round trip mismatch: len=%d at(2)=%d", arr.Len(), arr.At(2))
	}
}

func TestNodeFromSchemaExternalAliasesCallerMemory(t *testing.T) {
	s := NewSchema()
	s.Set(NewTypeDescriptor(KindU8, 4))
	base := make([]byte, 4)
	n, err := NewNodeFromSchemaExternal(s, base)
	if err != nil {
		t.Fatalf("NewNodeFromSchemaExternal: %v", err)
	}
	arr, err := n.AsU8Array()
	if err != nil {
		t.Fatalf("AsU8Array: %v", err)
	}
	for i := int64(0); i < 4; i++ {
		arr.SetAt(i, 9)
	}
	for i, b := range base {
		if b != 9 {
			t.Errorf("base[%d] = %d, want 9 (external buffer should alias caller memory)", i, b)
		}
	}
}

func TestNodeResetClearsToEmpty(t *testing.T) {
	n := NewNode()
	if _, err := n.Fetch("a"); err != nil {
		t.Fatal(err)
	}
	n.Reset()
	if n.Kind() != KindEmpty {
		t.Errorf("Kind() after Reset = %v, want Empty", n.Kind())
	}
	if n.NumChildren() != 0 {
		t.Errorf("NumChildren() after Reset = %d, want 0", n.NumChildren())
	}
}

func TestNodeCloneIsDeepAndIndependent(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	a.SetI32(7)

	clone := n.Clone()
	cloneA, err := clone.FetchPtr("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := cloneA.SetI32(99); err != nil {
		t.Fatal(err)
	}

	orig, err := n.FetchPtr("a")
	if err != nil {
		t.Fatal(err)
	}
	v, err := orig.AsI32()
	if err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Errorf("mutating the clone changed the original: a = %d, want 7", v)
	}
}

func TestNodeObjectChildrenStayInLockstepWithSchema(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("x/y")
	a.SetI32(42)

	if n.Kind() != KindObject {
		t.Fatalf("Kind() = %v, want Object", n.Kind())
	}
	names := n.ChildNames()
	if len(names) != 1 || names[0] != "x" {
		t.Fatalf("ChildNames() = %v, want [x]", names)
	}
	child, err := n.ChildByName("x")
	if err != nil {
		t.Fatal(err)
	}
	if child.Kind() != KindObject {
		t.Errorf("x's kind = %v, want Object", child.Kind())
	}
}

func TestNodeListAppendAndRemove(t *testing.T) {
	n := NewNode()
	for i := 0; i < 3; i++ {
		child, err := n.Append()
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if err := child.SetI32(int32(i)); err != nil {
			t.Fatal(err)
		}
	}
	if n.Kind() != KindList {
		t.Fatalf("Kind() = %v, want List", n.Kind())
	}
	if n.NumChildren() != 3 {
		t.Fatalf("NumChildren() = %d, want 3", n.NumChildren())
	}
	if err := n.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	first, err := n.Child(0)
	if err != nil {
		t.Fatal(err)
	}
	v, err := first.AsI32()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("after Remove(0), Child(0) = %d, want 1", v)
	}
}

func TestNodeHasPath(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a/b")
	a.SetI32(1)
	if !n.HasPath("a/b") {
		t.Error("HasPath(a/b) = false, want true")
	}
	if n.HasPath("a/c") {
		t.Error("HasPath(a/c) = true, want false")
	}
}
