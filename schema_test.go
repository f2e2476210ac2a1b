package conduit

import "testing"

func TestSchemaFetchCreatesIntermediates(t *testing.T) {
	s := NewSchema()
	leaf, err := s.Fetch("a/b/c")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	leaf.Set(NewTypeDescriptor(KindI32, 1))

	if s.Kind() != KindObject {
		t.Fatalf("root should have become OBJECT, got %v", s.Kind())
	}
	if !s.HasPath("a/b/c") {
		t.Errorf("HasPath(a/b/c) = false, want true")
	}
}

func TestSchemaFetchPtrDoesNotCreate(t *testing.T) {
	s := NewSchema()
	if _, err := s.FetchPtr("missing"); err == nil {
		t.Fatal("FetchPtr should fail on a missing path")
	}
	if s.Kind() != KindEmpty {
		t.Errorf("FetchPtr must not mutate an EMPTY schema, got kind %v", s.Kind())
	}
}

func TestSchemaFetchAscend(t *testing.T) {
	s := NewSchema()
	leaf, err := s.Fetch("a/b")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	up, err := leaf.Fetch("..")
	if err != nil {
		t.Fatalf("Fetch('..'): %v", err)
	}
	if up.Name() != "a" {
		t.Errorf("ascended to %q, want %q", up.Name(), "a")
	}
	if _, err := s.Fetch(".."); err == nil {
		t.Error("ascending past the root should fail")
	}
}

func TestSchemaAppendAndRemove(t *testing.T) {
	s := NewSchema()
	for i := 0; i < 3; i++ {
		if _, err := s.Append(); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if s.NumChildren() != 3 {
		t.Fatalf("NumChildren() = %d, want 3", s.NumChildren())
	}
	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.NumChildren() != 2 {
		t.Errorf("NumChildren() after Remove = %d, want 2", s.NumChildren())
	}
}

func TestSchemaRemoveByName(t *testing.T) {
	s := NewSchema()
	if _, err := s.Fetch("x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Fetch("y"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveByName("x"); err != nil {
		t.Fatalf("RemoveByName: %v", err)
	}
	if s.HasPath("x") {
		t.Error("x should have been removed")
	}
	if !s.HasPath("y") {
		t.Error("y should still be present")
	}
	if err := s.RemoveByName("x"); err == nil {
		t.Error("RemoveByName on an already-removed child should fail")
	}
}

func TestSchemaPathsOrderIsInsertionOrder(t *testing.T) {
	s := NewSchema()
	names := []string{"z", "a", "m"}
	for _, n := range names {
		child, err := s.Fetch(n)
		if err != nil {
			t.Fatal(err)
		}
		child.Set(NewTypeDescriptor(KindI32, 1))
	}
	got := s.Paths(false)
	if len(got) != len(names) {
		t.Fatalf("Paths() = %v, want %d entries", got, len(names))
	}
	for i, n := range names {
		if got[i] != n {
			t.Errorf("Paths()[%d] = %q, want %q (insertion order)", i, got[i], n)
		}
	}
}

func TestSchemaCloneIsIndependent(t *testing.T) {
	s := NewSchema()
	child, _ := s.Fetch("a")
	child.Set(NewTypeDescriptor(KindI32, 1))

	clone := s.Clone()
	if _, err := clone.Fetch("b"); err != nil {
		t.Fatal(err)
	}
	if s.HasPath("b") {
		t.Error("mutating the clone mutated the original")
	}
	if !clone.HasPath("a") {
		t.Error("clone lost the original's content")
	}
}

func TestSchemaToJSONFromJSONRoundTrip(t *testing.T) {
	s := NewSchema()
	a, _ := s.Fetch("a")
	a.Set(NewTypeDescriptor(KindI32, 1))
	arr, _ := s.Fetch("b")
	arr.Set(NewTypeDescriptor(KindF64, 3))

	text := s.ToJSON(JSONOptions{})
	back, err := SchemaFromJSON(text)
	if err != nil {
		t.Fatalf("SchemaFromJSON: %v", err)
	}
	if diff := s.Diff(back); len(diff) != 0 {
		t.Errorf("round trip produced a diff: %v", diff)
	}
}

func TestSchemaDiff(t *testing.T) {
	a := NewSchema()
	ax, _ := a.Fetch("x")
	ax.Set(NewTypeDescriptor(KindI32, 1))

	b := NewSchema()
	bx, _ := b.Fetch("x")
	bx.Set(NewTypeDescriptor(KindF64, 1))
	by, _ := b.Fetch("y")
	by.Set(NewTypeDescriptor(KindI8, 1))

	diff := a.Diff(b)
	if len(diff) != 2 {
		t.Fatalf("Diff() = %v, want 2 entries (x type mismatch, y missing)", diff)
	}
}

func TestSchemaCompactTo(t *testing.T) {
	s := NewSchema()
	a, _ := s.Fetch("a")
	a.Set(TypeDescriptor{Kind: KindI32, NumElements: 3, Offset: 100, Stride: 16, ElementBytes: 4})
	b, _ := s.Fetch("b")
	b.Set(TypeDescriptor{Kind: KindU8, NumElements: 2, Offset: 0, Stride: 8, ElementBytes: 1})

	dest := NewSchema()
	s.CompactTo(dest)

	got, err := dest.FetchPtr("a")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Dtype().IsCompact() {
		t.Errorf("compacted 'a' should be compact, got %+v", got.Dtype())
	}
	if got.Dtype().Offset != 0 {
		t.Errorf("first compacted leaf should start at offset 0, got %d", got.Dtype().Offset)
	}

	got2, err := dest.FetchPtr("b")
	if err != nil {
		t.Fatal(err)
	}
	if got2.Dtype().Offset != 12 {
		t.Errorf("second compacted leaf should start right after the first (12), got %d", got2.Dtype().Offset)
	}
}
