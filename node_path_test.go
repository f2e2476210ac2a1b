package conduit

import "testing"

func TestFetchAscendsThroughDotDot(t *testing.T) {
	n := NewNode()
	leaf, err := n.Fetch("a/b")
	if err != nil {
		t.Fatal(err)
	}
	leaf.SetI32(1)
	up, err := leaf.Fetch("..")
	if err != nil {
		t.Fatalf("Fetch('..'): %v", err)
	}
	if up.Kind() != KindObject {
		t.Errorf("ascended node's kind = %v, want Object", up.Kind())
	}
}

func TestFetchPtrFailsWithoutCreating(t *testing.T) {
	n := NewNode()
	if _, err := n.FetchPtr("a/b"); err == nil {
		t.Fatal("FetchPtr should fail when the path doesn't exist")
	}
	if n.Kind() != KindEmpty {
		t.Errorf("FetchPtr mutated the tree: kind = %v, want Empty", n.Kind())
	}
}

func TestPathsDelegatesToSchema(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	a.SetI32(1)
	b, _ := n.Fetch("b")
	b.SetI32(2)

	np := n.Paths(false)
	sp := n.Schema().Paths(false)
	if len(np) != len(sp) {
		t.Fatalf("Node.Paths() = %v, Schema.Paths() = %v, want same length", np, sp)
	}
	for i := range np {
		if np[i] != sp[i] {
			t.Errorf("Node.Paths()[%d] = %q, Schema.Paths()[%d] = %q", i, np[i], i, sp[i])
		}
	}
}

func TestRemoveByNameOnObject(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	a.SetI32(1)
	b, _ := n.Fetch("b")
	b.SetI32(2)

	if err := n.RemoveByName("a"); err != nil {
		t.Fatalf("RemoveByName: %v", err)
	}
	if n.HasPath("a") {
		t.Error("a should have been removed")
	}
	if !n.HasPath("b") {
		t.Error("b should still be present")
	}
	if n.NumChildren() != 1 {
		t.Errorf("NumChildren() = %d, want 1", n.NumChildren())
	}
}

func TestChildByNameUnknownFails(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	a.SetI32(1)
	if _, err := n.ChildByName("missing"); err == nil {
		t.Fatal("ChildByName should fail for an unknown name")
	}
}

func TestAppendOnNonListFails(t *testing.T) {
	n := NewNode()
	if err := n.SetI32(1); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Append(); err == nil {
		t.Fatal("Append on a leaf node should fail")
	}
}
