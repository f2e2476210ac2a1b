package conduit

import (
	"path/filepath"
	"testing"
)

func buildCompressSample(t *testing.T) *Node {
	t.Helper()
	n := NewNode()
	a, err := n.Fetch("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SetI32Array([]int32{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	b, err := n.Fetch("b")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetString("compressed round trip"); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestSerializeZstdAndNodeFromZstdRoundTrip(t *testing.T) {
	n := buildCompressSample(t)
	schemaJSON, compressed, err := n.SerializeZstd()
	if err != nil {
		t.Fatalf("SerializeZstd: %v", err)
	}

	back, err := NodeFromZstd(schemaJSON, compressed)
	if err != nil {
		t.Fatalf("NodeFromZstd: %v", err)
	}
	a, err := back.FetchPtr("a")
	if err != nil {
		t.Fatal(err)
	}
	arr, err := a.AsI32Array()
	if err != nil {
		t.Fatal(err)
	}
	if arr.Len() != 5 || arr.At(4) != 5 {
		t.Errorf("a = %v, want [1 2 3 4 5]", arr.Slice())
	}
	b, err := back.FetchPtr("b")
	if err != nil {
		t.Fatal(err)
	}
	bs, err := b.AsString()
	if err != nil {
		t.Fatal(err)
	}
	if bs != "compressed round trip" {
		t.Errorf("b = %q, want %q", bs, "compressed round trip")
	}
}

func TestSaveZstdAndLoadZstdRoundTrip(t *testing.T) {
	n := buildCompressSample(t)
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	dataPath := filepath.Join(dir, "data.zst")

	if err := n.SaveZstd(schemaPath, dataPath); err != nil {
		t.Fatalf("SaveZstd: %v", err)
	}
	back, err := LoadZstd(schemaPath, dataPath)
	if err != nil {
		t.Fatalf("LoadZstd: %v", err)
	}
	a, err := back.FetchPtr("a")
	if err != nil {
		t.Fatal(err)
	}
	arr, err := a.AsI32Array()
	if err != nil {
		t.Fatal(err)
	}
	if arr.Len() != 5 {
		t.Errorf("a's length = %d, want 5", arr.Len())
	}
}

func TestLoadZstdMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadZstd(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.zst")); err == nil {
		t.Fatal("expected an error when the schema file is missing")
	}
}
