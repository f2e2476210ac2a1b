package conduit

import (
	"bytes"
	"testing"
)

func TestToJSONConduitRoundTrip(t *testing.T) {
	n := NewNode()
	a, _ := n.Fetch("a")
	if err := a.SetI32(5); err != nil {
		t.Fatal(err)
	}
	b, _ := n.Fetch("b")
	if err := b.SetF64Array([]float64{1.5, 2.5}); err != nil {
		t.Fatal(err)
	}

	text, err := n.ToJSON("conduit_json", JSONOptions{})
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	gen, err := NewGenerator("conduit_json", text, nil)
	if err != nil {
		t.Fatal(err)
	}
	back := NewNode()
	if err := gen.Walk(back); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	ba, err := back.FetchPtr("a")
	if err != nil {
		t.Fatal(err)
	}
	av, err := ba.AsI32()
	if err != nil {
		t.Fatal(err)
	}
	if av != 5 {
		t.Errorf("a = %d, want 5", av)
	}
}

func TestToJSONPlainLosesDtype(t *testing.T) {
	n := NewNode()
	if err := n.SetI32(9); err != nil {
		t.Fatal(err)
	}
	text, err := n.ToJSON("json", JSONOptions{})
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if text != "9" {
		t.Errorf("ToJSON(json) = %q, want %q", text, "9")
	}
}

func TestToJSONEmptyRendersNull(t *testing.T) {
	n := NewNode()
	text, err := n.ToJSON("json", JSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if text != "null" {
		t.Errorf("ToJSON(json) on an EMPTY node = %q, want %q", text, "null")
	}
}

func TestToJSONRejectsUnknownProtocol(t *testing.T) {
	n := NewNode()
	if _, err := n.ToJSON("yaml", JSONOptions{}); err == nil {
		t.Fatal("expected an error for an unknown protocol")
	}
}

func TestToJSONStreamWritesToWriter(t *testing.T) {
	n := NewNode()
	if err := n.SetI32(3); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := n.ToJSONStream(&buf, "json", JSONOptions{}); err != nil {
		t.Fatalf("ToJSONStream: %v", err)
	}
	if buf.String() != "3" {
		t.Errorf("stream content = %q, want %q", buf.String(), "3")
	}
}

func TestToBase64DataMatchesSerialize(t *testing.T) {
	n := NewNode()
	if err := n.SetU8Array([]uint8{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	_, data := n.Serialize()
	b64 := n.ToBase64Data()
	decoded, err := NodeFromSerialized(n.Schema().ToJSON(JSONOptions{}), data)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.ToBase64Data() != b64 {
		t.Error("ToBase64Data should be stable across an equivalent reconstruction")
	}
}
