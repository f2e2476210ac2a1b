package conduit

import (
	"os"

	"github.com/klauspost/compress/zstd"
)

// SerializeZstd is Serialize's compressed counterpart: the Schema JSON
// form is returned as-is (schema documents are small and stay human
// readable), while the compact data bytes are zstd-compressed.
func (n *Node) SerializeZstd() (schemaJSON string, compressed []byte, err error) {
	schemaJSON, data := n.Serialize()
	enc, encErr := zstd.NewWriter(nil)
	if encErr != nil {
		return "", nil, newErr(ErrKindIoError, "zstd encoder: %v", encErr)
	}
	defer enc.Close()
	compressed = enc.EncodeAll(data, nil)
	return schemaJSON, compressed, nil
}

// NodeFromZstd reconstructs a Node from a Schema JSON document and
// zstd-compressed compact data, the read side of SerializeZstd.
func NodeFromZstd(schemaJSON string, compressed []byte) (*Node, error) {
	dec, decErr := zstd.NewReader(nil)
	if decErr != nil {
		return nil, newErr(ErrKindIoError, "zstd decoder: %v", decErr)
	}
	defer dec.Close()
	data, decErr := dec.DecodeAll(compressed, nil)
	if decErr != nil {
		return nil, newErr(ErrKindIoError, "zstd decode: %v", decErr)
	}
	return NodeFromSerialized(schemaJSON, data)
}

// SaveZstd writes n as a {schemaPath, dataPath} pair, the data half
// zstd-compressed.
func (n *Node) SaveZstd(schemaPath, dataPath string) error {
	schemaJSON, compressed, err := n.SerializeZstd()
	if err != nil {
		return err
	}
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return newPathErr(ErrKindIoError, schemaPath, "%v", err)
	}
	if err := os.WriteFile(dataPath, compressed, 0o644); err != nil {
		return newPathErr(ErrKindIoError, dataPath, "%v", err)
	}
	return nil
}

// LoadZstd reads the {schemaPath, dataPath} pair written by SaveZstd.
func LoadZstd(schemaPath, dataPath string) (*Node, error) {
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, newPathErr(ErrKindIoError, schemaPath, "%v", err)
	}
	compressed, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, newPathErr(ErrKindIoError, dataPath, "%v", err)
	}
	return NodeFromZstd(string(schemaBytes), compressed)
}
