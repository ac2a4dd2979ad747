package ngramlm

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// gobEncode is the shared binary-serialization helper every GobEncoder in
// this package routes through (spec.md §6: "any self-describing binary
// serialization is acceptable"). Grounded on the teacher's own
// Vocab/Model.MarshalBinary, which uses encoding/gob directly for the same
// reason: the payloads here are, at the scale this spec targets, small
// enough that gob's simplicity outweighs its speed cost.
func gobEncode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// SaveModel writes m to w using gob. The payload round-trips headers,
// transitions (per order, as fixed-length token arrays to weighted counts),
// and the vocabulary, including the two sentinel tokens (spec.md §6).
func SaveModel(w io.Writer, m *Model) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// SaveModelFile is a convenience wrapper around SaveModel that creates (or
// truncates) path.
func SaveModelFile(path string, m *Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return SaveModel(f, m)
}

// LoadModel reads a Model previously written by SaveModel.
func LoadModel(r io.Reader) (*Model, error) {
	var m Model
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &m, nil
}

// LoadModelFile is a convenience wrapper around LoadModel.
func LoadModelFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadModel(f)
}
