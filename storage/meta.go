package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Names of the metadata documents persisted beneath each hierarchy node.
const (
	groupMetaKey = ".zgroup"
	arrayMetaKey = ".zarray"
	attrsKey     = ".zattrs"
)

// zarrFormat is the hierarchy format version written by this package.
const zarrFormat = 2

// CompressorConfig selects and parameterizes the compression applied to
// chunk payloads of one array.
type CompressorConfig struct {
	ID    string `json:"id"`
	Level int    `json:"level,omitempty"`
}

// ArrayMeta is the persisted ".zarray" metadata describing one stored array.
type ArrayMeta struct {
	Shape      []int             `json:"shape"`
	Chunks     []int             `json:"chunks"`
	DType      string            `json:"dtype"`
	Compressor *CompressorConfig `json:"compressor"`
	FillValue  float64           `json:"fill_value"`
	Order      string            `json:"order"`
	ZarrFormat int               `json:"zarr_format"`
}

// Validate checks internal consistency of the metadata.
func (m ArrayMeta) Validate() error {
	if len(m.Shape) == 0 {
		return fmt.Errorf("array metadata must have a non-empty shape")
	}
	if len(m.Chunks) != len(m.Shape) {
		return fmt.Errorf("chunk shape %v does not match array shape %v", m.Chunks, m.Shape)
	}
	for i, c := range m.Chunks {
		if c < 1 || m.Shape[i] < 0 {
			return fmt.Errorf("bad chunk/shape extents at dimension %d: chunk %d, shape %d",
				i, c, m.Shape[i])
		}
	}
	if _, err := DTypeSize(m.DType); err != nil {
		return err
	}
	if m.Compressor != nil {
		if _, err := CompressionByID(m.Compressor.ID); err != nil {
			return err
		}
	}
	return nil
}

// NumElements returns the total number of elements of the array.
func (m ArrayMeta) NumElements() int {
	n := 1
	for _, d := range m.Shape {
		n *= d
	}
	return n
}

// NumBytes returns the size of the full uncompressed array in bytes.
func (m ArrayMeta) NumBytes() int {
	size, err := DTypeSize(m.DType)
	if err != nil {
		return 0
	}
	return m.NumElements() * size
}

func (m ArrayMeta) encode() ([]byte, error) {
	out := m
	out.ZarrFormat = zarrFormat
	if out.Order == "" {
		out.Order = "C"
	}
	return json.Marshal(out)
}

func decodeArrayMeta(data []byte) (ArrayMeta, error) {
	var m ArrayMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("bad array metadata: %w", err)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

// DTypeSize returns the element size in bytes for a Zarr dtype string such
// as "<f8" or "|u1".
func DTypeSize(dtype string) (int, error) {
	if len(dtype) < 3 {
		return 0, fmt.Errorf("invalid dtype: %q", dtype)
	}
	switch dtype[0] {
	case '<', '>', '|':
	default:
		return 0, fmt.Errorf("invalid dtype byte order in %q", dtype)
	}
	switch dtype[1] {
	case 'b', 'i', 'u', 'f':
	default:
		return 0, fmt.Errorf("unsupported dtype kind in %q", dtype)
	}
	size, err := strconv.Atoi(dtype[2:])
	if err != nil || size < 1 || size > 8 {
		return 0, fmt.Errorf("unsupported dtype size in %q", dtype)
	}
	return size, nil
}

// ChunkKey generates the storage key suffix for a chunk given its grid
// indices, e.g. indices [1, 4] -> "1.4".
func ChunkKey(indices []int) string {
	if len(indices) == 0 {
		return "0"
	}
	if len(indices) == 1 {
		return strconv.Itoa(indices[0])
	}
	var sb strings.Builder
	for i, idx := range indices {
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}
