/*
	Whole-array chunked I/O.  Arrays are stored C-order as one payload per
	chunk, with partial edge chunks padded to the full chunk shape.  Reads
	of absent chunks yield fill-value bytes.
*/

package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"

	"github.com/dustin/go-humanize"
)

// WriteArrayData writes the full C-order byte buffer of an array, chunk by
// chunk, applying the array's compressor.  The buffer length must match the
// array's shape and dtype.
func WriteArrayData(a *Array, data []byte) error {
	timedLog := ngff.NewTimeLog()
	m := a.meta
	if len(data) != m.NumBytes() {
		return fmt.Errorf("array %q expects %d bytes for shape %v dtype %q, got %d",
			a.Path(), m.NumBytes(), m.Shape, m.DType, len(data))
	}
	itemsize, err := DTypeSize(m.DType)
	if err != nil {
		return err
	}
	compress, err := compression(m.Compressor)
	if err != nil {
		return err
	}
	fill, err := fillBytes(m.DType, m.FillValue)
	if err != nil {
		return err
	}

	grid := chunkGrid(m.Shape, m.Chunks)
	chunkBytes := numElements(m.Chunks) * itemsize
	for _, idx := range gridIndices(grid) {
		buf := make([]byte, chunkBytes)
		if m.FillValue != 0 {
			fillBuffer(buf, fill)
		}
		off, region := chunkRegion(m.Shape, m.Chunks, idx)
		copyRegion(buf, m.Chunks, make([]int, len(m.Chunks)), data, m.Shape, off, region, itemsize)
		payload, err := SerializeChunk(buf, compress, CRC32)
		if err != nil {
			return err
		}
		if err := a.store.Put(a.nodeKey(ChunkKey(idx)), payload); err != nil {
			return err
		}
	}
	timedLog.Infof("Wrote %s to array %q (%s)", humanize.Bytes(uint64(len(data))), a.Path(), compress)
	return nil
}

// ReadArrayData reads the full C-order byte buffer of an array.  Chunks
// never written read as the array's fill value.
func ReadArrayData(a *Array) ([]byte, error) {
	timedLog := ngff.NewTimeLog()
	m := a.meta
	itemsize, err := DTypeSize(m.DType)
	if err != nil {
		return nil, err
	}
	fill, err := fillBytes(m.DType, m.FillValue)
	if err != nil {
		return nil, err
	}
	data := make([]byte, m.NumBytes())
	if m.FillValue != 0 {
		fillBuffer(data, fill)
	}

	grid := chunkGrid(m.Shape, m.Chunks)
	chunkBytes := numElements(m.Chunks) * itemsize
	for _, idx := range gridIndices(grid) {
		payload, err := a.store.Get(a.nodeKey(ChunkKey(idx)))
		if err == ErrKeyNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		buf, err := DeserializeChunk(payload)
		if err != nil {
			return nil, fmt.Errorf("chunk %s of array %q: %w", ChunkKey(idx), a.Path(), err)
		}
		if len(buf) != chunkBytes {
			return nil, fmt.Errorf("chunk %s of array %q has %d bytes, expected %d",
				ChunkKey(idx), a.Path(), len(buf), chunkBytes)
		}
		off, region := chunkRegion(m.Shape, m.Chunks, idx)
		copyRegion(data, m.Shape, off, buf, m.Chunks, make([]int, len(m.Chunks)), region, itemsize)
	}
	timedLog.Infof("Read %s from array %q", humanize.Bytes(uint64(len(data))), a.Path())
	return data, nil
}

func compression(c *CompressorConfig) (Compression, error) {
	if c == nil {
		return Uncompressed, nil
	}
	return CompressionByID(c.ID)
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// chunkGrid returns the number of chunks along each dimension.
func chunkGrid(shape, chunks []int) []int {
	grid := make([]int, len(shape))
	for i := range shape {
		grid[i] = (shape[i] + chunks[i] - 1) / chunks[i]
	}
	return grid
}

// gridIndices enumerates all chunk index vectors of a grid in C order.
func gridIndices(grid []int) [][]int {
	total := numElements(grid)
	out := make([][]int, 0, total)
	idx := make([]int, len(grid))
	for n := 0; n < total; n++ {
		cur := make([]int, len(grid))
		copy(cur, idx)
		out = append(out, cur)
		for d := len(grid) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < grid[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}

// chunkRegion returns the offset of a chunk within the array and the extents
// of its valid (possibly edge-truncated) region.
func chunkRegion(shape, chunks, idx []int) (off, region []int) {
	off = make([]int, len(shape))
	region = make([]int, len(shape))
	for i := range shape {
		off[i] = idx[i] * chunks[i]
		region[i] = chunks[i]
		if off[i]+region[i] > shape[i] {
			region[i] = shape[i] - off[i]
		}
	}
	return
}

// strides returns C-order strides in elements for a shape.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

// copyRegion copies a C-order region of the given extents from src at
// srcOff to dst at dstOff.  The innermost dimension is copied as one
// contiguous run per row.
func copyRegion(dst []byte, dstShape, dstOff []int, src []byte, srcShape, srcOff, region []int, itemsize int) {
	ndim := len(region)
	if ndim == 0 {
		copy(dst, src[:itemsize])
		return
	}
	dstStrides := strides(dstShape)
	srcStrides := strides(srcShape)
	rowBytes := region[ndim-1] * itemsize

	// odometer over all dimensions but the innermost
	counter := make([]int, ndim-1)
	for {
		dstIdx := dstOff[ndim-1] * dstStrides[ndim-1]
		srcIdx := srcOff[ndim-1] * srcStrides[ndim-1]
		for d := 0; d < ndim-1; d++ {
			dstIdx += (dstOff[d] + counter[d]) * dstStrides[d]
			srcIdx += (srcOff[d] + counter[d]) * srcStrides[d]
		}
		copy(dst[dstIdx*itemsize:dstIdx*itemsize+rowBytes], src[srcIdx*itemsize:srcIdx*itemsize+rowBytes])

		d := ndim - 2
		for ; d >= 0; d-- {
			counter[d]++
			if counter[d] < region[d] {
				break
			}
			counter[d] = 0
		}
		if d < 0 {
			break
		}
	}
}

// fillBytes encodes the fill value as one little-endian element of the
// given dtype.
func fillBytes(dtype string, fill float64) ([]byte, error) {
	itemsize, err := DTypeSize(dtype)
	if err != nil {
		return nil, err
	}
	b := make([]byte, itemsize)
	if fill == 0 {
		return b, nil
	}
	switch dtype[1] {
	case 'f':
		switch itemsize {
		case 4:
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(fill)))
		case 8:
			binary.LittleEndian.PutUint64(b, math.Float64bits(fill))
		default:
			return nil, fmt.Errorf("unsupported float dtype %q", dtype)
		}
	case 'b', 'i', 'u':
		v := uint64(int64(fill))
		switch itemsize {
		case 1:
			b[0] = byte(v)
		case 2:
			binary.LittleEndian.PutUint16(b, uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(b, uint32(v))
		case 8:
			binary.LittleEndian.PutUint64(b, v)
		default:
			return nil, fmt.Errorf("unsupported integer dtype %q", dtype)
		}
	default:
		return nil, fmt.Errorf("unsupported dtype kind %q", dtype)
	}
	return b, nil
}

// fillBuffer tiles a buffer with one element's bytes.
func fillBuffer(buf, element []byte) {
	for i := 0; i < len(buf); i += len(element) {
		copy(buf[i:], element)
	}
}
