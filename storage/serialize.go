/*
	This file supports serialization and compression of chunk payloads.
	Each stored chunk leads with a format byte packing the compression and
	checksum schemes, followed by an optional CRC32 and the (possibly
	compressed) payload.
*/

package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression is the format of compression for storing chunk data.
// NOTE: Should be no more than 8 (3 bits) of compression types.
type Compression uint8

const (
	Uncompressed Compression = 0
	Snappy       Compression = 1
	Gzip         Compression = 2
	Zlib         Compression = 3
	Zstd         Compression = 4
)

func (compress Compression) String() string {
	switch compress {
	case Uncompressed:
		return "No compression"
	case Snappy:
		return "Go Snappy compression"
	case Gzip:
		return "Gzip compression"
	case Zlib:
		return "Zlib compression"
	case Zstd:
		return "Zstandard compression"
	default:
		return "Unknown compression"
	}
}

// CompressionByID maps Zarr compressor ids to Compression values.
func CompressionByID(id string) (Compression, error) {
	switch id {
	case "", "none":
		return Uncompressed, nil
	case "snappy":
		return Snappy, nil
	case "gzip":
		return Gzip, nil
	case "zlib":
		return Zlib, nil
	case "zstd":
		return Zstd, nil
	default:
		return Uncompressed, fmt.Errorf("unknown compressor id %q", id)
	}
}

// ID returns the Zarr compressor id for this compression.
func (compress Compression) ID() string {
	switch compress {
	case Snappy:
		return "snappy"
	case Gzip:
		return "gzip"
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// Checksum is the type of checksum employed for error checking stored data.
// NOTE: Should be no more than 4 (2 bits) of checksum types.
type Checksum uint8

const (
	NoChecksum Checksum = 0
	CRC32      Checksum = 1
)

func (checksum Checksum) String() string {
	switch checksum {
	case NoChecksum:
		return "No checksum"
	case CRC32:
		return "CRC32 checksum"
	default:
		return "Unknown checksum"
	}
}

// SerializationFormat is a single byte combining both compression and
// checksum methods.
type SerializationFormat uint8

func EncodeSerializationFormat(compress Compression, checksum Checksum) SerializationFormat {
	a := (uint8(compress) & 0x07) << 5
	b := (uint8(checksum) & 0x03) << 3
	return SerializationFormat(a | b)
}

func DecodeSerializationFormat(s SerializationFormat) (compress Compression, checksum Checksum) {
	compress = Compression(uint8(s) >> 5)
	checksum = Checksum((uint8(s) >> 3) & 0x03)
	return
}

// SerializeChunk encodes a chunk payload using optional compression and
// checksum.
func SerializeChunk(data []byte, compress Compression, checksum Checksum) ([]byte, error) {
	var buffer bytes.Buffer

	// Store the requested compression and checksum.
	format := EncodeSerializationFormat(compress, checksum)
	if err := binary.Write(&buffer, binary.LittleEndian, format); err != nil {
		return nil, err
	}

	var byteData []byte
	switch compress {
	case Uncompressed:
		byteData = data
	case Snappy:
		byteData = snappy.Encode(nil, data)
	case Gzip:
		var b bytes.Buffer
		w := gzip.NewWriter(&b)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		byteData = b.Bytes()
	case Zlib:
		var b bytes.Buffer
		w := zlib.NewWriter(&b)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		byteData = b.Bytes()
	case Zstd:
		w, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		byteData = w.EncodeAll(data, nil)
		w.Close()
	default:
		return nil, fmt.Errorf("illegal compression (%s) during chunk serialization", compress)
	}

	// Handle checksum if requested.
	switch checksum {
	case NoChecksum:
	case CRC32:
		crcChecksum := crc32.ChecksumIEEE(byteData)
		if err := binary.Write(&buffer, binary.LittleEndian, crcChecksum); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("illegal checksum (%s) in chunk serialization", checksum)
	}
	if _, err := buffer.Write(byteData); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DeserializeChunk decodes a chunk payload, verifying its checksum if one
// was stored.
func DeserializeChunk(s []byte) ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("cannot deserialize empty chunk payload")
	}
	buffer := bytes.NewBuffer(s)

	var format SerializationFormat
	if err := binary.Read(buffer, binary.LittleEndian, &format); err != nil {
		return nil, err
	}
	compress, checksum := DecodeSerializationFormat(format)

	var storedCrc32 uint32
	switch checksum {
	case NoChecksum:
	case CRC32:
		if err := binary.Read(buffer, binary.LittleEndian, &storedCrc32); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("illegal checksum (%s) in deserialization", checksum)
	}

	byteData := buffer.Bytes()
	if checksum == CRC32 {
		if crc32.ChecksumIEEE(byteData) != storedCrc32 {
			return nil, fmt.Errorf("bad checksum on chunk payload")
		}
	}

	switch compress {
	case Uncompressed:
		out := make([]byte, len(byteData))
		copy(out, byteData)
		return out, nil
	case Snappy:
		return snappy.Decode(nil, byteData)
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(byteData))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case Zlib:
		r, err := zlib.NewReader(bytes.NewReader(byteData))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case Zstd:
		r, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return r.DecodeAll(byteData, nil)
	default:
		return nil, fmt.Errorf("illegal compression (%s) in deserialization", compress)
	}
}
