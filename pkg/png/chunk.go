package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"

	"github.com/beam-cloud/pngme/pkg/common"
)

// Chunk is a single length-prefixed, checksummed record of a png.
type Chunk struct {
	length    uint32
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// NewChunk builds a chunk from a type and payload, computing its length and crc.
func NewChunk(chunkType ChunkType, data []byte) *Chunk {
	buf := make([]byte, len(data))
	copy(buf, data)

	return &Chunk{
		length:    uint32(len(buf)),
		chunkType: chunkType,
		data:      buf,
		crc:       Checksum(chunkType, buf),
	}
}

// Checksum computes the crc32 (ISO-HDLC) of the type bytes followed by the data.
func Checksum(chunkType ChunkType, data []byte) uint32 {
	hash := crc32.NewIEEE()
	hash.Write(chunkType[:])
	hash.Write(data)
	return hash.Sum32()
}

// ParseChunk reads one chunk from the front of b and returns it along with
// the bytes that follow it.
func ParseChunk(b []byte) (*Chunk, []byte, error) {
	if len(b) < common.ChunkLengthLength+common.ChunkTypeLength {
		return nil, b, fmt.Errorf("%w: need %d header bytes, have %d", common.ErrTruncated, common.ChunkLengthLength+common.ChunkTypeLength, len(b))
	}

	length := binary.BigEndian.Uint32(b[:common.ChunkLengthLength])
	pos := common.ChunkLengthLength

	var typeBytes [common.ChunkTypeLength]byte
	copy(typeBytes[:], b[pos:pos+common.ChunkTypeLength])
	pos += common.ChunkTypeLength

	// Compare in uint64 so a huge declared length cannot overflow on 32-bit platforms.
	remaining := uint64(len(b) - pos)
	if uint64(length)+common.ChunkCrcLength > remaining {
		return nil, b, fmt.Errorf("%w: %q declares %d data bytes, only %d bytes remain", common.ErrTruncated, typeBytes[:], length, remaining)
	}

	end := pos + int(length)
	data := make([]byte, length)
	copy(data, b[pos:end])
	pos = end

	crc := binary.BigEndian.Uint32(b[pos : pos+common.ChunkCrcLength])
	pos += common.ChunkCrcLength

	chunkType := ChunkTypeFromBytes(typeBytes)
	if expected := Checksum(chunkType, data); crc != expected {
		return nil, b, fmt.Errorf("%w: %q has crc %d, computed %d", common.ErrChecksumMismatch, typeBytes[:], crc, expected)
	}

	return &Chunk{
		length:    length,
		chunkType: chunkType,
		data:      data,
		crc:       crc,
	}, b[pos:], nil
}

func (c *Chunk) Length() uint32 {
	return c.length
}

func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns a copy of the chunk payload.
func (c *Chunk) Data() []byte {
	buf := make([]byte, len(c.data))
	copy(buf, c.data)
	return buf
}

func (c *Chunk) CRC() uint32 {
	return c.crc
}

// DataAsString returns the payload as text, failing if it is not valid utf-8.
func (c *Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", fmt.Errorf("%w: %s chunk payload", common.ErrInvalidUtf8, c.chunkType)
	}
	return string(c.data), nil
}

// Size is the number of bytes the chunk occupies when serialized.
func (c *Chunk) Size() int {
	return common.ChunkOverhead + len(c.data)
}

// Bytes serializes the chunk: length, type, data, crc.
func (c *Chunk) Bytes() []byte {
	buf := make([]byte, 0, c.Size())
	buf = binary.BigEndian.AppendUint32(buf, c.length)
	buf = append(buf, c.chunkType[:]...)
	buf = append(buf, c.data...)
	buf = binary.BigEndian.AppendUint32(buf, c.crc)
	return buf
}

func (c *Chunk) String() string {
	return fmt.Sprintf("Length: %d, Chunk Type: %s, Data: %d bytes, CRC: %d", c.length, c.chunkType, len(c.data), c.crc)
}
