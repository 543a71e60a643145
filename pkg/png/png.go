package png

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/beam-cloud/pngme/pkg/common"
)

// Png is a signature followed by an ordered sequence of chunks.
type Png struct {
	chunks []*Chunk
}

func New(chunks ...*Chunk) *Png {
	p := &Png{}
	p.chunks = append(p.chunks, chunks...)
	return p
}

// Parse decodes a complete png buffer. It returns either the whole png or an error.
func Parse(b []byte) (*Png, error) {
	signature := common.PngFileStartBytes()
	if len(b) < common.PngSignatureLength || !bytes.Equal(b[:common.PngSignatureLength], signature[:]) {
		return nil, common.ErrBadSignature
	}

	var chunks []*Chunk
	rest := b[common.PngSignatureLength:]
	for len(rest) > 0 {
		offset := len(b) - len(rest)

		chunk, next, err := ParseChunk(rest)
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(chunks), offset, err)
		}

		chunks = append(chunks, chunk)
		rest = next
	}

	return &Png{chunks: chunks}, nil
}

func (p *Png) Signature() [common.PngSignatureLength]byte {
	return common.PngFileStartBytes()
}

// Chunks returns the chunks in order. The returned slice may be modified
// without affecting the png.
func (p *Png) Chunks() []*Chunk {
	chunks := make([]*Chunk, len(p.chunks))
	copy(chunks, p.chunks)
	return chunks
}

// ChunkByType returns the first chunk whose type matches chunkType, or nil.
func (p *Png) ChunkByType(chunkType string) *Chunk {
	if i := p.indexOf(chunkType); i >= 0 {
		return p.chunks[i]
	}
	return nil
}

func (p *Png) AppendChunk(chunk *Chunk) {
	p.chunks = append(p.chunks, chunk)
}

// RemoveChunk removes and returns the first chunk whose type matches chunkType.
func (p *Png) RemoveChunk(chunkType string) (*Chunk, error) {
	i := p.indexOf(chunkType)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", common.ErrNotFound, chunkType)
	}

	chunk := p.chunks[i]
	p.chunks = append(p.chunks[:i:i], p.chunks[i+1:]...)
	return chunk, nil
}

func (p *Png) indexOf(chunkType string) int {
	for i, chunk := range p.chunks {
		if chunk.Type().String() == chunkType {
			return i
		}
	}
	return -1
}

// Size is the number of bytes the png occupies when serialized.
func (p *Png) Size() int {
	size := common.PngSignatureLength
	for _, chunk := range p.chunks {
		size += chunk.Size()
	}
	return size
}

// Bytes serializes the signature followed by every chunk in order.
func (p *Png) Bytes() []byte {
	signature := common.PngFileStartBytes()
	buf := make([]byte, 0, p.Size())
	buf = append(buf, signature[:]...)
	for _, chunk := range p.chunks {
		buf = append(buf, chunk.Bytes()...)
	}
	return buf
}

func (p *Png) String() string {
	types := make([]string, len(p.chunks))
	for i, chunk := range p.chunks {
		types[i] = chunk.Type().String()
	}
	return fmt.Sprintf("Png{%d chunks: %s}", len(p.chunks), strings.Join(types, ", "))
}

// IsFormatError reports whether err was caused by malformed png data, as
// opposed to a failure reading or writing it.
func IsFormatError(err error) bool {
	return errors.Is(err, common.ErrBadSignature) ||
		errors.Is(err, common.ErrTruncated) ||
		errors.Is(err, common.ErrChecksumMismatch)
}
