package png

import (
	"encoding/binary"
	"testing"

	"github.com/beam-cloud/pngme/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMessage = "This is where your secret message will be!"
	testCrc     = uint32(2882656334)
)

func chunkBytes(length uint32, chunkType string, data []byte, crc uint32) []byte {
	var buf []byte
	buf = binary.BigEndian.AppendUint32(buf, length)
	buf = append(buf, chunkType...)
	buf = append(buf, data...)
	buf = binary.BigEndian.AppendUint32(buf, crc)
	return buf
}

func testingChunk(t *testing.T) *Chunk {
	t.Helper()
	chunk, rest, err := ParseChunk(chunkBytes(42, "RuSt", []byte(testMessage), testCrc))
	require.NoError(t, err)
	require.Empty(t, rest)
	return chunk
}

func TestNewChunk(t *testing.T) {
	ct, err := ChunkTypeFromString("RuSt")
	require.NoError(t, err)

	chunk := NewChunk(ct, []byte(testMessage))
	assert.Equal(t, uint32(42), chunk.Length())
	assert.Equal(t, testCrc, chunk.CRC())
}

func TestChunkAccessors(t *testing.T) {
	chunk := testingChunk(t)

	assert.Equal(t, uint32(42), chunk.Length())
	assert.Equal(t, "RuSt", chunk.Type().String())
	assert.Equal(t, testCrc, chunk.CRC())
	assert.Equal(t, []byte(testMessage), chunk.Data())

	text, err := chunk.DataAsString()
	require.NoError(t, err)
	assert.Equal(t, testMessage, text)
	assert.Contains(t, chunk.String(), "RuSt")
}

func TestParseChunkBadCrc(t *testing.T) {
	_, _, err := ParseChunk(chunkBytes(42, "RuSt", []byte(testMessage), testCrc-1))
	require.ErrorIs(t, err, common.ErrChecksumMismatch)
}

func TestParseChunkTruncated(t *testing.T) {
	full := chunkBytes(42, "RuSt", []byte(testMessage), testCrc)

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"partial length", full[:3]},
		{"partial type", full[:6]},
		{"partial data", full[:20]},
		{"missing crc", full[:len(full)-4]},
		{"partial crc", full[:len(full)-1]},
		{"huge length", chunkBytes(0xFFFFFFFF, "RuSt", []byte(testMessage), testCrc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseChunk(tt.input)
			require.ErrorIs(t, err, common.ErrTruncated)
		})
	}
}

func TestParseChunkReturnsRemainder(t *testing.T) {
	first := chunkBytes(42, "RuSt", []byte(testMessage), testCrc)
	second := NewChunk(ChunkTypeFromBytes([4]byte{'I', 'E', 'N', 'D'}), nil).Bytes()

	chunk, rest, err := ParseChunk(append(first, second...))
	require.NoError(t, err)
	assert.Equal(t, "RuSt", chunk.Type().String())
	assert.Equal(t, second, rest)

	end, rest, err := ParseChunk(rest)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), end.Length())
	assert.Empty(t, rest)
}

func TestChunkRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		code string
		data []byte
	}{
		{"empty", "IEND", nil},
		{"text", "tEXt", []byte("Comment\x00hello")},
		{"binary", "RuSt", []byte{0x00, 0xFF, 0xFE, 0x80, 0x7F}},
		{"invalid type", "Ru1t", []byte("still a record")},
		{"large", "IDAT", make([]byte, 1<<16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := ChunkTypeFromString(tt.code)
			require.NoError(t, err)

			chunk := NewChunk(ct, tt.data)
			parsed, rest, err := ParseChunk(chunk.Bytes())
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, chunk, parsed)
			assert.Equal(t, chunk.Bytes(), parsed.Bytes())
		})
	}
}

func TestChunkBitFlipIsDetected(t *testing.T) {
	ct, err := ChunkTypeFromString("RuSt")
	require.NoError(t, err)

	encoded := NewChunk(ct, []byte("flip me")).Bytes()
	dataStart := common.ChunkLengthLength + common.ChunkTypeLength

	for i := dataStart; i < len(encoded); i++ {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, len(encoded))
			copy(corrupted, encoded)
			corrupted[i] ^= 1 << bit

			_, _, err := ParseChunk(corrupted)
			require.ErrorIs(t, err, common.ErrChecksumMismatch, "byte %d bit %d", i, bit)
		}
	}
}

func TestChunkDataAsStringInvalidUtf8(t *testing.T) {
	ct, err := ChunkTypeFromString("RuSt")
	require.NoError(t, err)

	chunk := NewChunk(ct, []byte{0xC3, 0x28})
	_, err = chunk.DataAsString()
	require.ErrorIs(t, err, common.ErrInvalidUtf8)
}

func TestChunkIsImmutable(t *testing.T) {
	ct, err := ChunkTypeFromString("RuSt")
	require.NoError(t, err)

	data := []byte("original")
	chunk := NewChunk(ct, data)
	data[0] = 'X'

	out := chunk.Data()
	out[1] = 'Y'

	text, err := chunk.DataAsString()
	require.NoError(t, err)
	assert.Equal(t, "original", text)
	assert.Equal(t, Checksum(ct, []byte("original")), chunk.CRC())
}
