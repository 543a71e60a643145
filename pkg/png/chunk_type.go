package png

import (
	"fmt"
	"unicode/utf8"

	"github.com/beam-cloud/pngme/pkg/common"
)

// ChunkType is the 4-byte code identifying a chunk. The case of each byte
// carries one property flag: uppercase means the flag is set.
type ChunkType [common.ChunkTypeLength]byte

// ChunkTypeFromBytes builds a ChunkType from raw bytes without validating them.
// It is used when reading records that are already on disk.
func ChunkTypeFromBytes(b [common.ChunkTypeLength]byte) ChunkType {
	return ChunkType(b)
}

// NewChunkType builds a ChunkType from raw bytes and rejects codes that are
// not valid.
func NewChunkType(b [common.ChunkTypeLength]byte) (ChunkType, error) {
	ct := ChunkType(b)
	if !ct.IsValid() {
		return ChunkType{}, fmt.Errorf("%w: %q", common.ErrInvalidFormat, b[:])
	}
	return ct, nil
}

// ChunkTypeFromString takes the bytes of s as-is. s must be exactly 4 bytes long.
func ChunkTypeFromString(s string) (ChunkType, error) {
	if len(s) != common.ChunkTypeLength {
		return ChunkType{}, fmt.Errorf("%w: got %d bytes in %q", common.ErrInvalidLength, len(s), s)
	}

	var ct ChunkType
	copy(ct[:], s)
	return ct, nil
}

// ParseChunkType is the strict text constructor used for user supplied types.
func ParseChunkType(s string) (ChunkType, error) {
	ct, err := ChunkTypeFromString(s)
	if err != nil {
		return ChunkType{}, err
	}
	if !ct.IsValid() {
		return ChunkType{}, fmt.Errorf("%w: %q", common.ErrInvalidFormat, s)
	}
	return ct, nil
}

func (ct ChunkType) Bytes() [common.ChunkTypeLength]byte {
	return [common.ChunkTypeLength]byte(ct)
}

// IsValid reports whether every byte is an ASCII letter and the reserved bit is valid.
func (ct ChunkType) IsValid() bool {
	for _, b := range ct {
		if !isASCIILetter(b) {
			return false
		}
	}
	return ct.IsReservedBitValid()
}

func (ct ChunkType) IsCritical() bool {
	return isASCIIUpper(ct[0])
}

func (ct ChunkType) IsPublic() bool {
	return isASCIIUpper(ct[1])
}

func (ct ChunkType) IsReservedBitValid() bool {
	return isASCIIUpper(ct[2])
}

func (ct ChunkType) IsSafeToCopy() bool {
	return isASCIILower(ct[3])
}

// String returns the raw bytes as a string. Use Text when the bytes may not be text.
func (ct ChunkType) String() string {
	return string(ct[:])
}

// Text returns the code as a string, failing if the bytes are not valid utf-8.
func (ct ChunkType) Text() (string, error) {
	if !utf8.Valid(ct[:]) {
		return "", fmt.Errorf("%w: chunk type %x", common.ErrInvalidUtf8, ct[:])
	}
	return string(ct[:]), nil
}

func isASCIIUpper(b byte) bool {
	return 'A' <= b && b <= 'Z'
}

func isASCIILower(b byte) bool {
	return 'a' <= b && b <= 'z'
}

func isASCIILetter(b byte) bool {
	return isASCIIUpper(b) || isASCIILower(b)
}
