package common

var pngFileStartBytes = [PngSignatureLength]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// PngFileStartBytes returns a copy of the fixed signature every png file
// starts with.
func PngFileStartBytes() [PngSignatureLength]byte {
	return pngFileStartBytes
}

const (
	PngSignatureLength = 8
	ChunkTypeLength    = 4
	ChunkLengthLength  = 4
	ChunkCrcLength     = 4
)

/*

Chunks are stored inside a png in this format (all integers big-endian):

	Length    uint32
	Type      [4]byte
	Data      [Length]byte
	Crc       uint32   (crc32 over Type ++ Data)

*/

// ChunkOverhead is the number of bytes a chunk occupies beyond its data.
const ChunkOverhead = ChunkLengthLength + ChunkTypeLength + ChunkCrcLength
