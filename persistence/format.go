package persistence

import "errors"

const (
	// MagicNumber identifies arraygo snapshot files (ASCII: "ARG0").
	MagicNumber = 0x41524730
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000

	// Container kinds stored in the header.
	KindArray    = 1
	KindVector   = 2
	KindBivector = 3
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrInvalidKind    = errors.New("invalid container kind")
)

// FileHeader is the 64-byte header at the start of every snapshot file.
// Fixed-size and little-endian so it can be read straight off an mmap.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Kind        uint8 // 1=Array, 2=Vector, 3=Bivector
	Compression uint8
	Padding1    [2]byte
	Count       uint64 // Number of elements (pairs for a bivector)
	MetaLen     uint32 // Length of the codec-encoded metadata section
	PayloadLen  uint64 // Length of the (possibly compressed) payload section
	Checksum    uint32 // CRC32 of metadata + payload
	CodecName   [8]byte
	Reserved    [20]byte
}

func (h *FileHeader) codecName() string {
	n := 0
	for n < len(h.CodecName) && h.CodecName[n] != 0 {
		n++
	}
	return string(h.CodecName[:n])
}

func (h *FileHeader) setCodecName(name string) {
	h.CodecName = [8]byte{}
	copy(h.CodecName[:], name)
}
