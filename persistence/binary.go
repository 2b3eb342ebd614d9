// Package persistence implements the binary snapshot format for arraygo
// containers. Snapshots carry a fixed header, a codec-encoded metadata
// section, and a compressed payload section guarded by a CRC32 checksum.
package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/hupe1980/arraygo/internal/mmap"
)

// sliceBytes reinterprets a numeric slice as its raw little-endian bytes.
// Valid only on little-endian hosts, which the format assumes.
func sliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var t T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(t)))
}

// readSliceInto fills a numeric slice from raw bytes on r.
func readSliceInto[T any](r io.Reader, s []T) error {
	if len(s) == 0 {
		return nil
	}
	_, err := io.ReadFull(r, sliceBytes(s))
	return err
}

// WriteHeader writes the fixed file header, stamping magic and version.
func WriteHeader(w io.Writer, header *FileHeader) error {
	header.Magic = MagicNumber
	header.Version = Version
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the fixed file header.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	return &header, nil
}

// SaveToFile writes a snapshot atomically: the content goes to a temp file
// in the target directory, which is then renamed over the destination.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile reads a snapshot through a buffered reader.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewReaderSize(f, 256*1024)
	return readFunc(buf)
}

// LoadFromFileMapped memory-maps the snapshot and hands the raw bytes to
// readFunc. The bytes are only valid for the duration of the call.
func LoadFromFileMapped(filename string, readFunc func(data []byte) error) error {
	m, err := mmap.Open(filename)
	if err != nil {
		return err
	}
	defer m.Close()

	return readFunc(m.Bytes())
}
