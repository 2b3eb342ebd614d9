// Package blobstore abstracts the storage backends that hold container
// snapshots. A catalog persists arrays and sampled series as immutable
// blobs; backends range from in-memory maps for tests to local mmap-backed
// files and S3-compatible object stores.
package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations must return an error satisfying errors.Is(err, ErrNotFound).
// The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for storing immutable snapshot blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for streaming writes. The blob becomes visible
	// when Close returns without error.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	// ReadAt reads len(p) bytes at offset off. Short reads at the end of
	// the blob return io.EOF.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	// Close releases the handle.
	Close() error
}

// WritableBlob is a streaming write handle.
type WritableBlob interface {
	io.Writer
	// Sync flushes buffered data where the backend supports it.
	Sync() error
	// Close finalizes the write and publishes the blob.
	Close() error
}

// ErrConcurrentModification is returned by a CommitStore when another
// writer committed a version first.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// CommitStore provides the atomic compare-and-swap that plain object
// stores lack. A catalog uses it to advance the current manifest pointer;
// concurrent writers race on the version number and the loser retries.
type CommitStore interface {
	// Latest returns the newest committed version and the manifest blob
	// name it points to. Version 0 means nothing has been committed.
	Latest(ctx context.Context) (version uint64, manifestName string, err error)
	// Commit publishes version pointing at manifestName. Committing a
	// version that already exists fails with ErrConcurrentModification.
	Commit(ctx context.Context, version uint64, manifestName string) error
}

// Mappable is an optional interface for Blobs backed by mapped memory.
type Mappable interface {
	// Bytes returns the underlying byte slice, valid until the Blob is
	// closed. Zero-copy where supported.
	Bytes() ([]byte, error)
}

// ReadAll reads an entire blob into memory.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if m, ok := b.(Mappable); ok {
		mapped, err := m.Bytes()
		if err == nil {
			out := make([]byte, len(mapped))
			copy(out, mapped)
			return out, nil
		}
	}

	out := make([]byte, b.Size())
	if _, err := b.ReadAt(ctx, out, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}
