package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/arraygo/internal/cache"
)

// CachingStore wraps a BlobStore and adds block-level read caching.
// Concurrent misses for the same block are collapsed into a single backend
// fetch. Intended for remote backends where round trips dominate.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
	group     singleflight.Group
}

// NewCachingStore creates a CachingStore. blockSize defaults to 64KB if <= 0.
func NewCachingStore(inner BlobStore, blockCache cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = 64 * 1024
	}
	return &CachingStore{
		inner:     inner,
		cache:     blockCache,
		blockSize: blockSize,
	}
}

// Open opens a blob whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{store: s, inner: b, name: name}, nil
}

// Create passes through to the backend. Writes are not cached; snapshots
// are immutable once published.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put writes a blob and drops any stale cached blocks for it.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob and its cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List passes through to the backend.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key cache.Key) bool {
		return key.Name == name
	})
}

type cachingBlob struct {
	store *CachingStore
	inner Blob
	name  string
}

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if off < 0 || off >= b.Size() {
		return 0, io.EOF
	}

	blockSize := b.store.blockSize
	startBlock := off / blockSize
	endBlock := (off + int64(len(p)) - 1) / blockSize

	totalRead := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		blkStart := blk * blockSize

		intersectStart := max(blkStart, off)
		intersectEnd := min(blkStart+blockSize, off+int64(len(p)))
		if intersectEnd <= intersectStart {
			continue
		}

		blockData, err := b.fetchBlock(ctx, blk)
		if err != nil {
			return totalRead, err
		}

		srcOffset := intersectStart - blkStart
		if srcOffset >= int64(len(blockData)) {
			break
		}
		dstOffset := intersectStart - off
		n := copy(p[dstOffset:intersectEnd-off], blockData[srcOffset:])
		totalRead += n
	}

	if totalRead < len(p) {
		return totalRead, io.EOF
	}
	return totalRead, nil
}

// fetchBlock returns a single cached block, fetching it from the backend on
// a miss. Concurrent misses for the same block share one fetch.
func (b *cachingBlob) fetchBlock(ctx context.Context, blk int64) ([]byte, error) {
	key := cache.Key{Name: b.name, Offset: uint64(blk)}
	if data, ok := b.store.cache.Get(ctx, key); ok {
		return data, nil
	}

	flightKey := fmt.Sprintf("%s#%d", b.name, blk)
	v, err, _ := b.store.group.Do(flightKey, func() (any, error) {
		// Re-check: another flight may have populated the cache already.
		if data, ok := b.store.cache.Get(ctx, key); ok {
			return data, nil
		}

		buf := make([]byte, b.store.blockSize)
		n, err := b.inner.ReadAt(ctx, buf, blk*b.store.blockSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		data := buf[:n]
		if n > 0 {
			b.store.cache.Set(ctx, key, data)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
