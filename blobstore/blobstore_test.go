package blobstore

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraygo/internal/cache"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "arrays/flux.arg", []byte("payload")))

	b, err := store.Open(ctx, "arrays/flux.arg")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(7), b.Size())

	buf := make([]byte, 4)
	n, err := b.ReadAt(ctx, buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("load"), buf)
}

func TestMemoryStoreCreateAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w, err := store.Create(ctx, "arrays/a.arg")
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)

	// Not visible until Close.
	_, err = store.Open(ctx, "arrays/a.arg")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())

	require.NoError(t, store.Put(ctx, "series/b.arg", []byte("x")))

	names, err := store.List(ctx, "arrays/")
	require.NoError(t, err)
	assert.Equal(t, []string{"arrays/a.arg"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"arrays/a.arg", "series/b.arg"}, all)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "a", []byte("1")))
	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"), "double delete is fine")

	_, err := store.Open(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "arrays/flux.arg", []byte("mapped payload")))

	b, err := store.Open(ctx, "arrays/flux.arg")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(14), b.Size())

	mapped, ok := b.(Mappable)
	require.True(t, ok)
	raw, err := mapped.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("mapped payload"), raw)

	data, err := ReadAll(ctx, store, "arrays/flux.arg")
	require.NoError(t, err)
	assert.Equal(t, []byte("mapped payload"), data)
}

func TestLocalStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "arrays/a.arg", []byte("1")))
	require.NoError(t, store.Put(ctx, "arrays/b.arg", []byte("2")))
	require.NoError(t, store.Put(ctx, "series/c.arg", []byte("3")))

	names, err := store.List(ctx, "arrays/")
	require.NoError(t, err)
	assert.Equal(t, []string{"arrays/a.arg", "arrays/b.arg"}, names)

	require.NoError(t, store.Delete(ctx, "arrays/a.arg"))
	require.NoError(t, store.Delete(ctx, "arrays/a.arg"))

	_, err = store.Open(ctx, "arrays/a.arg")
	assert.ErrorIs(t, err, ErrNotFound)
}

// countingStore counts backend reads to observe cache effectiveness.
type countingStore struct {
	BlobStore
	reads atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &countingBlob{Blob: b, store: s}, nil
}

type countingBlob struct {
	Blob
	store *countingStore
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.store.reads.Add(1)
	return b.Blob.ReadAt(ctx, p, off)
}

func TestCachingStoreReadThrough(t *testing.T) {
	ctx := context.Background()

	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	backend := &countingStore{BlobStore: NewMemoryStore()}
	require.NoError(t, backend.Put(ctx, "blob", payload))

	store := NewCachingStore(backend, cache.NewLRU(1<<20, nil), 256)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	got := make([]byte, 500)
	n, err := b.ReadAt(ctx, got, 100)
	require.NoError(t, err)
	assert.Equal(t, 500, n)
	assert.Equal(t, payload[100:600], got)

	// Second read of the same range is served from cache.
	before := backend.reads.Load()
	_, err = b.ReadAt(ctx, got, 100)
	require.NoError(t, err)
	assert.Equal(t, before, backend.reads.Load())
}

func TestCachingStoreReadAcrossEOF(t *testing.T) {
	ctx := context.Background()

	backend := NewMemoryStore()
	require.NoError(t, backend.Put(ctx, "blob", []byte("0123456789")))

	store := NewCachingStore(backend, cache.NewLRU(1<<20, nil), 4)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	got := make([]byte, 8)
	n, err := b.ReadAt(ctx, got, 6)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("6789"), got[:n])
}

func TestCachingStoreInvalidateOnPut(t *testing.T) {
	ctx := context.Background()

	backend := NewMemoryStore()
	require.NoError(t, backend.Put(ctx, "blob", []byte("old data")))

	store := NewCachingStore(backend, cache.NewLRU(1<<20, nil), 4)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	got := make([]byte, 8)
	_, err = b.ReadAt(ctx, got, 0)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	require.NoError(t, store.Put(ctx, "blob", []byte("new data")))

	b, err = store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()
	_, err = b.ReadAt(ctx, got, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("new data"), got)
}

func TestCachingStoreConcurrentReaders(t *testing.T) {
	ctx := context.Background()

	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i)
	}

	backend := NewMemoryStore()
	require.NoError(t, backend.Put(ctx, "blob", payload))

	store := NewCachingStore(backend, cache.NewLRU(1<<20, nil), 512)

	b, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer b.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := make([]byte, 1024)
			for i := 0; i < 20; i++ {
				off := int64((i * 128) % 3000)
				n, err := b.ReadAt(ctx, got, off)
				if assert.NoError(t, err) {
					assert.Equal(t, payload[off:off+1024], got[:n])
				}
			}
		}()
	}
	wg.Wait()
}
