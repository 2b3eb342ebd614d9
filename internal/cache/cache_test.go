package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraygo/resource"
)

func TestLRUGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(1024, nil)

	key := Key{Name: "series/flux.arg", Offset: 0}
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []byte("block"))
	b, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte("block"), b)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(32, nil)

	for i := 0; i < 8; i++ {
		c.Set(ctx, Key{Name: "obj", Offset: uint64(i)}, make([]byte, 8))
	}

	assert.LessOrEqual(t, c.Size(), int64(32))

	// Oldest entries are gone, newest survive.
	_, ok := c.Get(ctx, Key{Name: "obj", Offset: 0})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Name: "obj", Offset: 7})
	assert.True(t, ok)
}

func TestLRUOversizedBlockNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(16, nil)

	c.Set(ctx, Key{Name: "big"}, make([]byte, 64))
	_, ok := c.Get(ctx, Key{Name: "big"})
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Size())
}

func TestLRUUpdateExisting(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(64, nil)

	key := Key{Name: "obj"}
	c.Set(ctx, key, []byte("short"))
	c.Set(ctx, key, []byte("a longer value"))

	b, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte("a longer value"), b)
	assert.Equal(t, int64(len("a longer value")), c.Size())
}

func TestLRUInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(1024, nil)

	for i := 0; i < 4; i++ {
		c.Set(ctx, Key{Name: fmt.Sprintf("obj-%d", i)}, []byte{byte(i)})
	}

	c.Invalidate(func(key Key) bool { return key.Name == "obj-2" })

	_, ok := c.Get(ctx, Key{Name: "obj-2"})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Name: "obj-1"})
	assert.True(t, ok)
}

func TestLRUMemoryBudget(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MaxMemoryBytes: 16})
	c := NewLRU(1024, rc)

	c.Set(ctx, Key{Name: "a"}, make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())

	// Budget exhausted, block is dropped.
	c.Set(ctx, Key{Name: "b"}, make([]byte, 10))
	_, ok := c.Get(ctx, Key{Name: "b"})
	assert.False(t, ok)

	require.NoError(t, c.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}
