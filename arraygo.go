package arraygo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/arraygo/array"
	"github.com/hupe1980/arraygo/bivector"
	"github.com/hupe1980/arraygo/blobstore"
	"github.com/hupe1980/arraygo/internal/cache"
	"github.com/hupe1980/arraygo/manifest"
	"github.com/hupe1980/arraygo/persistence"
	"github.com/hupe1980/arraygo/resource"
	"github.com/hupe1980/arraygo/vector"
)

// Version is the library version.
const Version = "0.1.0"

// Container kinds as recorded in the manifest.
const (
	KindArray    = "array"
	KindVector   = "vector"
	KindBivector = "bivector"
)

// commitRetries bounds how often a save retries after losing a manifest
// race to another writer.
const commitRetries = 3

// Catalog is a named collection of persisted containers. Snapshots live in
// a blob store; a versioned manifest tracks what exists. A Catalog is safe
// for concurrent use.
type Catalog struct {
	store     blobstore.BlobStore
	manifests *manifest.Store
	rc        *resource.Controller
	cache     cache.BlockCache
	opts      options

	mu      sync.Mutex
	current *manifest.Manifest
	closed  bool
}

// Open opens or creates a catalog. Without a Local or Remote option the
// catalog is purely in-memory, which is useful for tests and scratch work.
func Open(ctx context.Context, optFns ...Option) (*Catalog, error) {
	o := applyOptions(optFns)

	store := o.store
	if store == nil && o.localPath != "" {
		local, err := blobstore.NewLocalStore(o.localPath)
		if err != nil {
			return nil, err
		}
		store = local
	}
	if store == nil {
		store = blobstore.NewMemoryStore()
	}

	var rc *resource.Controller
	if o.resourceConfig != (resource.Config{}) {
		rc = resource.NewController(o.resourceConfig)
	}

	var blockCache cache.BlockCache
	if o.cacheSize > 0 {
		blockCache = cache.NewLRU(o.cacheSize, rc)
		store = blobstore.NewCachingStore(store, blockCache, o.cacheBlockSize)
	}

	c := &Catalog{
		store:     store,
		manifests: manifest.NewStore(store, o.commitStore, o.codec),
		rc:        rc,
		cache:     blockCache,
		opts:      o,
	}

	current, err := c.manifests.Load(ctx)
	if err != nil {
		if !errors.Is(err, manifest.ErrNotFound) {
			return nil, err
		}
		current = manifest.New()
	}
	c.current = current

	o.logger.InfoContext(ctx, "catalog opened",
		"entries", len(current.Entries),
		"manifest_version", current.ID,
	)
	return c, nil
}

// Close releases the catalog's resources. The catalog must not be used
// afterwards. Close is idempotent.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}

func (c *Catalog) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func (c *Catalog) snapshotOptions() persistence.Options {
	return persistence.Options{
		Compression: c.opts.compression,
		Codec:       c.opts.codec,
	}
}

func blobName(kind, name string) string {
	switch kind {
	case KindArray:
		return fmt.Sprintf("arrays/%s.arg", name)
	default:
		return fmt.Sprintf("series/%s.arg", name)
	}
}

// save writes the snapshot blob, then publishes a manifest entry for it.
// Losing a commit race reloads the manifest, reapplies the entry, and
// retries.
func (c *Catalog) save(ctx context.Context, name, kind string, count int, typeName string, data []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if err := c.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}

	blob := blobName(kind, name)
	if err := c.store.Put(ctx, blob, data); err != nil {
		return err
	}

	entry := manifest.Entry{
		Name:      name,
		Kind:      kind,
		Blob:      blob,
		Type:      typeName,
		Count:     count,
		Size:      int64(len(data)),
		Checksum:  persistence.Checksum(data),
		UpdatedAt: time.Now().UTC(),
	}
	return c.updateManifest(ctx, func(m *manifest.Manifest) {
		m.Set(entry)
	})
}

func (c *Catalog) updateManifest(ctx context.Context, apply func(*manifest.Manifest)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.current.Clone()
	apply(next)

	var err error
	for attempt := 0; attempt <= commitRetries; attempt++ {
		err = c.manifests.Save(ctx, next)
		if err == nil {
			c.current = next
			c.opts.logger.LogCommit(ctx, next.ID, nil)
			return nil
		}
		if !errors.Is(err, blobstore.ErrConcurrentModification) {
			break
		}

		// Another writer won; rebase onto their manifest.
		current, loadErr := c.manifests.Load(ctx)
		if loadErr != nil {
			return loadErr
		}
		c.current = current
		next = current.Clone()
		apply(next)
	}
	c.opts.logger.LogCommit(ctx, next.ID, err)
	return err
}

func (c *Catalog) lookup(name, kind string) (manifest.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return manifest.Entry{}, ErrClosed
	}
	entry, ok := c.current.Get(name)
	if !ok {
		return manifest.Entry{}, fmt.Errorf("%w: container %q", ErrDataNotFound, name)
	}
	if entry.Kind != kind {
		return manifest.Entry{}, fmt.Errorf("%w: container %q is a %s, not a %s",
			ErrIncompatibleInput, name, entry.Kind, kind)
	}
	return entry, nil
}

func (c *Catalog) load(ctx context.Context, name, kind string) ([]byte, error) {
	entry, err := c.lookup(name, kind)
	if err != nil {
		return nil, err
	}
	data, err := blobstore.ReadAll(ctx, c.store, entry.Blob)
	if err != nil {
		return nil, translateError(err)
	}
	if err := c.rc.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

// SaveArray persists a under the given name, replacing any previous
// container of that name.
func (c *Catalog) SaveArray(ctx context.Context, name string, a *array.Array) error {
	start := time.Now()
	err := c.saveArray(ctx, name, a)

	var size int
	if a != nil {
		size = a.Size()
	}
	c.opts.logger.LogSave(ctx, name, KindArray, size, err)
	c.opts.metricsCollector.RecordSave(time.Since(start), 0, err)
	return err
}

func (c *Catalog) saveArray(ctx context.Context, name string, a *array.Array) error {
	if a == nil {
		return fmt.Errorf("%w: array", ErrNullInput)
	}

	var buf bytes.Buffer
	if err := persistence.WriteArray(&buf, a, c.snapshotOptions()); err != nil {
		return err
	}
	return c.save(ctx, name, KindArray, a.Size(), a.Type().String(), buf.Bytes())
}

// LoadArray reads the array saved under name.
func (c *Catalog) LoadArray(ctx context.Context, name string) (*array.Array, error) {
	start := time.Now()
	data, err := c.load(ctx, name, KindArray)
	if err != nil {
		c.opts.logger.LogLoad(ctx, name, KindArray, err)
		c.opts.metricsCollector.RecordLoad(time.Since(start), 0, err)
		return nil, err
	}

	a, err := persistence.ReadArray(bytes.NewReader(data))
	c.opts.logger.LogLoad(ctx, name, KindArray, err)
	c.opts.metricsCollector.RecordLoad(time.Since(start), int64(len(data)), err)
	return a, err
}

// SaveVector persists v under the given name.
func (c *Catalog) SaveVector(ctx context.Context, name string, v *vector.Vector) error {
	start := time.Now()
	err := c.saveVector(ctx, name, v)

	var size int
	if v != nil {
		size = v.Size()
	}
	c.opts.logger.LogSave(ctx, name, KindVector, size, err)
	c.opts.metricsCollector.RecordSave(time.Since(start), 0, err)
	return err
}

func (c *Catalog) saveVector(ctx context.Context, name string, v *vector.Vector) error {
	if v == nil {
		return fmt.Errorf("%w: vector", ErrNullInput)
	}

	var buf bytes.Buffer
	if err := persistence.WriteVector(&buf, v, c.snapshotOptions()); err != nil {
		return err
	}
	return c.save(ctx, name, KindVector, v.Size(), "", buf.Bytes())
}

// LoadVector reads the vector saved under name.
func (c *Catalog) LoadVector(ctx context.Context, name string) (*vector.Vector, error) {
	start := time.Now()
	data, err := c.load(ctx, name, KindVector)
	if err != nil {
		c.opts.logger.LogLoad(ctx, name, KindVector, err)
		c.opts.metricsCollector.RecordLoad(time.Since(start), 0, err)
		return nil, err
	}

	v, err := persistence.ReadVector(bytes.NewReader(data))
	c.opts.logger.LogLoad(ctx, name, KindVector, err)
	c.opts.metricsCollector.RecordLoad(time.Since(start), int64(len(data)), err)
	return v, err
}

// SaveBivector persists b under the given name.
func (c *Catalog) SaveBivector(ctx context.Context, name string, b *bivector.Bivector) error {
	start := time.Now()
	err := c.saveBivector(ctx, name, b)

	var size int
	if b != nil && b.X() != nil {
		size = b.Size()
	}
	c.opts.logger.LogSave(ctx, name, KindBivector, size, err)
	c.opts.metricsCollector.RecordSave(time.Since(start), 0, err)
	return err
}

func (c *Catalog) saveBivector(ctx context.Context, name string, b *bivector.Bivector) error {
	if b == nil {
		return fmt.Errorf("%w: bivector", ErrNullInput)
	}

	var buf bytes.Buffer
	if err := persistence.WriteBivector(&buf, b, c.snapshotOptions()); err != nil {
		return err
	}
	return c.save(ctx, name, KindBivector, b.Size(), "", buf.Bytes())
}

// LoadBivector reads the bivector saved under name.
func (c *Catalog) LoadBivector(ctx context.Context, name string) (*bivector.Bivector, error) {
	start := time.Now()
	data, err := c.load(ctx, name, KindBivector)
	if err != nil {
		c.opts.logger.LogLoad(ctx, name, KindBivector, err)
		c.opts.metricsCollector.RecordLoad(time.Since(start), 0, err)
		return nil, err
	}

	b, err := persistence.ReadBivector(bytes.NewReader(data))
	c.opts.logger.LogLoad(ctx, name, KindBivector, err)
	c.opts.metricsCollector.RecordLoad(time.Since(start), int64(len(data)), err)
	return b, err
}

// Delete removes the container saved under name, both the manifest entry
// and the snapshot blob.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := c.delete(ctx, name)
	c.opts.logger.LogDelete(ctx, name, err)
	c.opts.metricsCollector.RecordDelete(time.Since(start), err)
	return err
}

func (c *Catalog) delete(ctx context.Context, name string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	c.mu.Lock()
	entry, ok := c.current.Get(name)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: container %q", ErrDataNotFound, name)
	}

	if err := c.updateManifest(ctx, func(m *manifest.Manifest) {
		m.Remove(name)
	}); err != nil {
		return err
	}
	return c.store.Delete(ctx, entry.Blob)
}

// List returns the manifest entries of all saved containers, sorted by
// name.
func (c *Catalog) List(ctx context.Context) ([]manifest.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	entries := make([]manifest.Entry, 0, len(c.current.Entries))
	for _, name := range c.current.Names() {
		entries = append(entries, c.current.Entries[name])
	}
	return entries, nil
}

// Resample interpolates every target bivector onto the reference sampling
// in parallel, bounded by the catalog's worker budget.
func (c *Catalog) Resample(ctx context.Context, reference *bivector.Bivector, targets []*bivector.Bivector) error {
	start := time.Now()

	parallelism := 0
	if c.rc != nil {
		parallelism = int(c.opts.resourceConfig.MaxWorkers)
	}
	err := bivector.InterpolateAll(ctx, reference, targets, parallelism)

	c.opts.logger.LogResample(ctx, len(targets), err)
	c.opts.metricsCollector.RecordResample(len(targets), time.Since(start), err)
	return err
}
