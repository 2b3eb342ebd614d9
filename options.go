package arraygo

import (
	"log/slog"

	"github.com/hupe1980/arraygo/blobstore"
	"github.com/hupe1980/arraygo/codec"
	"github.com/hupe1980/arraygo/persistence"
	"github.com/hupe1980/arraygo/resource"
)

type options struct {
	codec            codec.Codec
	compression      persistence.Compression
	store            blobstore.BlobStore
	localPath        string
	commitStore      blobstore.CommitStore
	cacheSize        int64
	cacheBlockSize   int64
	resourceConfig   resource.Config
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures catalog behavior at Open time.
type Option func(*options)

// Local stores snapshots under the given directory. Reads are mmap-backed
// and writes are atomic temp-file renames.
func Local(path string) Option {
	return func(o *options) {
		o.localPath = path
	}
}

// Remote stores snapshots in the given blob store (e.g. an S3 or MinIO
// backend).
func Remote(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCommitStore enables atomic manifest commits through an external
// compare-and-swap store. Required for safe concurrent writers on object
// storage.
func WithCommitStore(commit blobstore.CommitStore) Option {
	return func(o *options) {
		o.commitStore = commit
	}
}

// WithCodec configures the codec used for metadata sections.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the snapshot payload compression.
// Default is zstd.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCache enables block-level read caching in front of the blob store.
// sizeBytes is the cache capacity; blockSize <= 0 uses the default.
// Mainly useful for remote backends.
func WithCache(sizeBytes, blockSize int64) Option {
	return func(o *options) {
		o.cacheSize = sizeBytes
		o.cacheBlockSize = blockSize
	}
}

// WithResourceLimits bounds the memory, worker, and IO budgets shared by
// catalog operations.
func WithResourceLimits(cfg resource.Config) Option {
	return func(o *options) {
		o.resourceConfig = cfg
	}
}

// WithMetricsCollector configures a metrics collector for catalog
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		compression:      persistence.CompressionZSTD,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
