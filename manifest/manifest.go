// Package manifest tracks the containers a catalog has persisted. Each
// manifest is an immutable, versioned snapshot of the catalog contents;
// the newest version is found through a CURRENT pointer blob or, where
// available, an external commit store with compare-and-swap semantics.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/arraygo/blobstore"
	"github.com/hupe1980/arraygo/codec"
)

const (
	manifestPrefix  = "MANIFEST"
	CurrentFileName = "CURRENT"
	// CurrentVersion is the manifest format version.
	CurrentVersion = 1
)

// ErrNotFound is returned when no manifest has been committed yet.
var ErrNotFound = errors.New("manifest not found")

// Entry describes one persisted container.
type Entry struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"` // "array", "vector" or "bivector"
	Blob      string    `json:"blob"` // snapshot blob name
	Type      string    `json:"type,omitempty"`
	Count     int       `json:"count"`
	Size      int64     `json:"size"`
	Checksum  uint32    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manifest is a point-in-time description of the catalog contents.
type Manifest struct {
	Version   int              `json:"version"`
	ID        uint64           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Entries   map[string]Entry `json:"entries"`
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Entries: make(map[string]Entry),
	}
}

// Set adds or replaces the entry for entry.Name.
func (m *Manifest) Set(entry Entry) {
	if m.Entries == nil {
		m.Entries = make(map[string]Entry)
	}
	m.Entries[entry.Name] = entry
}

// Get returns the entry for name.
func (m *Manifest) Get(name string) (Entry, bool) {
	entry, ok := m.Entries[name]
	return entry, ok
}

// Remove deletes the entry for name and reports whether it existed.
func (m *Manifest) Remove(name string) bool {
	if _, ok := m.Entries[name]; !ok {
		return false
	}
	delete(m.Entries, name)
	return true
}

// Names returns all entry names, sorted.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Entries))
	for name := range m.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy, used to stage the next version.
func (m *Manifest) Clone() *Manifest {
	clone := &Manifest{
		Version:   m.Version,
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		Entries:   make(map[string]Entry, len(m.Entries)),
	}
	for name, entry := range m.Entries {
		clone.Entries[name] = entry
	}
	return clone
}

// Store manages versioned manifests on a blob store. With a CommitStore
// the version advance is an atomic compare-and-swap; without one the
// CURRENT pointer blob is overwritten, which is safe for a single writer.
type Store struct {
	store  blobstore.BlobStore
	commit blobstore.CommitStore // optional
	codec  codec.Codec
	mu     sync.Mutex
}

// NewStore creates a manifest store. commit may be nil.
func NewStore(store blobstore.BlobStore, commit blobstore.CommitStore, c codec.Codec) *Store {
	if c == nil {
		c = codec.Default
	}
	return &Store{store: store, commit: commit, codec: c}
}

func manifestName(id uint64) string {
	return fmt.Sprintf("%s-%06d.json", manifestPrefix, id)
}

// Load returns the current manifest, or ErrNotFound if nothing has been
// committed yet.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.currentName(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, name)
}

// LoadVersion loads a specific manifest version.
func (s *Store) LoadVersion(ctx context.Context, id uint64) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, manifestName(id))
}

func (s *Store) currentName(ctx context.Context) (string, error) {
	if s.commit != nil {
		version, name, err := s.commit.Latest(ctx)
		if err != nil {
			return "", err
		}
		if version == 0 {
			return "", ErrNotFound
		}
		return name, nil
	}

	data, err := blobstore.ReadAll(ctx, s.store, CurrentFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}

func (s *Store) load(ctx context.Context, name string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, s.store, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open manifest %s: %w", name, err)
	}

	m := New()
	if err := s.codec.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", name, err)
	}
	return m, nil
}

// Save publishes m as the next version. On blobstore.ErrConcurrentModification
// the caller should reload, reapply its change, and retry.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.Version = CurrentVersion
	m.ID++
	m.CreatedAt = time.Now().UTC()

	name := manifestName(m.ID)

	data, err := s.codec.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, name, data); err != nil {
		return err
	}

	if s.commit != nil {
		if err := s.commit.Commit(ctx, m.ID, name); err != nil {
			m.ID--
			return err
		}
		return nil
	}
	return s.store.Put(ctx, CurrentFileName, []byte(name))
}

// ListVersions returns the IDs of all stored manifest versions, ascending.
// Unreadable names are skipped.
func (s *Store) ListVersions(ctx context.Context) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.store.List(ctx, manifestPrefix)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	for _, f := range files {
		if path.Ext(f) != ".json" {
			continue
		}
		var id uint64
		if _, err := fmt.Sscanf(path.Base(f), manifestPrefix+"-%d.json", &id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// DeleteVersion removes the manifest blob for id. The current version
// pointer is not touched.
func (s *Store) DeleteVersion(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Delete(ctx, manifestName(id))
}
