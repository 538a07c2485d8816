// Package assets loads mesh resources and caches their bytes by content
// identity. Resources are opaque to this package; the identity key lets
// callers run one-time work, such as a camera fit, once per distinct mesh.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/prepview/internal/logger"
)

// ErrEmptyResource is returned for zero-length mesh resources.
var ErrEmptyResource = errors.New("empty mesh resource")

// keyLength is the number of hex digits kept from the content hash.
const keyLength = 16

// Resource is a loaded mesh resource.
type Resource struct {
	Key  string // content identity
	Name string // file path or caller-supplied name
	Data []byte
}

// Size returns the resource size in bytes.
func (r *Resource) Size() int {
	return len(r.Data)
}

// Manager handles mesh resource loading.
type Manager struct {
	cache *Cache
	names map[string]string // name -> key
	mu    sync.RWMutex
	log   *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
		names: make(map[string]string),
		log:   logger.Named("assets"),
	}
}

// Open reads the mesh resource at path.
func (m *Manager) Open(path string) (*Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh %s: %w", path, err)
	}
	defer f.Close()
	return m.Read(path, f)
}

// Read loads a mesh resource from r under the given name. Identical bytes
// share one cache entry regardless of name.
func (m *Manager) Read(name string, r io.Reader) (*Resource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading mesh %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyResource)
	}

	key := Key(data)
	if cached, ok := m.cache.Get(key); ok {
		data = cached
	} else {
		m.cache.Set(key, data)
	}

	m.mu.Lock()
	m.names[name] = key
	m.mu.Unlock()

	m.log.Debug("mesh loaded",
		zap.String("name", name),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return &Resource{Key: key, Name: name, Data: data}, nil
}

// Lookup returns a previously loaded resource by name.
func (m *Manager) Lookup(name string) (*Resource, bool) {
	m.mu.RLock()
	key, ok := m.names[name]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	data, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}
	return &Resource{Key: key, Name: name, Data: data}, true
}

// Release drops a resource from the cache along with every name bound to
// it. Releasing an unknown key is a no-op.
func (m *Manager) Release(key string) {
	m.mu.Lock()
	for name, k := range m.names {
		if k == key {
			delete(m.names, name)
		}
	}
	m.mu.Unlock()

	if m.cache.Delete(key) {
		m.log.Debug("mesh released", zap.String("key", key))
	}
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close releases all resources.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = make(map[string]string)
	m.cache.Clear()
}

// Key returns the content identity for data.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:keyLength]
}

// Cache is a simple in-memory cache for loaded resources.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item and reports whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	delete(c.data, key)
	return ok
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
