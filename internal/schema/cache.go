package schema

import (
	"log/slog"
	"sync"
)

// Cache hands out one immutable Descriptor per document type, building it on
// first use. Steady-state lookups are lock-free reads of an entry whose
// sync.Once already fired; only the first caller per type pays for a build.
type Cache struct {
	compiler *Compiler
	store    *Store // optional persisted artifact, may be nil
	log      *slog.Logger

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	desc *Descriptor
	err  error
}

// NewCache creates a descriptor cache on top of a compiler. store may be nil
// to disable the persisted artifact.
func NewCache(compiler *Compiler, store *Store, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		compiler: compiler,
		store:    store,
		log:      log,
		entries:  make(map[string]*cacheEntry),
	}
}

// Lookup returns the Descriptor for a canonical document type name, compiling
// (or loading from the persisted store) on first use.
func (c *Cache) Lookup(docType string) (*Descriptor, error) {
	c.mu.Lock()
	e, ok := c.entries[docType]
	if !ok {
		e = &cacheEntry{}
		c.entries[docType] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.desc, e.err = c.build(docType)
	})
	return e.desc, e.err
}

func (c *Cache) build(docType string) (*Descriptor, error) {
	mtime, statErr := c.compiler.SourceModTime(docType)

	if c.store != nil && statErr == nil {
		if desc, ok := c.store.Load(docType, mtime); ok {
			c.log.Debug("descriptor loaded from store", "doc_type", docType)
			return desc, nil
		}
	}

	desc, err := c.compiler.Compile(docType)
	if err != nil {
		return nil, err
	}
	if c.store != nil && statErr == nil {
		if err := c.store.Save(docType, mtime, desc); err != nil {
			c.log.Warn("descriptor store save failed", "doc_type", docType, "err", err)
		}
	}
	c.log.Debug("descriptor compiled", "doc_type", docType, "fields", len(desc.Fields))
	return desc, nil
}
