package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ludo-technologies/qscan/domain"
)

// DefaultMaxEntries is the LRU capacity used when none is configured
const DefaultMaxEntries = 1000

// ResultCache maps (content hash, analysis mode) to a prior QualityResult.
// Entries expire after their TTL and are evicted least-recently-used when
// the cache exceeds capacity. The in-memory map is the source of truth;
// the persisted file is a best-effort mirror rebuilt on every Put.
//
// All mutating operations are serialized by one internal lock. Disk writes
// happen outside the critical section from a snapshot; each snapshot
// carries a sequence number taken under the lock, and a writer holding a
// snapshot older than the last one written drops it, so the file always
// reflects the newest captured state.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	head    *cacheEntry // Most recently used.
	tail    *cacheEntry // Least recently used.

	maxEntries int
	path       string
	persist    bool
	logger     *slog.Logger

	// writeMu serializes disk writes so the final snapshot wins.
	// snapSeq orders snapshot captures (guarded by mu); writtenSeq is the
	// newest sequence written so far (guarded by writeMu).
	writeMu    sync.Mutex
	snapSeq    uint64
	writtenSeq uint64

	hits atomic.Int64

	// now is injectable for TTL tests
	now func() time.Time
}

// cacheEntry is a doubly-linked recency list node. The strict list order
// makes LRU eviction deterministic: no two entries can tie on recency,
// and entries touched equally recently keep insertion order.
type cacheEntry struct {
	key      string
	result   *domain.QualityResult
	storedAt time.Time
	ttl      time.Duration
	prev     *cacheEntry
	next     *cacheEntry
}

// persistedEntry is the on-disk representation of one cache entry
type persistedEntry struct {
	Result     *domain.QualityResult `json:"result"`
	StoredAt   int64                 `json:"stored_at"`
	TTLSeconds int64                 `json:"ttl"`
}

// Option configures a ResultCache
type Option func(*ResultCache)

// WithMaxEntries sets the LRU capacity
func WithMaxEntries(n int) Option {
	return func(c *ResultCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithPersistence enables persistence to the given file path
func WithPersistence(path string) Option {
	return func(c *ResultCache) {
		c.path = path
		c.persist = path != ""
	}
}

// WithLogger sets the structured logger for warnings
func WithLogger(logger *slog.Logger) Option {
	return func(c *ResultCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewResultCache creates a cache and loads any persisted state. A missing,
// unreadable, or corrupt cache file starts the cache empty with a logged
// warning; it never fails construction.
func NewResultCache(opts ...Option) *ResultCache {
	c := &ResultCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: DefaultMaxEntries,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.persist {
		c.loadFromDisk()
	}

	return c
}

// entryKey builds the "{content_hash}:{mode}" cache key
func entryKey(contentHash string, mode domain.AnalysisMode) string {
	return fmt.Sprintf("%s:%s", contentHash, mode)
}

// Get returns the cached result for (contentHash, mode) and true on a live
// hit. A hit refreshes the entry's recency. Expired entries are removed on
// access and reported as misses.
func (c *ResultCache) Get(contentHash string, mode domain.AnalysisMode) (*domain.QualityResult, bool) {
	key := entryKey(contentHash, mode)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.storedAt) >= entry.ttl {
		c.removeEntry(entry)
		return nil, false
	}

	c.hits.Add(1)
	c.moveToFront(entry)
	return entry.result, true
}

// Put stores a result under (contentHash, mode). When the cache is at
// capacity, least-recently-used entries are evicted before the insert.
// Concurrent puts for the same key resolve last-call-wins.
func (c *ResultCache) Put(contentHash string, mode domain.AnalysisMode, result *domain.QualityResult, ttl time.Duration) {
	if result == nil || ttl <= 0 {
		return
	}
	key := entryKey(contentHash, mode)

	c.mu.Lock()

	if existing, ok := c.entries[key]; ok {
		c.removeEntry(existing)
	}

	// Evict LRU entries until there is room for the new one.
	for len(c.entries) >= c.maxEntries && c.tail != nil {
		c.removeEntry(c.tail)
	}

	entry := &cacheEntry{
		key:      key,
		result:   result,
		storedAt: c.now(),
		ttl:      ttl,
	}
	c.entries[key] = entry
	c.pushFront(entry)

	var snapshot map[string]persistedEntry
	var seq uint64
	if c.persist {
		snapshot = c.snapshotLocked()
		c.snapSeq++
		seq = c.snapSeq
	}
	c.mu.Unlock()

	if snapshot != nil {
		c.writeSnapshot(snapshot, seq)
	}
}

// Clear removes all entries and rewrites the persisted file
func (c *ResultCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.head = nil
	c.tail = nil

	var snapshot map[string]persistedEntry
	var seq uint64
	if c.persist {
		snapshot = map[string]persistedEntry{}
		c.snapSeq++
		seq = c.snapSeq
	}
	c.mu.Unlock()

	if snapshot != nil {
		c.writeSnapshot(snapshot, seq)
	}
}

// Stats returns the current entry count and total hit counter
func (c *ResultCache) Stats() domain.CacheStats {
	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()

	return domain.CacheStats{
		Size:     size,
		HitCount: c.hits.Load(),
	}
}

// removeEntry unlinks an entry from the map and recency list.
// Caller must hold c.mu.
func (c *ResultCache) removeEntry(entry *cacheEntry) {
	delete(c.entries, entry.key)

	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
	entry.prev = nil
	entry.next = nil
}

// pushFront links an entry at the most-recently-used position.
// Caller must hold c.mu.
func (c *ResultCache) pushFront(entry *cacheEntry) {
	entry.prev = nil
	entry.next = c.head
	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry
	if c.tail == nil {
		c.tail = entry
	}
}

// moveToFront refreshes an entry's recency. Caller must hold c.mu.
func (c *ResultCache) moveToFront(entry *cacheEntry) {
	if c.head == entry {
		return
	}

	if entry.prev != nil {
		entry.prev.next = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
	entry.prev = nil
	entry.next = c.head
	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry
}

// snapshotLocked copies the live entries into the persisted form.
// Caller must hold c.mu.
func (c *ResultCache) snapshotLocked() map[string]persistedEntry {
	snapshot := make(map[string]persistedEntry, len(c.entries))
	for key, entry := range c.entries {
		snapshot[key] = persistedEntry{
			Result:     entry.result,
			StoredAt:   entry.storedAt.Unix(),
			TTLSeconds: int64(entry.ttl / time.Second),
		}
	}
	return snapshot
}

// writeSnapshot serializes the snapshot and writes it atomically via a
// temp file and rename. A snapshot older than the last one written is
// dropped, so writers acquiring writeMu out of capture order cannot
// regress the file. Failures are logged and never surfaced: the
// in-memory cache remains correct without the mirror.
func (c *ResultCache) writeSnapshot(snapshot map[string]persistedEntry, seq uint64) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if seq <= c.writtenSeq {
		return
	}
	c.writtenSeq = seq

	data, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("failed to serialize cache", "error", err)
		return
	}

	if err := atomicWriteFile(c.path, data); err != nil {
		c.logger.Warn("failed to persist cache", "path", c.path, "error", err)
	}
}

// atomicWriteFile writes data to path via write-temp-then-rename so a
// crash mid-write never leaves a partially written cache file. The temp
// file is removed on every failure path.
func atomicWriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return fmt.Errorf("failed to create cache directory: %w", mkErr)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// loadFromDisk restores persisted entries. Entries already expired at
// load time are dropped. Any read or decode problem degrades to an empty
// cache with a warning.
func (c *ResultCache) loadFromDisk() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to read cache file, starting empty", "path", c.path, "error", err)
		}
		return
	}

	var persisted map[string]persistedEntry
	if err := json.Unmarshal(data, &persisted); err != nil {
		c.logger.Warn("corrupt cache file, starting empty", "path", c.path, "error", err)
		return
	}

	now := c.now()
	for key, pe := range persisted {
		if pe.Result == nil || pe.TTLSeconds <= 0 {
			continue
		}
		storedAt := time.Unix(pe.StoredAt, 0)
		ttl := time.Duration(pe.TTLSeconds) * time.Second
		if now.Sub(storedAt) >= ttl {
			continue
		}

		entry := &cacheEntry{
			key:      key,
			result:   pe.Result,
			storedAt: storedAt,
			ttl:      ttl,
		}
		if len(c.entries) >= c.maxEntries {
			break
		}
		c.entries[key] = entry
		c.pushFront(entry)
	}
}
