package scrolling

import "github.com/cespare/xxhash/v2"

// ── Memoization cache ───────────────────────────────────────────────

type cacheEntry struct {
	slots uint8
	stats Stats
	use   *ScrollUse
}

// Cache maps (slots, stats) to the optimal ScrollUse computed for that
// state. Probes hash the caller's vector in place and never clone it; only
// Put copies the vector. Not safe for concurrent use.
type Cache struct {
	buckets map[uint64][]cacheEntry
	scratch []byte
	n       int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{buckets: make(map[uint64][]cacheEntry)}
}

func (c *Cache) hash(slots uint8, stats Stats) uint64 {
	c.scratch = append(c.scratch[:0], slots)
	c.scratch = stats.appendKey(c.scratch)
	return xxhash.Sum64(c.scratch)
}

// Get returns the ScrollUse cached for (slots, stats).
func (c *Cache) Get(slots uint8, stats Stats) (*ScrollUse, bool) {
	for _, e := range c.buckets[c.hash(slots, stats)] {
		if e.slots == slots && e.stats.Equal(stats) {
			return e.use, true
		}
	}
	return nil, false
}

// Put stores use under (slots, stats), replacing any previous entry. The
// stored ScrollUse must not be modified afterwards.
func (c *Cache) Put(slots uint8, stats Stats, use *ScrollUse) {
	h := c.hash(slots, stats)
	bucket := c.buckets[h]
	for i := range bucket {
		if bucket[i].slots == slots && bucket[i].stats.Equal(stats) {
			bucket[i].use = use
			return
		}
	}
	c.buckets[h] = append(bucket, cacheEntry{slots: slots, stats: stats.Clone(), use: use})
	c.n++
}

// Len is the number of cached states.
func (c *Cache) Len() int { return c.n }
