package population

import (
	lru "github.com/hashicorp/golang-lru"
)

// FitnessCache memoizes fitness by formatted expression. Populations
// quickly fill with repeated expressions, so most lookups hit. It is safe
// for concurrent use.
type FitnessCache struct {
	cache *lru.Cache
}

// NewFitnessCache returns a cache holding up to size entries. A size below
// one disables caching and returns nil, which every method accepts.
func NewFitnessCache(size int) (*FitnessCache, error) {
	if size < 1 {
		return nil, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &FitnessCache{cache: c}, nil
}

// Evaluate fills in c's fitness from the cache, computing and storing it on
// a miss. It reports whether the value came from the cache.
func (fc *FitnessCache) Evaluate(c *Candidate, xs, ys []float64) bool {
	if c.Evaluated() {
		return true
	}
	if fc == nil {
		c.Evaluate(xs, ys)
		return false
	}
	key := c.String()
	if v, ok := fc.cache.Get(key); ok {
		c.SetFitness(v.(float64))
		return true
	}
	fc.cache.Add(key, c.Evaluate(xs, ys))
	return false
}

// Len returns the number of cached entries.
func (fc *FitnessCache) Len() int {
	if fc == nil {
		return 0
	}
	return fc.cache.Len()
}
