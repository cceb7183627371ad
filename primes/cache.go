package primes

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ErrCacheCorrupted is returned by every operation on a cache whose update
// panicked while it held the write lock.
var ErrCacheCorrupted = errors.New("primes: cache corrupted")

// maxGapScan bounds the number of integers Record inspects when it tries to
// extend the contiguous prefix over the gap to the next cached prime.
const maxGapScan = 1 << 12

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Cache is the memo of primes proven during one factorization call.
//
// It keeps an ascending slice and a hash set over the same values in
// lockstep. Lookups share a read lock; Record takes the write lock.
// The cache only grows.
//
// Besides the primes themselves the cache tracks its contiguous prefix:
// the longest run sorted[0..prefix] such that every prime up to
// sorted[prefix] is 2, 3 or cached. Trial division may only resume past
// primes of that prefix.
type Cache struct {
	mu       sync.RWMutex
	sorted   []*big.Int
	set      map[uint64][]*big.Int
	prefix   int
	poisoned error
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		set:    make(map[uint64][]*big.Int),
		prefix: -1,
	}
}

func hashKey(n *big.Int) uint64 {
	return xxhash.Sum64(n.Bytes())
}

// Record inserts p if it is not cached yet and reports whether it did.
// Concurrent Records of the same prime leave exactly one entry.
func (c *Cache) Record(p *big.Int) (inserted bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned != nil {
		return false, c.poisoned
	}
	defer func() {
		if r := recover(); r != nil {
			c.poisoned = fmt.Errorf("%w: panic during record: %v", ErrCacheCorrupted, r)
			inserted, err = false, c.poisoned
		}
	}()

	key := hashKey(p)
	if c.containsLocked(key, p) {
		return false, nil
	}

	v := new(big.Int).Set(p)
	idx := sort.Search(len(c.sorted), func(i int) bool {
		return v.Cmp(c.sorted[i]) < 0
	})
	c.sorted = append(c.sorted, nil)
	copy(c.sorted[idx+1:], c.sorted[idx:])
	c.sorted[idx] = v
	c.set[key] = append(c.set[key], v)

	if idx <= c.prefix {
		// only 2 or 3 can land below an established prefix
		c.prefix++
	}
	c.advancePrefix()
	return true, nil
}

// Contains reports whether n is cached.
func (c *Cache) Contains(n *big.Int) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.poisoned != nil {
		return false, c.poisoned
	}
	return c.containsLocked(hashKey(n), n), nil
}

// HasDivisor reports whether some cached prime p <= limit divides num.
func (c *Cache) HasDivisor(num, limit *big.Int) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.poisoned != nil {
		return false, c.poisoned
	}
	return c.hasDivisorLocked(num, limit), nil
}

// LargestKnown returns the greatest cached prime, or false if the cache is
// empty.
func (c *Cache) LargestKnown() (*big.Int, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.poisoned != nil {
		return nil, false, c.poisoned
	}
	if len(c.sorted) == 0 {
		return nil, false, nil
	}
	return new(big.Int).Set(c.sorted[len(c.sorted)-1]), true, nil
}

// ResumePoint returns the largest prime P such that every prime <= P is
// 2, 3 or cached. It is 3 until the cache holds 5.
func (c *Cache) ResumePoint() (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.poisoned != nil {
		return nil, c.poisoned
	}
	return new(big.Int).Set(c.resumeLocked()), nil
}

// Screening is the outcome of one read-locked pass over the cache.
type Screening struct {
	Known     bool     // num itself is cached
	Composite bool     // a cached prime <= limit divides num
	Resume    *big.Int // ResumePoint at the time of the pass
}

// Screen checks num against the cache and captures the resume point in the
// same critical section, so that every prime up to Resume was either
// checked as a divisor or lies above limit.
func (c *Cache) Screen(num, limit *big.Int) (Screening, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.poisoned != nil {
		return Screening{}, c.poisoned
	}
	s := Screening{Resume: new(big.Int).Set(c.resumeLocked())}
	if c.containsLocked(hashKey(num), num) {
		s.Known = true
		return s, nil
	}
	s.Composite = c.hasDivisorLocked(num, limit)
	return s, nil
}

// Snapshot returns a copy of the cached primes in ascending order.
func (c *Cache) Snapshot() ([]*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.poisoned != nil {
		return nil, c.poisoned
	}
	out := make([]*big.Int, len(c.sorted))
	for i, p := range c.sorted {
		out[i] = new(big.Int).Set(p)
	}
	return out, nil
}

// Len returns the number of cached primes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sorted)
}

func (c *Cache) containsLocked(key uint64, n *big.Int) bool {
	for _, v := range c.set[key] {
		if v.Cmp(n) == 0 {
			return true
		}
	}
	return false
}

func (c *Cache) hasDivisorLocked(num, limit *big.Int) bool {
	rem := new(big.Int)
	for _, p := range c.sorted {
		if p.Cmp(limit) > 0 {
			return false
		}
		if rem.Rem(num, p).Sign() == 0 {
			return true
		}
	}
	return false
}

func (c *Cache) resumeLocked() *big.Int {
	if c.prefix < 0 || c.sorted[c.prefix].Cmp(three) < 0 {
		return three
	}
	return c.sorted[c.prefix]
}

// advancePrefix extends the prefix while the gap up to the next cached
// prime provably holds no uncached prime.
func (c *Cache) advancePrefix() {
	for c.prefix+1 < len(c.sorted) {
		lo, hi := c.resumeLocked(), c.sorted[c.prefix+1]
		if hi.Cmp(lo) > 0 && !c.gapIsComposite(lo, hi) {
			return
		}
		c.prefix++
	}
}

// gapIsComposite reports whether every odd m with lo < m < hi has a prime
// factor in the prefix. That only decides the question when lo*lo >= hi,
// since then every composite m < hi has a factor <= lo.
func (c *Cache) gapIsComposite(lo, hi *big.Int) bool {
	gap := new(big.Int).Sub(hi, lo)
	if !gap.IsInt64() || gap.Int64() > maxGapScan {
		return false
	}
	if new(big.Int).Mul(lo, lo).Cmp(hi) < 0 {
		return false
	}

	rem := new(big.Int)
	for m := new(big.Int).Add(lo, two); m.Cmp(hi) < 0; m.Add(m, two) {
		if rem.Rem(m, three).Sign() == 0 {
			continue
		}
		divided := false
		for _, p := range c.sorted[:c.prefix+1] {
			if rem.Rem(m, p).Sign() == 0 {
				divided = true
				break
			}
		}
		if !divided {
			return false
		}
	}
	return true
}
