package primes

import (
	"context"
	"math/big"

	"github.com/on-the-ground/factor_ive_go/search"
	"go.uber.org/zap"
)

// DefaultTrialChunkSize is the number of odd divisors tested per chunk.
const DefaultTrialChunkSize = 128 * 1024

var five = big.NewInt(5)

// Config tunes a Tester.
type Config struct {
	ChunkSize  int         // default: DefaultTrialChunkSize
	NumWorkers int         // default: GOMAXPROCS
	Logger     *zap.Logger // default: no-op
}

// NewConfig normalizes non-positive sizes and a nil logger to defaults.
func NewConfig(chunkSize, numWorkers int, logger *zap.Logger) Config {
	if chunkSize <= 0 {
		chunkSize = DefaultTrialChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Config{
		ChunkSize:  chunkSize,
		NumWorkers: numWorkers,
		Logger:     logger,
	}
}

// Tester decides primality by trial division, consulting and growing a
// shared Cache. A Tester is safe for concurrent use.
type Tester struct {
	cache *Cache
	cfg   Config
}

// NewTester returns a Tester over cache. A nil cache gets a private one.
func NewTester(cache *Cache, cfg Config) *Tester {
	if cache == nil {
		cache = NewCache()
	}
	return &Tester{
		cache: cache,
		cfg:   NewConfig(cfg.ChunkSize, cfg.NumWorkers, cfg.Logger),
	}
}

// Cache returns the cache the tester reads and grows.
func (t *Tester) Cache() *Cache {
	return t.cache
}

// IsPrime is shorthand for NewTester(cache, Config{}).IsPrime(ctx, num).
func IsPrime(ctx context.Context, num *big.Int, cache *Cache) (bool, error) {
	return NewTester(cache, Config{}).IsPrime(ctx, num)
}

// IsPrime reports whether num is prime.
//
// Numbers below 2 are not prime; 2 and 3 are, without touching the cache.
// Other multiples of 2 or 3 are rejected without touching the cache either.
// Everything else is screened against the cached primes up to
// floor(sqrt(num))+1, then trial-divided by the odd integers from the
// cache's resume point up to that limit. A num that survives is recorded.
func (t *Tester) IsPrime(ctx context.Context, num *big.Int) (bool, error) {
	if num.Cmp(two) < 0 {
		return false, nil
	}
	if num.Cmp(two) == 0 || num.Cmp(three) == 0 {
		return true, nil
	}

	rem := new(big.Int)
	if rem.Rem(num, two).Sign() == 0 || rem.Rem(num, three).Sign() == 0 {
		return false, nil
	}

	limit := new(big.Int).Sqrt(num)
	limit.Add(limit, big.NewInt(1))

	screening, err := t.cache.Screen(num, limit)
	if err != nil {
		return false, err
	}
	if screening.Known {
		return true, nil
	}
	if screening.Composite {
		return false, nil
	}

	start := screening.Resume.Add(screening.Resume, two)
	if start.Cmp(five) < 0 {
		start.Set(five)
	}

	hit, err := search.Any(ctx,
		search.NewRange(start, limit, 2),
		search.Config{
			ChunkSize:  t.cfg.ChunkSize,
			NumWorkers: t.cfg.NumWorkers,
			Logger:     t.cfg.Logger,
		},
		func(_ context.Context, d *big.Int) (bool, error) {
			return new(big.Int).Rem(num, d).Sign() == 0, nil
		},
	)
	if err != nil || hit {
		return false, err
	}

	inserted, err := t.cache.Record(num)
	if err != nil {
		return false, err
	}
	if inserted {
		if ce := t.cfg.Logger.Check(zap.DebugLevel, "recorded prime"); ce != nil {
			ce.Write(zap.Stringer("prime", num), zap.Int("cached", t.cache.Len()))
		}
	}
	return true, nil
}
