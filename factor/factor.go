package factor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/factor_ive_go/primes"
	"github.com/on-the-ground/factor_ive_go/progress"
	"github.com/on-the-ground/factor_ive_go/search"
	"go.uber.org/zap"
)

var (
	// ErrNonPositive is returned for a nil, zero or negative input.
	ErrNonPositive = errors.New("factor: input must be positive")

	// ErrMalformedInput is returned by ParseDecimal.
	ErrMalformedInput = errors.New("factor: malformed decimal input")
)

// Result is a split of N into two primes with Divisor <= Cofactor.
type Result struct {
	Divisor  *big.Int
	Cofactor *big.Int
}

// Product returns Divisor * Cofactor.
func (r Result) Product() *big.Int {
	return new(big.Int).Mul(r.Divisor, r.Cofactor)
}

func (r Result) String() string {
	return r.Divisor.String() + " * " + r.Cofactor.String()
}

// ParseDecimal parses a base-10 integer, surrounding spaces allowed.
func ParseDecimal(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedInput, s)
	}
	return n, nil
}

// Factorize splits n into two primes by parallel trial division over the
// candidate divisors [2, floor(sqrt(n))].
//
// It returns nil, nil when n is not a product of exactly two primes: for 1,
// for a prime, and for n with three or more prime factors counted with
// multiplicity. In the last case every prime d <= sqrt(n) leaves a composite
// cofactor n/d, so no candidate is accepted.
//
// Each call owns a fresh prime cache shared by all of its workers.
func Factorize(ctx context.Context, n *big.Int, opts ...Option) (*Result, error) {
	s := newSettings(opts)
	return run(ctx, n, s, s.cfg.ChunkSize, nil)
}

// FactorizeWithProgress is Factorize with a progress side channel:
// reporter is called once per whole percent of the search range scanned,
// in order, from the calling goroutine. The search uses smaller chunks so
// that notifications stay frequent. A nil reporter is allowed.
func FactorizeWithProgress(
	ctx context.Context,
	n *big.Int,
	reporter progress.Reporter,
	opts ...Option,
) (*Result, error) {
	s := newSettings(opts)
	return run(ctx, n, s, s.cfg.ProgressChunkSize, reporter)
}

func run(
	ctx context.Context,
	n *big.Int,
	s settings,
	chunkSize int,
	reporter progress.Reporter,
) (*Result, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, ErrNonPositive
	}
	n = new(big.Int).Set(n)

	logger := s.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.Stringer("n", n),
	)
	started := time.Now()

	tester := primes.NewTester(primes.NewCache(), primes.Config{
		ChunkSize:  s.cfg.TrialChunkSize,
		NumWorkers: s.cfg.Workers,
		Logger:     logger,
	})

	limit := new(big.Int).Sqrt(n)
	divisors := search.NewRange(big.NewInt(2), limit, 1)
	logger.Debug("factorization started",
		zap.Stringer("first_divisor", divisors.Start()),
		zap.Stringer("limit", divisors.End()),
		zap.Int("chunk_size", chunkSize),
	)

	cfg := search.Config{
		ChunkSize:  chunkSize,
		NumWorkers: s.cfg.Workers,
		Logger:     logger,
	}
	var tracker *progress.Tracker
	if reporter != nil {
		tracker = progress.NewTracker(divisors.Len(), started, reporter)
		cfg.OnChunk = func(c search.Chunk) {
			tracker.Advance(c.Consumed())
		}
	}

	res, found, err := search.FindAny(ctx, divisors, cfg,
		func(ctx context.Context, d *big.Int) (Result, bool, error) {
			q, m := new(big.Int).QuoRem(n, d, new(big.Int))
			if m.Sign() != 0 {
				return Result{}, false, nil
			}
			if ok, err := tester.IsPrime(ctx, d); err != nil || !ok {
				return Result{}, false, err
			}
			if ok, err := tester.IsPrime(ctx, q); err != nil || !ok {
				return Result{}, false, err
			}
			return Result{Divisor: d, Cofactor: q}, true, nil
		},
	)
	if err != nil {
		logger.Error("factorization failed", zap.Error(err))
		return nil, fmt.Errorf("factorize %s: %w", n, err)
	}

	fields := []zap.Field{
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("cached_primes", tester.Cache().Len()),
	}
	if tracker != nil {
		fields = append(fields, zap.Int("progress_percent", tracker.Emitted()))
	}
	if !found {
		logger.Debug("no two-prime split found", fields...)
		return nil, nil
	}
	logger.Debug("factorization finished", append(fields, zap.Stringer("result", res))...)
	return &res, nil
}
