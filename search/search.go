// Package search scans a range of big integers chunk by chunk.
//
// Chunks are visited strictly in ascending order, one at a time. The
// elements of a chunk are evaluated in parallel on a bounded worker pool,
// so within a chunk there is no ordering. A hit in some chunk ends the scan
// before the next chunk starts, which makes the chunk the unit of
// short-circuit across the whole range.
package search

import (
	"context"
	"math/big"

	"github.com/on-the-ground/factor_ive_go/internal/pool"
	"go.uber.org/zap"
)

// Config tunes a scan.
type Config struct {
	ChunkSize  int         // elements per chunk; default 1
	NumWorkers int         // workers per chunk; default GOMAXPROCS
	Logger     *zap.Logger // default: no-op

	// OnChunk, if set, runs on the calling goroutine after every chunk that
	// was scanned completely without a hit.
	OnChunk func(Chunk)
}

func (c Config) pool() pool.Config {
	return pool.NewConfig(c.NumWorkers, c.Logger)
}

// FindAny evaluates fn over r and returns a value accepted by fn from the
// first chunk that holds at least one accepted element. Which accepted
// element of that chunk wins is not specified.
//
// fn receives an element it owns and may keep.
func FindAny[T any](
	ctx context.Context,
	r Range,
	cfg Config,
	fn func(ctx context.Context, elem *big.Int) (T, bool, error),
) (res T, found bool, err error) {
	pc := cfg.pool()
	logger := pc.Logger

	chunks := r.Chunks(cfg.ChunkSize)
	if ce := logger.Check(zap.DebugLevel, "search started"); ce != nil {
		ce.Write(
			zap.Stringer("start", r.Start()),
			zap.Stringer("end", r.End()),
			zap.Stringer("total", chunks.Total()),
		)
	}
	for {
		chunk, ok := chunks.Next()
		if !ok {
			return res, false, nil
		}
		if err = ctx.Err(); err != nil {
			return res, false, err
		}

		if ce := logger.Check(zap.DebugLevel, "scanning chunk"); ce != nil {
			ce.Write(
				zap.Int("seq", chunk.Seq),
				zap.Stringer("first", chunk.First()),
				zap.Int("len", chunk.Len()),
			)
		}

		res, found, err = pool.FindAny(ctx, pc, chunk.Len(),
			func(ctx context.Context, i int) (T, bool, error) {
				return fn(ctx, chunk.At(i, new(big.Int)))
			},
		)
		if err != nil || found {
			return res, found, err
		}

		if cfg.OnChunk != nil {
			cfg.OnChunk(chunk)
		}
	}
}

// Any reports whether pred holds for some element of r, stopping after the
// first chunk that contains a match.
func Any(
	ctx context.Context,
	r Range,
	cfg Config,
	pred func(ctx context.Context, elem *big.Int) (bool, error),
) (bool, error) {
	_, found, err := FindAny(ctx, r, cfg, func(ctx context.Context, elem *big.Int) (struct{}, bool, error) {
		ok, err := pred(ctx, elem)
		return struct{}{}, ok, err
	})
	return found, err
}
