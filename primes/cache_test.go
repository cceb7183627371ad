package primes_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/on-the-ground/factor_ive_go/primes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(t *testing.T, vals []*big.Int) []int64 {
	t.Helper()
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = v.Int64()
	}
	return out
}

func snapshot(t *testing.T, c *primes.Cache) []int64 {
	t.Helper()
	snap, err := c.Snapshot()
	require.NoError(t, err)
	return ints(t, snap)
}

func TestCache_RecordKeepsAscendingOrder(t *testing.T) {
	c := primes.NewCache()
	for _, p := range []int64{13, 5, 11, 7, 29} {
		inserted, err := c.Record(big.NewInt(p))
		require.NoError(t, err)
		assert.True(t, inserted)
	}
	assert.Equal(t, []int64{5, 7, 11, 13, 29}, snapshot(t, c))
}

func TestCache_RecordIsIdempotent(t *testing.T) {
	c := primes.NewCache()

	inserted, err := c.Record(big.NewInt(97))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = c.Record(big.NewInt(97))
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.Equal(t, 1, c.Len())
}

func TestCache_RecordCopiesItsArgument(t *testing.T) {
	c := primes.NewCache()
	p := big.NewInt(31)
	_, err := c.Record(p)
	require.NoError(t, err)

	p.SetInt64(4)
	assert.Equal(t, []int64{31}, snapshot(t, c))
}

func TestCache_ConcurrentDuplicateRecords(t *testing.T) {
	c := primes.NewCache()
	vals := []int64{101, 103, 107, 109, 113}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, v := range vals {
				_, err := c.Record(big.NewInt(v))
				assert.NoError(t, err)
				_, err = c.HasDivisor(big.NewInt(v*v), big.NewInt(v))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, vals, snapshot(t, c))
}

func TestCache_Contains(t *testing.T) {
	c := primes.NewCache()
	_, err := c.Record(big.NewInt(17))
	require.NoError(t, err)

	ok, err := c.Contains(big.NewInt(17))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Contains(big.NewInt(19))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_HasDivisorHonorsLimit(t *testing.T) {
	c := primes.NewCache()
	for _, p := range []int64{5, 7, 11} {
		_, err := c.Record(big.NewInt(p))
		require.NoError(t, err)
	}

	tests := []struct {
		num, limit int64
		want       bool
	}{
		{77, 10, true},   // 7 divides
		{121, 10, false}, // 11 divides but lies above the limit
		{121, 12, true},
		{13 * 17, 15, false},
	}
	for _, tt := range tests {
		got, err := c.HasDivisor(big.NewInt(tt.num), big.NewInt(tt.limit))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "num=%d limit=%d", tt.num, tt.limit)
	}
}

func TestCache_LargestKnown(t *testing.T) {
	c := primes.NewCache()
	_, ok, err := c.LargestKnown()
	require.NoError(t, err)
	assert.False(t, ok)

	for _, p := range []int64{53, 5, 41} {
		_, err := c.Record(big.NewInt(p))
		require.NoError(t, err)
	}
	largest, ok, err := c.LargestKnown()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(53), largest.Int64())
}

func TestCache_ResumePointTracksContiguousPrefix(t *testing.T) {
	c := primes.NewCache()
	resume := func() int64 {
		r, err := c.ResumePoint()
		require.NoError(t, err)
		return r.Int64()
	}

	assert.Equal(t, int64(3), resume())

	_, _ = c.Record(big.NewInt(7))
	assert.Equal(t, int64(3), resume(), "5 is missing")

	_, _ = c.Record(big.NewInt(5))
	assert.Equal(t, int64(7), resume())

	_, _ = c.Record(big.NewInt(13))
	assert.Equal(t, int64(7), resume(), "11 is missing")

	_, _ = c.Record(big.NewInt(11))
	assert.Equal(t, int64(13), resume())

	// 3 is implicit; recording it must not move the prefix backwards.
	_, _ = c.Record(big.NewInt(3))
	assert.Equal(t, int64(13), resume())
}

func TestCache_ScreenIsConsistent(t *testing.T) {
	c := primes.NewCache()
	for _, p := range []int64{5, 7} {
		_, err := c.Record(big.NewInt(p))
		require.NoError(t, err)
	}

	s, err := c.Screen(big.NewInt(7), big.NewInt(3))
	require.NoError(t, err)
	assert.True(t, s.Known)

	s, err = c.Screen(big.NewInt(35), big.NewInt(6))
	require.NoError(t, err)
	assert.True(t, s.Composite)
	assert.Equal(t, int64(7), s.Resume.Int64())
}

func TestCache_PanicDuringRecordPoisonsTheCache(t *testing.T) {
	c := primes.NewCache()
	_, err := c.Record(big.NewInt(5))
	require.NoError(t, err)

	_, err = c.Record(nil)
	require.ErrorIs(t, err, primes.ErrCacheCorrupted)

	_, err = c.Record(big.NewInt(7))
	assert.ErrorIs(t, err, primes.ErrCacheCorrupted)
	_, err = c.Contains(big.NewInt(5))
	assert.ErrorIs(t, err, primes.ErrCacheCorrupted)
	_, err = c.HasDivisor(big.NewInt(25), big.NewInt(6))
	assert.ErrorIs(t, err, primes.ErrCacheCorrupted)
	_, _, err = c.LargestKnown()
	assert.ErrorIs(t, err, primes.ErrCacheCorrupted)
	_, err = c.Snapshot()
	assert.ErrorIs(t, err, primes.ErrCacheCorrupted)
}
