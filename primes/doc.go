// Package primes provides a trial-division primality test backed by a
// memo of already proven primes.
//
// The memo, Cache, is meant to live for exactly one factorization call and
// to be shared by every worker of that call. Each proven prime makes later
// tests cheaper in two ways:
//
//   - a candidate with a small cached factor is rejected by a read-locked
//     scan of the cache instead of a full trial division,
//   - once the cache holds every prime below some bound, trial division
//     starts past that bound.
//
// Access follows a multiple-reader / single-writer discipline. Locks are
// held around lookups and inserts only, never across trial division.
//
// Example:
//
//	cache := primes.NewCache()
//	ok, err := primes.IsPrime(ctx, big.NewInt(97), cache)
package primes
