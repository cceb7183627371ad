// Package factor splits a positive integer into two primes.
//
// The engine is bounded trial division up to the square root of N, aimed
// at semiprimes. The candidate divisors are scanned in ascending chunks;
// every candidate of a chunk is tested in parallel, and a candidate d is
// accepted when it divides N and both d and N/d pass the primality test of
// package primes. The first chunk holding an accepted candidate ends the
// search.
//
// Results are deterministic in outcome, not in execution: a semiprime
// p * q with p <= q always yields Result{p, q}, while the order in which
// workers touch the shared prime cache varies from run to run.
//
// This is deliberately not a general factorization algorithm. There is no
// Pollard's rho and no sieve, and inputs with more than two prime factors
// have no guaranteed outcome.
//
// Example:
//
//	n, err := factor.ParseDecimal("124705700219")
//	if err != nil {
//	    return err
//	}
//	res, err := factor.Factorize(ctx, n)
//	if err != nil {
//	    return err
//	}
//	if res == nil {
//	    fmt.Println("no two-prime split")
//	}
package factor
