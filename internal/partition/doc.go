// Package partition computes the size-balanced, letter-boundary-respecting
// assignment of an alphabetically sorted channel list to the configured
// categories.
//
// A category boundary is only legal where the uppercase first letter of
// adjacent channel names changes, so every starting letter lives entirely
// inside one category. Among all legal boundary choices the package picks
// the one minimizing the sum of squared segment lengths, by bounded brute
// enumeration: with at most 26 letter boundaries and a handful of
// categories the search space is tiny, and a hard ceiling rejects inputs
// where it would not be. A dynamic-programming minimization over prefix
// sums would give the same result for larger inputs but has not been
// needed.
package partition
