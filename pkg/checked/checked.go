// Package checked provides overflow-checked arithmetic on uint64.
//
// Every amount the ledger touches (ticket prices, proceeds, reward
// quantities) is a uint64, and a wrapped result would corrupt balances
// silently. These helpers return ok=false instead of wrapping; callers
// treat that as a fatal calculation error for the operation.
package checked

import "math/bits"

// Add returns a+b and reports whether the sum fits in a uint64.
func Add(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// Sub returns a-b and reports whether the difference is non-negative.
func Sub(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}

// Mul returns a*b and reports whether the product fits in a uint64.
func Mul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}
