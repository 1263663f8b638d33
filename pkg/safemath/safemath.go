// Package safemath provides checked arithmetic over the unsigned 64-bit
// integers used for monetary amounts. Every operation that could wrap,
// truncate, or divide by zero returns a typed error instead; no monetary
// computation in this codebase may use raw operators.
package safemath

import (
	"errors"
	"math/bits"
)

// Sentinel arithmetic errors. Callers wrap these with domain context.
var (
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrUnderflow    = errors.New("arithmetic underflow")
	ErrDivideByZero = errors.New("division by zero")
)

// Add returns a + b, or ErrOverflow if the sum does not fit in uint64.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a - b, or ErrUnderflow if b > a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// Mul returns a * b, or ErrOverflow if the product does not fit in uint64.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// Div returns a / b (truncating), or ErrDivideByZero.
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

// Shl returns a << n, or ErrOverflow if any set bit is shifted out.
func Shl(a uint64, n uint) (uint64, error) {
	if n >= 64 {
		if a != 0 {
			return 0, ErrOverflow
		}
		return 0, nil
	}
	if a>>(64-n) != 0 && n != 0 {
		return 0, ErrOverflow
	}
	return a << n, nil
}

// MulDiv returns floor(a * b / d) with a full 128-bit intermediate, so the
// product may exceed 64 bits as long as the quotient fits.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}

// MulDivCeil returns ceil(a * b / d) with a full 128-bit intermediate.
func MulDivCeil(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, ErrOverflow
	}
	q, r := bits.Div64(hi, lo, d)
	if r == 0 {
		return q, nil
	}
	return Add(q, 1)
}

// Min returns the smaller of a and b.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
