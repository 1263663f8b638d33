// Package decimal implements scaled-integer fixed-point values for the
// percentage and price math that must not accumulate floating-point drift.
// A Decimal represents value * 10^-scale; combining values of different
// scales aligns the lower-scale operand up before the operation.
package decimal

import (
	"errors"
	"fmt"
	"math/big"
)

// DivPrecision is the number of extra decimal digits carried through
// division, bounding the relative error at ~1e-6.
const DivPrecision = 6

var (
	ErrDivideByZero = errors.New("decimal: division by zero")
	ErrNegative     = errors.New("decimal: negative result")
	ErrOverflow     = errors.New("decimal: value exceeds uint64")
)

// Decimal is an immutable fixed-point value.
type Decimal struct {
	value *big.Int
	scale uint32
}

// New returns a Decimal holding the integer v at scale 0.
func New(v uint64) Decimal {
	return Decimal{value: new(big.Int).SetUint64(v), scale: 0}
}

// NewScaled returns a Decimal representing v * 10^-scale.
func NewScaled(v uint64, scale uint32) Decimal {
	return Decimal{value: new(big.Int).SetUint64(v), scale: scale}
}

func pow10(n uint32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// align brings both operands to the larger of the two scales.
func align(a, b Decimal) (*big.Int, *big.Int, uint32) {
	if a.scale == b.scale {
		return a.value, b.value, a.scale
	}
	if a.scale < b.scale {
		av := new(big.Int).Mul(a.value, pow10(b.scale-a.scale))
		return av, b.value, b.scale
	}
	bv := new(big.Int).Mul(b.value, pow10(a.scale-b.scale))
	return a.value, bv, a.scale
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) Decimal {
	av, bv, scale := align(d, o)
	return Decimal{value: new(big.Int).Add(av, bv), scale: scale}
}

// Sub returns d - o, or ErrNegative if the result would drop below zero.
func (d Decimal) Sub(o Decimal) (Decimal, error) {
	av, bv, scale := align(d, o)
	out := new(big.Int).Sub(av, bv)
	if out.Sign() < 0 {
		return Decimal{}, ErrNegative
	}
	return Decimal{value: out, scale: scale}, nil
}

// Mul returns d * o; the scales sum, preserving full precision.
func (d Decimal) Mul(o Decimal) Decimal {
	return Decimal{
		value: new(big.Int).Mul(d.value, o.value),
		scale: d.scale + o.scale,
	}
}

// Div returns d / o carrying DivPrecision extra digits through the integer
// division. Division by a zero-valued operand is ErrDivideByZero.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.value.Sign() == 0 {
		return Decimal{}, ErrDivideByZero
	}
	num := new(big.Int).Mul(d.value, pow10(o.scale+DivPrecision))
	return Decimal{
		value: num.Quo(num, o.value),
		scale: d.scale + DivPrecision,
	}, nil
}

// ToUint64 divides out the scale (truncating) and errors if the result does
// not fit the target width.
func (d Decimal) ToUint64() (uint64, error) {
	out := new(big.Int).Quo(d.value, pow10(d.scale))
	if !out.IsUint64() {
		return 0, ErrOverflow
	}
	return out.Uint64(), nil
}

// IsZero reports whether the value is exactly zero.
func (d Decimal) IsZero() bool {
	return d.value == nil || d.value.Sign() == 0
}

// String renders the value for logs and test failures.
func (d Decimal) String() string {
	if d.value == nil {
		return "0"
	}
	return fmt.Sprintf("%se-%d", d.value.String(), d.scale)
}
