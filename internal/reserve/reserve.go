// Package reserve derives the required liquid-reserve percentage for a coin
// and splits net mint proceeds across the liquid and bond tiers. The ratio
// ramp is evaluated in fixed point so intermediate rounding cannot shift the
// final basis-point value.
package reserve

import (
	"sovmint/pkg/decimal"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/safemath"
)

var (
	ErrInvalidReservePercentage = dErrors.New(dErrors.CodeInvalidInput, "reserve percentage exceeds 100%")
	ErrInvalidBondRating        = dErrors.New(dErrors.CodeInvalidInput, "bond rating outside [1,10]")
	ErrInvalidBondReserveRatio  = dErrors.New(dErrors.CodeInvalidInput, "bond reserve ratio denominator must be positive")
	ErrReserveExceeds100Percent = dErrors.New(dErrors.CodeInvariantViolation, "required reserve exceeds 100%")

	// ErrInvalidCalculatedAmount rejects splits where either tier would be
	// zero; a degenerate all-or-nothing allocation violates the reserve
	// invariant.
	ErrInvalidCalculatedAmount = dErrors.New(dErrors.CodeInvariantViolation, "calculated reserve split has a zero component")
)

// RequiredBps computes base + (rating-1) * (numerator/denominator) in basis
// points. Lower credit ratings carry a higher ordinal and therefore a larger
// liquid buffer. The ramp is configured once per factory and applied
// identically to every coin sharing a rating.
func RequiredBps(baseBps id.Bips, rating id.BondRating, numerator, denominator uint8) (id.Bips, error) {
	if baseBps > id.MaxBips {
		return 0, ErrInvalidReservePercentage
	}
	if rating < id.MinBondRating || rating > id.MaxBondRating {
		return 0, ErrInvalidBondRating
	}
	if denominator == 0 {
		return 0, ErrInvalidBondReserveRatio
	}

	base := decimal.New(baseBps.Uint64())
	ordinalFactor := decimal.New(rating.Ordinal() - 1)

	ratio, err := decimal.New(uint64(numerator)).Div(decimal.New(uint64(denominator)))
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "reserve ratio", err)
	}
	adjustment := ordinalFactor.Mul(ratio)

	totalBps, err := base.Add(adjustment).ToUint64()
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "reserve percentage", err)
	}
	if totalBps > id.MaxBips.Uint64() {
		return 0, ErrReserveExceeds100Percent
	}
	return id.Bips(totalBps), nil
}

// Split divides a net amount into (reserve, bond) portions:
// reserve = floor(net * requiredBps / 10000), bond = net - reserve.
// Both components must be strictly positive.
func Split(netAmount uint64, requiredBps id.Bips) (reserveAmount, bondAmount uint64, err error) {
	if requiredBps > id.MaxBips {
		return 0, 0, ErrInvalidReservePercentage
	}

	reserveAmount, err = safemath.MulDiv(netAmount, requiredBps.Uint64(), id.MaxBips.Uint64())
	if err != nil {
		return 0, 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "reserve amount", err)
	}
	bondAmount, err = safemath.Sub(netAmount, reserveAmount)
	if err != nil {
		return 0, 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "bond amount", err)
	}

	if reserveAmount == 0 || bondAmount == 0 {
		return 0, 0, ErrInvalidCalculatedAmount
	}
	return reserveAmount, bondAmount, nil
}
