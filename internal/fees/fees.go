// Package fees implements basis-point protocol fee extraction and its
// gross-up inverse. All arithmetic is checked; fee rates above 100% are
// rejected before any computation.
package fees

import (
	dErrors "sovmint/pkg/domain-errors"
	id "sovmint/pkg/domain"
	"sovmint/pkg/safemath"
)

// ErrInvalidFeeBasisPoints rejects fee rates above 100%.
var ErrInvalidFeeBasisPoints = dErrors.New(dErrors.CodeInvalidInput, "fee basis points exceed 100%")

// ExtractFee splits amount into (net, fee) where fee = floor(amount * feeBps
// / 10000). net + fee == amount always holds.
func ExtractFee(amount uint64, feeBps id.Bips) (net, fee uint64, err error) {
	if feeBps > id.MaxBips {
		return 0, 0, ErrInvalidFeeBasisPoints
	}
	if feeBps == 0 {
		return amount, 0, nil
	}

	fee, err = safemath.MulDiv(amount, feeBps.Uint64(), id.MaxBips.Uint64())
	if err != nil {
		return 0, 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "fee computation", err)
	}
	net, err = safemath.Sub(amount, fee)
	if err != nil {
		return 0, 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "net computation", err)
	}
	return net, fee, nil
}

// GrossUp returns the smallest gross amount whose fee extraction yields at
// least net: gross = ceil(net * 10000 / (10000 - feeBps)). It never
// under-covers the target. A 100% fee has no finite gross, so it is
// rejected.
func GrossUp(net uint64, feeBps id.Bips) (uint64, error) {
	if feeBps >= id.MaxBips {
		return 0, ErrInvalidFeeBasisPoints
	}
	if feeBps == 0 {
		return net, nil
	}

	den := id.MaxBips.Uint64() - feeBps.Uint64()
	gross, err := safemath.MulDivCeil(net, id.MaxBips.Uint64(), den)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "gross-up computation", err)
	}
	return gross, nil
}
