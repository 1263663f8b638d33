package domain

import "fmt"

// Bips is a fee or ratio expressed in basis points; 10000 bips = 100%.
type Bips uint16

// MaxBips is 100% in basis points.
const MaxBips Bips = 10_000

// ParseBips validates a basis-point value against the 100% cap.
func ParseBips(v uint16) (Bips, error) {
	b := Bips(v)
	if b > MaxBips {
		return 0, fmt.Errorf("basis points %d exceed %d", v, MaxBips)
	}
	return b, nil
}

// Uint64 widens the value for checked arithmetic.
func (b Bips) Uint64() uint64 { return uint64(b) }

func (b Bips) String() string { return fmt.Sprintf("%dbps", uint16(b)) }
