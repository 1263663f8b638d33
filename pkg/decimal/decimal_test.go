package decimal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAlignsScales(t *testing.T) {
	// 1.5 + 0.25 = 1.75
	a := NewScaled(15, 1)
	b := NewScaled(25, 2)

	sum := a.Add(b)
	// 1.75 truncates to 1 when converted out.
	got, err := sum.ToUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)

	// Scaling the sum by 100 recovers the exact fraction.
	got, err = sum.Mul(New(100)).ToUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(175), got)
}

func TestSub(t *testing.T) {
	t.Run("subtracts across scales", func(t *testing.T) {
		a := New(3)
		b := NewScaled(5, 1) // 0.5

		diff, err := a.Sub(b)
		require.NoError(t, err)

		got, err := diff.Mul(New(10)).ToUint64()
		require.NoError(t, err)
		assert.Equal(t, uint64(25), got)
	})

	t.Run("negative result is rejected", func(t *testing.T) {
		_, err := New(1).Sub(New(2))
		assert.ErrorIs(t, err, ErrNegative)
	})
}

func TestMulSumsScales(t *testing.T) {
	// 0.3 * 0.02 = 0.006
	a := NewScaled(3, 1)
	b := NewScaled(2, 2)

	got, err := a.Mul(b).Mul(New(1000)).ToUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), got)
}

func TestDiv(t *testing.T) {
	t.Run("carries extra precision", func(t *testing.T) {
		// 1 / 3 = 0.333333 at 6 digits.
		q, err := New(1).Div(New(3))
		require.NoError(t, err)

		got, err := q.Mul(New(1_000_000)).ToUint64()
		require.NoError(t, err)
		assert.Equal(t, uint64(333_333), got)
	})

	t.Run("division by zero is a typed error", func(t *testing.T) {
		_, err := New(1).Div(New(0))
		assert.ErrorIs(t, err, ErrDivideByZero)
	})

	t.Run("ratio applied to an ordinal", func(t *testing.T) {
		// (rating-1) * (num/den) with num=50, den=4, ordinal factor 9:
		// 9 * 12.5 = 112.5, truncated to 112.
		ratio, err := New(50).Div(New(4))
		require.NoError(t, err)

		got, err := New(9).Mul(ratio).ToUint64()
		require.NoError(t, err)
		assert.Equal(t, uint64(112), got)
	})
}

func TestToUint64(t *testing.T) {
	t.Run("overflow is rejected", func(t *testing.T) {
		big := New(math.MaxUint64)
		_, err := big.Mul(New(2)).ToUint64()
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("max value round-trips", func(t *testing.T) {
		got, err := New(math.MaxUint64).ToUint64()
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), got)
	})
}

func TestZeroValue(t *testing.T) {
	var d Decimal
	assert.True(t, d.IsZero())
	assert.Equal(t, "0", d.String())
}
