package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	t.Run("sums within range", func(t *testing.T) {
		got, err := Add(2, 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), got)
	})

	t.Run("overflow is rejected", func(t *testing.T) {
		_, err := Add(math.MaxUint64, 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("max value plus zero is fine", func(t *testing.T) {
		got, err := Add(math.MaxUint64, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), got)
	})
}

func TestSub(t *testing.T) {
	t.Run("subtracts within range", func(t *testing.T) {
		got, err := Sub(5, 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), got)
	})

	t.Run("underflow is rejected", func(t *testing.T) {
		_, err := Sub(3, 5)
		assert.ErrorIs(t, err, ErrUnderflow)
	})

	t.Run("zero minus zero", func(t *testing.T) {
		got, err := Sub(0, 0)
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestMul(t *testing.T) {
	t.Run("multiplies within range", func(t *testing.T) {
		got, err := Mul(1_000_000, 1_000_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000_000_000), got)
	})

	t.Run("overflow is rejected", func(t *testing.T) {
		_, err := Mul(math.MaxUint64, 2)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("multiply by zero", func(t *testing.T) {
		got, err := Mul(math.MaxUint64, 0)
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestDiv(t *testing.T) {
	t.Run("truncating division", func(t *testing.T) {
		got, err := Div(7, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), got)
	})

	t.Run("division by zero is rejected", func(t *testing.T) {
		_, err := Div(7, 0)
		assert.ErrorIs(t, err, ErrDivideByZero)
	})
}

func TestShl(t *testing.T) {
	t.Run("shift within range", func(t *testing.T) {
		got, err := Shl(1, 63)
		require.NoError(t, err)
		assert.Equal(t, uint64(1)<<63, got)
	})

	t.Run("shifted-out bits are rejected", func(t *testing.T) {
		_, err := Shl(2, 63)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("zero survives any shift", func(t *testing.T) {
		got, err := Shl(0, 200)
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestMulDiv(t *testing.T) {
	t.Run("intermediate wider than 64 bits", func(t *testing.T) {
		// (2^63) * 4 / 8 = 2^61; the product alone overflows uint64.
		got, err := MulDiv(1<<63, 4, 8)
		require.NoError(t, err)
		assert.Equal(t, uint64(1)<<61, got)
	})

	t.Run("truncates toward zero", func(t *testing.T) {
		got, err := MulDiv(995_000, 3000, 10_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(298_500), got)
	})

	t.Run("quotient overflow is rejected", func(t *testing.T) {
		_, err := MulDiv(math.MaxUint64, math.MaxUint64, 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("zero divisor is rejected", func(t *testing.T) {
		_, err := MulDiv(1, 1, 0)
		assert.ErrorIs(t, err, ErrDivideByZero)
	})
}

func TestMulDivCeil(t *testing.T) {
	t.Run("rounds up on remainder", func(t *testing.T) {
		got, err := MulDivCeil(7, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), got)
	})

	t.Run("exact quotient is not bumped", func(t *testing.T) {
		got, err := MulDivCeil(8, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), got)
	})
}

func TestMin(t *testing.T) {
	assert.Equal(t, uint64(3), Min(3, 5))
	assert.Equal(t, uint64(3), Min(5, 3))
	assert.Equal(t, uint64(5), Min(5, 5))
}
