package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequesterID(t *testing.T) {
	t.Run("round-trips a valid uuid", func(t *testing.T) {
		raw := uuid.New().String()
		id, err := ParseRequesterID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
		assert.False(t, id.IsNil())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParseRequesterID("not-a-uuid")
		assert.Error(t, err)
	})

	t.Run("zero value reports nil", func(t *testing.T) {
		assert.True(t, RequesterID{}.IsNil())
	})
}

func TestParseCoinSymbol(t *testing.T) {
	t.Run("normalizes to upper case", func(t *testing.T) {
		sym, err := ParseCoinSymbol(" mxns ")
		require.NoError(t, err)
		assert.Equal(t, CoinSymbol("MXNS"), sym)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseCoinSymbol("   ")
		assert.Error(t, err)
	})

	t.Run("rejects oversized", func(t *testing.T) {
		_, err := ParseCoinSymbol(strings.Repeat("A", MaxSymbolLen+1))
		assert.Error(t, err)
	})
}

func TestParseCurrencyCode(t *testing.T) {
	code, err := ParseCurrencyCode("mxn")
	require.NoError(t, err)
	assert.Equal(t, CurrencyCode("MXN"), code)

	_, err = ParseCurrencyCode(strings.Repeat("X", MaxCurrencyLen+1))
	assert.Error(t, err)
}

func TestParseBondRating(t *testing.T) {
	for v := uint8(1); v <= 10; v++ {
		r, err := ParseBondRating(v)
		require.NoError(t, err)
		assert.Equal(t, uint64(v), r.Ordinal())
	}

	_, err := ParseBondRating(0)
	assert.Error(t, err)
	_, err = ParseBondRating(11)
	assert.Error(t, err)
}

func TestParseBips(t *testing.T) {
	b, err := ParseBips(10_000)
	require.NoError(t, err)
	assert.Equal(t, MaxBips, b)

	_, err = ParseBips(10_001)
	assert.Error(t, err)
}
