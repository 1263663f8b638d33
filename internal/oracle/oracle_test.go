package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "sovmint/pkg/domain"
)

type ConverterSuite struct {
	suite.Suite
	source    *StaticSource
	converter *FeedConverter
}

func TestConverterSuite(t *testing.T) {
	suite.Run(t, new(ConverterSuite))
}

func (s *ConverterSuite) SetupTest() {
	s.source = NewStaticSource()
	s.converter = NewFeedConverter(s.source)
}

func (s *ConverterSuite) TestToTarget() {
	ctx := context.Background()

	s.Run("USD is identity", func() {
		got, err := s.converter.ToTarget(ctx, 1_000_000, id.USD, 6)
		s.Require().NoError(err)
		s.Equal(uint64(1_000_000), got)
	})

	s.Run("applies mantissa and scale", func() {
		// 17.25 MXN per settlement unit.
		s.source.SetCurrencyPrice("MXN", Price{Mantissa: 1725, Scale: 2})
		got, err := s.converter.ToTarget(ctx, 1_000_000, "MXN", 6)
		s.Require().NoError(err)
		s.Equal(uint64(17_250_000), got)
	})

	s.Run("missing feed is InvalidPriceFeed", func() {
		_, err := s.converter.ToTarget(ctx, 100, "BRL", 6)
		s.Require().ErrorIs(err, ErrInvalidPriceFeed)
	})

	s.Run("zero price is InvalidPriceFeed", func() {
		s.source.SetCurrencyPrice("ARS", Price{Mantissa: 0, Scale: 2})
		_, err := s.converter.ToTarget(ctx, 100, "ARS", 6)
		s.Require().ErrorIs(err, ErrInvalidPriceFeed)
	})
}

func (s *ConverterSuite) TestToSettlement() {
	ctx := context.Background()
	s.source.SetCurrencyPrice("MXN", Price{Mantissa: 1725, Scale: 2})

	s.Run("inverts the target conversion", func() {
		got, err := s.converter.ToSettlement(ctx, 17_250_000, "MXN", 6)
		s.Require().NoError(err)
		s.Equal(uint64(1_000_000), got)
	})

	s.Run("round trip never inflates", func() {
		for _, amount := range []uint64{1, 999, 123_457, 1_000_003} {
			target, err := s.converter.ToTarget(ctx, amount, "MXN", 6)
			s.Require().NoError(err)
			back, err := s.converter.ToSettlement(ctx, target, "MXN", 6)
			s.Require().NoError(err)
			s.LessOrEqual(back, amount)
		}
	})

	s.Run("USD is identity", func() {
		got, err := s.converter.ToSettlement(ctx, 42, id.USD, 6)
		s.Require().NoError(err)
		s.Equal(uint64(42), got)
	})
}

func (s *ConverterSuite) TestBondEquivalent() {
	ctx := context.Background()

	s.Run("converts via the bond feed", func() {
		// 0.95 bond units per settlement unit.
		s.source.SetBondPrice("USTRY", Price{Mantissa: 95, Scale: 2})
		got, err := s.converter.BondEquivalent(ctx, 100_000, "USTRY", 6)
		s.Require().NoError(err)
		s.Equal(uint64(95_000), got)
	})

	s.Run("missing bond feed is InvalidPriceFeed", func() {
		_, err := s.converter.BondEquivalent(ctx, 100, "CETES", 6)
		s.Require().ErrorIs(err, ErrInvalidPriceFeed)
	})
}
