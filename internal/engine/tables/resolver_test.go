package tables_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/random"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

const forestSource = `Wald (Stufe 1-4)
01-04 Ein Rudel Wölfe
05-12 Ein Wolf taucht auf
13-98 Nichts passiert
Wald (Stufe 11-20)
01-50 Ein Drache kreist
51-00 1W4+1 Oger
Sumpf (Stufe 5-10)
01-00 Nebel`

type ResolverTestSuite struct {
	suite.Suite
	table *tables.Table
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	s.table = tables.Compile(forestSource)
}

func (s *ResolverTestSuite) newResolver(values ...int) *tables.Resolver {
	roller := random.NewScripted(values...)
	evaluator, err := expression.NewEvaluator(&expression.Config{Roller: roller})
	s.Require().NoError(err)

	resolver, err := tables.NewResolver(&tables.ResolverConfig{Roller: roller, Evaluator: evaluator})
	s.Require().NoError(err)
	return resolver
}

func (s *ResolverTestSuite) TestFixedRollAlwaysMatches() {
	resolver := s.newResolver(7)

	for i := 0; i < 1000; i++ {
		result, err := resolver.Resolve(s.table, "wald", "1-4", 0)
		s.Require().NoError(err)
		s.Equal(7, result.Roll)
		s.Require().NotNil(result.Entry)
		s.Equal(5, result.Entry.Low)
		s.Equal(12, result.Entry.High)
		s.Equal("Ein Wolf taucht auf", result.Text)
		s.False(result.Gap)
	}
}

func (s *ResolverTestSuite) TestGapReturnsSentinel() {
	result, err := s.newResolver(99).Resolve(s.table, "Wald", "1-4", 0)

	s.Require().NoError(err)
	s.True(result.Gap)
	s.Nil(result.Entry)
	s.Equal(tables.GapSentinel, result.Text)
	s.Equal(99, result.Value)
}

func (s *ResolverTestSuite) TestSubBandFallsBackToSuperBand() {
	testCases := []struct {
		name string
		tier string
	}{
		{name: "lower sub-band", tier: "11-16"},
		{name: "upper sub-band", tier: "17-20"},
		{name: "single level", tier: "18"},
		{name: "written out", tier: "Stufe 11 bis 16"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result, err := s.newResolver(30).Resolve(s.table, "Wald", tc.tier, 0)
			s.Require().NoError(err)
			s.True(result.FellBack)
			s.Equal("11-20", result.Tier)
			s.Equal("Ein Drache kreist", result.Text)
		})
	}
}

func (s *ResolverTestSuite) TestSuperBandRequestedDirectly() {
	result, err := s.newResolver(30).Resolve(s.table, "Wald", "11-20", 0)
	s.Require().NoError(err)
	s.False(result.FellBack)
}

func (s *ResolverTestSuite) TestNoTableFoundListsTiers() {
	_, err := s.newResolver(1).Resolve(s.table, "Wald", "5-10", 0)

	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.True(errors.HasReason(err, errors.ReasonNoTableFound))
	tiers, ok := errors.GetMetaString(err, errors.MetaAvailableTiers)
	s.True(ok)
	s.Equal("1-4, 11-20", tiers)
	s.Contains(err.Error(), "1-4, 11-20")
}

func (s *ResolverTestSuite) TestUnknownCategory() {
	_, err := s.newResolver(1).Resolve(s.table, "Wüste", "1-4", 0)

	s.Require().Error(err)
	s.True(errors.HasReason(err, errors.ReasonNoTableFound))
}

func (s *ResolverTestSuite) TestEmptyTable() {
	_, err := s.newResolver(1).Resolve(tables.Compile(""), "Wald", "1-4", 0)
	s.True(errors.HasReason(err, errors.ReasonNoTableFound))
}

func (s *ResolverTestSuite) TestBonusShiftsAndClamps() {
	result, err := s.newResolver(3).Resolve(s.table, "Wald", "1-4", 5)
	s.Require().NoError(err)
	s.Equal(3, result.Roll)
	s.Equal(8, result.Value)
	s.Equal("Ein Wolf taucht auf", result.Text)

	result, err = s.newResolver(3).Resolve(s.table, "Wald", "1-4", -50)
	s.Require().NoError(err)
	s.Equal(1, result.Value)
	s.Equal("Ein Rudel Wölfe", result.Text)

	result, err = s.newResolver(98).Resolve(s.table, "Sumpf", "5-10", 40)
	s.Require().NoError(err)
	s.Equal(100, result.Value)
}

func (s *ResolverTestSuite) TestEmbeddedDiceExpanded() {
	// d100 = 80, then 1W4 = 3
	result, err := s.newResolver(80, 3).Resolve(s.table, "Wald", "17-20", 0)

	s.Require().NoError(err)
	s.Equal("1W4+1 Oger", result.RawText)
	s.Equal("4 Oger", result.Text)
	s.Require().Len(result.SubRolls, 1)
	s.Equal("1W4+1 -> 4", result.SubRolls[0].String())
}

func TestNewResolver_Validation(t *testing.T) {
	_, err := tables.NewResolver(nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	_, err = tables.NewResolver(&tables.ResolverConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
