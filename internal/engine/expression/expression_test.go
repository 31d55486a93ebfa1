package expression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/random"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

type EvaluatorTestSuite struct {
	suite.Suite
}

func TestEvaluatorTestSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (s *EvaluatorTestSuite) newEvaluator(values ...int) *expression.Evaluator {
	e, err := expression.NewEvaluator(&expression.Config{Roller: random.NewScripted(values...)})
	s.Require().NoError(err)
	return e
}

func (s *EvaluatorTestSuite) TestEvaluate_MixedTerms() {
	e := s.newEvaluator(14, 3, 4)

	result, err := e.Evaluate("1d20+2d6+3")
	s.Require().NoError(err)

	s.Equal("1d20+2d6+3", result.Expression)
	s.Equal(14+3+4+3, result.Total)
	s.Require().Len(result.Trace, 3)
	s.Equal("1d20: [14] = +14", result.Trace[0])
	s.Equal("+2d6: [3, 4] = +7", result.Trace[1])
	s.Equal("+3", result.Trace[2])
}

func (s *EvaluatorTestSuite) TestEvaluate_Normalization() {
	testCases := []struct {
		name    string
		input   string
		display string
	}{
		{name: "leading plus dropped", input: "+1d6", display: "1d6"},
		{name: "whitespace stripped", input: " 2 d 6 + 1 ", display: "2d6+1"},
		{name: "german separator lowercased", input: "3W6-1", display: "3w6-1"},
		{name: "upper case d", input: "1D8", display: "1d8"},
		{name: "leading minus kept", input: "-1d4+10", display: "-1d4+10"},
		{name: "flat only", input: "5-3", display: "5-3"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, display, err := s.newEvaluator(1).Parse(tc.input)
			s.Require().NoError(err)
			s.Equal(tc.display, display)
		})
	}
}

func (s *EvaluatorTestSuite) TestEvaluate_NegativeDiceTerm() {
	e := s.newEvaluator(4, 2)

	result, err := e.Evaluate("10-2d4")
	s.Require().NoError(err)
	s.Equal(4, result.Total)
	s.Equal("-2d4: [4, 2] = -6", result.Trace[1])
}

func (s *EvaluatorTestSuite) TestEvaluate_Invalid() {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "blank", input: "   "},
		{name: "invalid separator", input: "3x9"},
		{name: "letters", input: "roll 1d6"},
		{name: "dangling separator", input: "1d6d"},
		{name: "double sign", input: "1d6++2"},
		{name: "missing sides", input: "2d"},
		{name: "lone sign", input: "-"},
		{name: "zero dice", input: "0d6"},
		{name: "too many dice", input: "101d6"},
		{name: "one sided die", input: "1d1"},
		{name: "too many sides", input: "1d100001"},
		{name: "total dice ceiling", input: "100d6+100d6+1d6"},
		{name: "huge number", input: "1d6+9999999999"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result, err := s.newEvaluator(1).Evaluate(tc.input)
			s.Error(err)
			s.Nil(result)
			s.True(expression.IsInvalidExpression(err), "expected invalid expression for %q, got %v", tc.input, err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *EvaluatorTestSuite) TestEvaluate_ExactCeilingAllowed() {
	result, err := s.newEvaluator(1).Evaluate("100d6+100d6")
	s.Require().NoError(err)
	s.Equal(200, result.Total)
}

func TestEvaluate_RandomPropertyHolds(t *testing.T) {
	e, err := expression.NewEvaluator(&expression.Config{Roller: random.NewSeeded(99)})
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		result, err := e.Evaluate("1d20+2d6+3")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Total, 6)
		assert.LessOrEqual(t, result.Total, 35)
		assert.Len(t, result.Trace, 3)

		sum := 0
		for _, term := range result.Terms {
			for _, r := range term.Rolls {
				assert.GreaterOrEqual(t, r, 1)
				assert.LessOrEqual(t, r, term.Term.Sides)
			}
			sum += term.Subtotal
		}
		assert.Equal(t, result.Total, sum)
	}
}

func TestEvaluate_SameSeedSameDraws(t *testing.T) {
	a, err := expression.NewEvaluator(&expression.Config{Roller: random.NewSeeded(5)})
	require.NoError(t, err)
	b, err := expression.NewEvaluator(&expression.Config{Roller: random.NewSeeded(5)})
	require.NoError(t, err)

	ra, err := a.Evaluate("4d6+1d12")
	require.NoError(t, err)
	rb, err := b.Evaluate("4d6+1d12")
	require.NoError(t, err)
	assert.Equal(t, ra.Terms, rb.Terms)
}

func TestNewEvaluator_Validation(t *testing.T) {
	_, err := expression.NewEvaluator(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = expression.NewEvaluator(&expression.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Roller")

	_, err = expression.NewEvaluator(&expression.Config{
		Roller: random.Fixed(1),
		Limits: &expression.Limits{MaxCount: 10, MinSides: 2, MaxSides: 20, MaxTotalDice: 5},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxTotalDice")
}

func TestEvaluate_CustomLimits(t *testing.T) {
	e, err := expression.NewEvaluator(&expression.Config{
		Roller: random.Fixed(1),
		Limits: &expression.Limits{MaxCount: 5, MinSides: 2, MaxSides: 20, MaxTotalDice: 6},
	})
	require.NoError(t, err)

	_, err = e.Evaluate("6d6")
	assert.True(t, expression.IsInvalidExpression(err))
	_, err = e.Evaluate("1d100")
	assert.True(t, expression.IsInvalidExpression(err))
	_, err = e.Evaluate("5d6+2d6")
	assert.True(t, expression.IsInvalidExpression(err))

	result, err := e.Evaluate("5d6+1d20")
	require.NoError(t, err)
	assert.Equal(t, 6, result.Total)
}

func TestExpand(t *testing.T) {
	e, err := expression.NewEvaluator(&expression.Config{Roller: random.NewScripted(3, 5, 2)})
	require.NoError(t, err)

	text, subs := e.Expand("2W6+1 Goblins greifen an, Verstärkung in 1d4 Runden")
	assert.Equal(t, "9 Goblins greifen an, Verstärkung in 2 Runden", text)
	require.Len(t, subs, 2)
	assert.Equal(t, "2W6+1 -> 9", subs[0].String())
	assert.Equal(t, "1d4 -> 2", subs[1].String())
}

func TestExpand_LeavesPlainTextAndInvalidNotation(t *testing.T) {
	e, err := expression.NewEvaluator(&expression.Config{Roller: random.Fixed(4)})
	require.NoError(t, err)

	text, subs := e.Expand("Ein Wolf taucht auf")
	assert.Equal(t, "Ein Wolf taucht auf", text)
	assert.Empty(t, subs)

	text, subs = e.Expand("1W1 Münze und 1W6er Gruppe")
	assert.Equal(t, "1W1 Münze und 1W6er Gruppe", text)
	assert.Empty(t, subs)
}
