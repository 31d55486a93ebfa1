package dice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/random"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation"
	conversationmock "github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation/mock"
	dicesession "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session"
	dicesessionmock "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session/mock"
)

const testConversationID = "chat_42"

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockSessionRepo  *dicesessionmock.MockRepository
	mockConversation *conversationmock.MockRepository
	clock            *clock.Fixed
	ctx              context.Context
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSessionRepo = dicesessionmock.NewMockRepository(s.ctrl)
	s.mockConversation = conversationmock.NewMockRepository(s.ctrl)
	s.clock = clock.NewFixed(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator(values ...int) dice.Service {
	evaluator, err := expression.NewEvaluator(&expression.Config{Roller: random.NewScripted(values...)})
	s.Require().NoError(err)

	svc, err := dice.NewOrchestrator(&dice.Config{
		DiceSessionRepo:  s.mockSessionRepo,
		ConversationRepo: s.mockConversation,
		Evaluator:        evaluator,
		IDGenerator:      idgen.NewSequential("roll"),
		Clock:            s.clock,
	})
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) expectAppend() {
	s.mockSessionRepo.EXPECT().
		Append(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input dicesession.AppendInput) (*dicesession.AppendOutput, error) {
			s.Equal(testConversationID, input.ConversationID)
			s.Equal(dice.ContextRoll, input.Context)
			s.Equal(dice.DefaultSessionTTL, input.TTL)
			s.Equal(dice.DefaultMaxHistory, input.MaxRolls)
			return &dicesession.AppendOutput{Session: &dicesession.DiceSession{
				ConversationID: input.ConversationID,
				Context:        input.Context,
				Rolls:          []dicesession.DiceRoll{input.Roll},
			}}, nil
		})
}

func (s *OrchestratorTestSuite) TestRollDice() {
	s.Run("without bonus", func() {
		svc := s.newOrchestrator(14, 3, 4)
		s.mockConversation.EXPECT().
			TakeBonus(s.ctx, &conversation.TakeBonusInput{ConversationID: testConversationID}).
			Return(&conversation.TakeBonusOutput{}, nil)
		s.expectAppend()

		out, err := svc.RollDice(s.ctx, &dice.RollDiceInput{
			ConversationID: testConversationID,
			Expression:     "1d20 + 2d6 + 3",
		})
		s.Require().NoError(err)
		s.Equal("1d20+2d6+3", out.Roll.Expression)
		s.Equal(24, out.Roll.Total)
		s.Equal([]string{"1d20: [14] = +14", "+2d6: [3, 4] = +7", "+3"}, out.Roll.Trace)
		s.Equal("roll_1", out.Roll.RollID)
		s.Equal(s.clock.Now(), out.Roll.RolledAt)
		s.Len(out.Session.Rolls, 1)
	})

	s.Run("consumes the carry-over bonus", func() {
		svc := s.newOrchestrator(10)
		s.mockConversation.EXPECT().
			TakeBonus(s.ctx, gomock.Any()).
			Return(&conversation.TakeBonusOutput{Bonus: 5, Found: true}, nil)
		s.expectAppend()

		out, err := svc.RollDice(s.ctx, &dice.RollDiceInput{
			ConversationID: testConversationID,
			Expression:     "1W20",
		})
		s.Require().NoError(err)
		s.Equal(15, out.Roll.Total)
		s.Equal(5, out.Roll.Bonus)
		s.Equal("Bonus: +5", out.Roll.Trace[len(out.Roll.Trace)-1])
	})

	s.Run("skip bonus leaves it pending", func() {
		svc := s.newOrchestrator(10)
		s.expectAppend()

		out, err := svc.RollDice(s.ctx, &dice.RollDiceInput{
			ConversationID: testConversationID,
			Expression:     "1d20",
			SkipBonus:      true,
		})
		s.Require().NoError(err)
		s.Equal(10, out.Roll.Total)
	})

	s.Run("history failure does not fail the roll", func() {
		svc := s.newOrchestrator(6)
		s.mockConversation.EXPECT().TakeBonus(s.ctx, gomock.Any()).Return(&conversation.TakeBonusOutput{}, nil)
		s.mockSessionRepo.EXPECT().Append(s.ctx, gomock.Any()).Return(nil, errors.Unavailable("redis down"))

		out, err := svc.RollDice(s.ctx, &dice.RollDiceInput{ConversationID: testConversationID, Expression: "1d6"})
		s.Require().NoError(err)
		s.Equal(6, out.Roll.Total)
		s.Nil(out.Session)
	})
}

func (s *OrchestratorTestSuite) TestRollDice_InvalidExpressionKeepsBonus() {
	svc := s.newOrchestrator(1)

	// no TakeBonus or Append expected
	_, err := svc.RollDice(s.ctx, &dice.RollDiceInput{ConversationID: testConversationID, Expression: "3x9"})
	s.Require().Error(err)
	s.True(expression.IsInvalidExpression(err))
}

func (s *OrchestratorTestSuite) TestRollDice_Validation() {
	svc := s.newOrchestrator(1)

	_, err := svc.RollDice(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = svc.RollDice(s.ctx, &dice.RollDiceInput{Expression: "1d6"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestGetRollSession() {
	svc := s.newOrchestrator(1)

	s.Run("found", func() {
		s.mockSessionRepo.EXPECT().
			Get(s.ctx, dicesession.GetInput{ConversationID: testConversationID, Context: dice.ContextRoll}).
			Return(&dicesession.GetOutput{Session: &dicesession.DiceSession{ConversationID: testConversationID}}, nil)

		out, err := svc.GetRollSession(s.ctx, &dice.GetRollSessionInput{ConversationID: testConversationID})
		s.Require().NoError(err)
		s.Equal(testConversationID, out.Session.ConversationID)
	})

	s.Run("not found keeps its code", func() {
		s.mockSessionRepo.EXPECT().
			Get(s.ctx, gomock.Any()).
			Return(nil, errors.NotFound("dice session not found"))

		_, err := svc.GetRollSession(s.ctx, &dice.GetRollSessionInput{ConversationID: testConversationID})
		s.True(errors.IsNotFound(err))
	})
}

func (s *OrchestratorTestSuite) TestClearRollSession() {
	svc := s.newOrchestrator(1)

	s.mockSessionRepo.EXPECT().
		Delete(s.ctx, dicesession.DeleteInput{ConversationID: testConversationID, Context: "encounter"}).
		Return(&dicesession.DeleteOutput{RollsDeleted: 3}, nil)

	out, err := svc.ClearRollSession(s.ctx, &dice.ClearRollSessionInput{ConversationID: testConversationID, Context: "encounter"})
	s.Require().NoError(err)
	s.Equal(int32(3), out.RollsDeleted)
}

func TestNewOrchestrator_Validation(t *testing.T) {
	_, err := dice.NewOrchestrator(&dice.Config{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
