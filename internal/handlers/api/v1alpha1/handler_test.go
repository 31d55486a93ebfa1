package v1alpha1_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/transition"
	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/api/v1alpha1"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/conversation"
	conversationmock "github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/conversation/mock"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	dicemock "github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice/mock"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table"
	tablemock "github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table/mock"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel"
	travelmock "github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel/mock"
	dicesession "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockDice         *dicemock.MockService
	mockTable        *tablemock.MockService
	mockTravel       *travelmock.MockService
	mockConversation *conversationmock.MockService
	handler          *v1alpha1.Handler
	ctx              context.Context
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockDice = dicemock.NewMockService(s.ctrl)
	s.mockTable = tablemock.NewMockService(s.ctrl)
	s.mockTravel = travelmock.NewMockService(s.ctrl)
	s.mockConversation = conversationmock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		DiceService:         s.mockDice,
		TableService:        s.mockTable,
		TravelService:       s.mockTravel,
		ConversationService: s.mockConversation,
	})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(fields map[string]any) *structpb.Struct {
	req, err := structpb.NewStruct(fields)
	s.Require().NoError(err)
	return req
}

func (s *HandlerTestSuite) TestRollDice() {
	s.mockDice.EXPECT().
		RollDice(s.ctx, &dice.RollDiceInput{ConversationID: "chat_42", Expression: "2W6+3"}).
		Return(&dice.RollDiceOutput{
			Roll: &dicesession.DiceRoll{RollID: "roll_1", Expression: "2d6+3", Total: 10},
			Result: &expression.Result{
				Expression: "2d6+3",
				Total:      10,
				Trace:      []string{"+2d6: [3, 4] = +7", "+3"},
				Terms:      []expression.TermResult{{Rolls: []int{3, 4}, Subtotal: 7}, {Subtotal: 3}},
			},
		}, nil)

	resp, err := s.handler.RollDice(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"expression":      "2W6+3",
	}))
	s.Require().NoError(err)

	fields := resp.AsMap()
	s.Equal("roll_1", fields["roll_id"])
	s.Equal(float64(10), fields["total"])
	s.Equal([]any{"+2d6: [3, 4] = +7", "+3"}, fields["trace"])
	s.Equal("🎲 2d6+3\nWürfe: 3, 4\nSumme: 10", fields["text"])
}

func (s *HandlerTestSuite) TestRollDice_Validation() {
	_, err := s.handler.RollDice(s.ctx, s.request(map[string]any{"expression": "1W6"}))
	s.Equal(codes.InvalidArgument, status.Code(err))

	_, err = s.handler.RollDice(s.ctx, s.request(map[string]any{"conversation_id": "chat_42"}))
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestRollDice_InvalidExpression() {
	s.mockDice.EXPECT().
		RollDice(s.ctx, gomock.Any()).
		Return(nil, errors.InvalidArgument("ungültiger Ausdruck").WithReason(errors.ReasonInvalidExpression))

	_, err := s.handler.RollDice(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"expression":      "2x6",
	}))

	st, ok := status.FromError(err)
	s.Require().True(ok)
	s.Equal(codes.InvalidArgument, st.Code())
	s.Require().Len(st.Details(), 1)
	info, ok := st.Details()[0].(*errdetails.ErrorInfo)
	s.Require().True(ok)
	s.Equal(errors.ReasonInvalidExpression, info.GetReason())
}

func (s *HandlerTestSuite) TestGetRollSession() {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.mockDice.EXPECT().
		GetRollSession(s.ctx, &dice.GetRollSessionInput{ConversationID: "chat_42"}).
		Return(&dice.GetRollSessionOutput{Session: &dicesession.DiceSession{
			ConversationID: "chat_42",
			Rolls:          []dicesession.DiceRoll{{RollID: "roll_1", Expression: "1d20", Total: 17}},
			CreatedAt:      created,
			ExpiresAt:      created.Add(15 * time.Minute),
		}}, nil)

	resp, err := s.handler.GetRollSession(s.ctx, s.request(map[string]any{"conversation_id": "chat_42"}))
	s.Require().NoError(err)

	rolls := resp.AsMap()["rolls"].([]any)
	s.Require().Len(rolls, 1)
	s.Equal("roll_1", rolls[0].(map[string]any)["roll_id"])
	s.Equal(float64(created.Add(15*time.Minute).Unix()), resp.AsMap()["expires_at"])
}

func (s *HandlerTestSuite) TestClearRollSession() {
	s.mockDice.EXPECT().
		ClearRollSession(s.ctx, &dice.ClearRollSessionInput{ConversationID: "chat_42", Context: "roll"}).
		Return(&dice.ClearRollSessionOutput{RollsDeleted: 3}, nil)

	resp, err := s.handler.ClearRollSession(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"context":         "roll",
	}))
	s.Require().NoError(err)
	s.Equal(float64(3), resp.AsMap()["rolls_cleared"])
}

func (s *HandlerTestSuite) TestResolveTable() {
	s.mockTable.EXPECT().
		Resolve(s.ctx, &table.ResolveInput{ConversationID: "chat_42", Category: "Wald", Tier: "17-20"}).
		Return(&table.ResolveOutput{Result: &tables.Result{
			Category:      "Wald",
			RequestedTier: "17-20",
			Tier:          "11-20",
			FellBack:      true,
			Roll:          80,
			Value:         80,
			RawText:       "1W4+1 Oger",
			Text:          "4 Oger",
		}}, nil)

	resp, err := s.handler.ResolveTable(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"category":        "Wald",
		"tier":            "17-20",
	}))
	s.Require().NoError(err)

	fields := resp.AsMap()
	s.Equal(true, fields["fell_back"])
	s.Equal("4 Oger", fields["result"])
	s.Equal("📜 Wald, Stufe 17-20 (Tabelle 11-20)\nWurf: 80\n4 Oger", fields["text"])
}

func (s *HandlerTestSuite) TestResolveTable_NoTableFound() {
	s.mockTable.EXPECT().
		Resolve(s.ctx, gomock.Any()).
		Return(nil, errors.NotFound("no table").
			WithReason(errors.ReasonNoTableFound).
			WithMeta(errors.MetaAvailableTiers, "1-4, 11-20"))

	_, err := s.handler.ResolveTable(s.ctx, s.request(map[string]any{"category": "Wald", "tier": "5-10"}))
	s.Equal(codes.NotFound, status.Code(err))

	converted := errors.FromGRPCError(err)
	tiers, ok := errors.GetMetaString(converted, errors.MetaAvailableTiers)
	s.True(ok)
	s.Equal("1-4, 11-20", tiers)
}

func (s *HandlerTestSuite) TestListCategories() {
	s.mockTable.EXPECT().
		ListCategories(s.ctx, &table.ListCategoriesInput{}).
		Return(&table.ListCategoriesOutput{Categories: []string{"Wald", "Sumpf"}}, nil)

	resp, err := s.handler.ListCategories(s.ctx, s.request(nil))
	s.Require().NoError(err)
	s.Equal([]any{"Wald", "Sumpf"}, resp.AsMap()["categories"])

	s.mockTable.EXPECT().
		ListTiers(s.ctx, &table.ListTiersInput{Category: "wald"}).
		Return(&table.ListTiersOutput{Category: "Wald", Tiers: []string{"1-4"}}, nil)

	resp, err = s.handler.ListCategories(s.ctx, s.request(map[string]any{"category": "wald"}))
	s.Require().NoError(err)
	s.Equal([]any{"1-4"}, resp.AsMap()["tiers"])
}

func (s *HandlerTestSuite) TestReloadTables() {
	s.mockTable.EXPECT().
		Reload(s.ctx, &table.ReloadInput{}).
		Return(&table.ReloadOutput{
			Sources:    2,
			Categories: 3,
			Entries:    40,
			Warnings:   []tables.Warning{{Category: "Wald", Tier: "1-4", Message: "overlap"}},
		}, nil)

	resp, err := s.handler.ReloadTables(s.ctx, s.request(nil))
	s.Require().NoError(err)
	s.Equal(float64(40), resp.AsMap()["entries"])
	s.Equal([]any{"Wald (1-4): overlap"}, resp.AsMap()["warnings"])
}

func (s *HandlerTestSuite) TestSampleTransition() {
	s.mockTravel.EXPECT().
		Travel(s.ctx, &travel.TravelInput{ConversationID: "chat_42", Current: "Wald"}).
		Return(&travel.TravelOutput{
			Transition: &transition.Transition{From: "Wald", To: "Gebirge", Draw: 660001},
			Current:    "Gebirge",
		}, nil)

	resp, err := s.handler.SampleTransition(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"current":         "Wald",
	}))
	s.Require().NoError(err)
	s.Equal("Gebirge", resp.AsMap()["current"])
	s.Equal("🧭 Von Wald nach Gebirge", resp.AsMap()["text"])
}

func (s *HandlerTestSuite) TestStartFlow() {
	s.mockConversation.EXPECT().
		StartFlow(s.ctx, &conversation.StartFlowInput{ConversationID: "chat_42", Kind: entities.FlowEncounter}).
		Return(&conversation.StartFlowOutput{
			Status: conversation.StatusPrompt,
			Prompt: &conversation.Prompt{
				Step:    entities.StepCollectingCategory,
				Message: "Wähle eine Kategorie",
				Options: []string{"Wald"},
				Expects: conversation.ReplySelection,
			},
		}, nil)

	resp, err := s.handler.StartFlow(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"kind":            "encounter",
	}))
	s.Require().NoError(err)

	fields := resp.AsMap()
	s.Equal("prompt", fields["status"])
	s.Equal("collecting_category", fields["step"])
	s.Equal([]any{"Wald"}, fields["options"])
	s.Equal("selection", fields["expects"])
}

func (s *HandlerTestSuite) TestSubmitInput() {
	bonus := 5
	s.mockConversation.EXPECT().
		Submit(s.ctx, &conversation.SubmitInput{ConversationID: "chat_42", Reply: conversation.Text("+5")}).
		Return(&conversation.SubmitOutput{
			Status:  conversation.StatusResolved,
			Outcome: &conversation.Outcome{Flow: entities.FlowBonus, Bonus: &bonus},
		}, nil)

	resp, err := s.handler.SubmitInput(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"kind":            "text",
		"value":           "+5",
	}))
	s.Require().NoError(err)

	fields := resp.AsMap()
	s.Equal("resolved", fields["status"])
	outcome := fields["outcome"].(map[string]any)
	s.Equal("bonus", outcome["flow"])
	s.Equal(float64(5), outcome["bonus"])
}

func (s *HandlerTestSuite) TestSubmitInput_UnknownKind() {
	_, err := s.handler.SubmitInput(s.ctx, s.request(map[string]any{
		"conversation_id": "chat_42",
		"kind":            "voice",
	}))
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *HandlerTestSuite) TestCancelFlow() {
	s.mockConversation.EXPECT().
		CancelFlow(s.ctx, &conversation.CancelFlowInput{ConversationID: "chat_42"}).
		Return(&conversation.CancelFlowOutput{Cancelled: true}, nil)

	resp, err := s.handler.CancelFlow(s.ctx, s.request(map[string]any{"conversation_id": "chat_42"}))
	s.Require().NoError(err)
	s.Equal(true, resp.AsMap()["cancelled"])
}

func (s *HandlerTestSuite) TestServiceDescOverGRPC() {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	v1alpha1.RegisterDiceBotServiceServer(srv, s.handler)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	defer func() { _ = conn.Close() }()

	s.mockTable.EXPECT().
		ListCategories(gomock.Any(), gomock.Any()).
		Return(&table.ListCategoriesOutput{Categories: []string{"Küste"}}, nil)

	client := v1alpha1.NewClient(conn)
	resp, err := client.Call(s.ctx, v1alpha1.MethodListCategories, nil)
	s.Require().NoError(err)
	s.Equal([]any{"Küste"}, resp.AsMap()["categories"])

	_, err = client.Call(s.ctx, v1alpha1.MethodCancelFlow, map[string]any{})
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func TestNewHandler_Validation(t *testing.T) {
	_, err := v1alpha1.NewHandler(nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	_, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
