// Package v1alpha1 handles the dice bot grpc service interface
package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/handlers/format"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/conversation"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel"
	dicesession "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session"
)

// Request fields
const (
	fieldConversationID = "conversation_id"
	fieldContext        = "context"
	fieldExpression     = "expression"
	fieldSkipBonus      = "skip_bonus"
	fieldCategory       = "category"
	fieldTier           = "tier"
	fieldCurrent        = "current"
	fieldKind           = "kind"
	fieldValue          = "value"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	DiceService         dice.Service
	TableService        table.Service
	TravelService       travel.Service
	ConversationService conversation.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}
	if c.TableService == nil {
		vb.RequiredField("TableService")
	}
	if c.TravelService == nil {
		vb.RequiredField("TravelService")
	}
	if c.ConversationService == nil {
		vb.RequiredField("ConversationService")
	}

	return vb.Build()
}

// Handler implements DiceBotServiceServer
type Handler struct {
	diceService         dice.Service
	tableService        table.Service
	travelService       travel.Service
	conversationService conversation.Service
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		diceService:         cfg.DiceService,
		tableService:        cfg.TableService,
		travelService:       cfg.TravelService,
		conversationService: cfg.ConversationService,
	}, nil
}

// RollDice evaluates a dice expression for a conversation
func (h *Handler) RollDice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	conversationID := stringField(req, fieldConversationID)
	if conversationID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("conversation_id is required"))
	}
	expr := stringField(req, fieldExpression)
	if expr == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("expression is required"))
	}

	out, err := h.diceService.RollDice(ctx, &dice.RollDiceInput{
		ConversationID: conversationID,
		Context:        stringField(req, fieldContext),
		Expression:     expr,
		SkipBonus:      boolField(req, fieldSkipBonus),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"roll_id":    out.Roll.RollID,
		"expression": out.Result.Expression,
		"total":      out.Result.Total,
		"bonus":      out.Roll.Bonus,
		"trace":      list(out.Result.Trace),
		"text":       format.Roll(out.Result, out.Roll.Bonus),
	})
}

// GetRollSession returns the roll history of a conversation
func (h *Handler) GetRollSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	conversationID := stringField(req, fieldConversationID)
	if conversationID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("conversation_id is required"))
	}

	out, err := h.diceService.GetRollSession(ctx, &dice.GetRollSessionInput{
		ConversationID: conversationID,
		Context:        stringField(req, fieldContext),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"rolls":      rolls(out.Session.Rolls),
		"created_at": out.Session.CreatedAt.Unix(),
		"expires_at": out.Session.ExpiresAt.Unix(),
	})
}

// ClearRollSession removes the roll history of a conversation
func (h *Handler) ClearRollSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	conversationID := stringField(req, fieldConversationID)
	if conversationID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("conversation_id is required"))
	}

	out, err := h.diceService.ClearRollSession(ctx, &dice.ClearRollSessionInput{
		ConversationID: conversationID,
		Context:        stringField(req, fieldContext),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"rolls_cleared": out.RollsDeleted,
	})
}

// ResolveTable rolls on the table of a category and tier
func (h *Handler) ResolveTable(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	category := stringField(req, fieldCategory)
	if category == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("category is required"))
	}
	tier := stringField(req, fieldTier)
	if tier == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("tier is required"))
	}

	out, err := h.tableService.Resolve(ctx, &table.ResolveInput{
		ConversationID: stringField(req, fieldConversationID),
		Category:       category,
		Tier:           tier,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(resolution(out.Result))
}

// ListCategories lists the loaded categories, or the tiers of one category
func (h *Handler) ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if category := stringField(req, fieldCategory); category != "" {
		out, err := h.tableService.ListTiers(ctx, &table.ListTiersInput{Category: category})
		if err != nil {
			return nil, errors.ToGRPCError(err)
		}
		return response(map[string]any{
			"category": out.Category,
			"tiers":    list(out.Tiers),
		})
	}

	out, err := h.tableService.ListCategories(ctx, &table.ListCategoriesInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return response(map[string]any{
		"categories": list(out.Categories),
	})
}

// ReloadTables recompiles every table source
func (h *Handler) ReloadTables(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.tableService.Reload(ctx, &table.ReloadInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"sources":    out.Sources,
		"categories": out.Categories,
		"entries":    out.Entries,
		"warnings":   warnings(out.Warnings),
	})
}

// SampleTransition moves a conversation's party to the next category
func (h *Handler) SampleTransition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	conversationID := stringField(req, fieldConversationID)
	if conversationID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("conversation_id is required"))
	}

	out, err := h.travelService.Travel(ctx, &travel.TravelInput{
		ConversationID: conversationID,
		Current:        stringField(req, fieldCurrent),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(travelled(out))
}

// StartFlow enters a conversation flow
func (h *Handler) StartFlow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	conversationID := stringField(req, fieldConversationID)
	if conversationID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("conversation_id is required"))
	}
	kind := stringField(req, fieldKind)
	if kind == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("kind is required"))
	}

	out, err := h.conversationService.StartFlow(ctx, &conversation.StartFlowInput{
		ConversationID: conversationID,
		Kind:           entities.FlowKind(kind),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	fields := map[string]any{"status": string(out.Status)}
	addPrompt(fields, out.Prompt)
	return response(fields)
}

// SubmitInput feeds one reply to the active flow
func (h *Handler) SubmitInput(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	conversationID := stringField(req, fieldConversationID)
	if conversationID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("conversation_id is required"))
	}

	var reply conversation.Reply
	switch conversation.ReplyKind(stringField(req, fieldKind)) {
	case conversation.ReplySelection:
		reply = conversation.Selection(stringField(req, fieldValue))
	case conversation.ReplyText:
		reply = conversation.Text(stringField(req, fieldValue))
	case conversation.ReplyCancel:
		reply = conversation.Cancel()
	default:
		return nil, errors.ToGRPCError(errors.InvalidArgument("kind must be selection, text or cancel"))
	}

	out, err := h.conversationService.Submit(ctx, &conversation.SubmitInput{
		ConversationID: conversationID,
		Reply:          reply,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	fields := map[string]any{"status": string(out.Status)}
	if out.Reason != "" {
		fields["reason"] = out.Reason
	}
	addPrompt(fields, out.Prompt)
	addOutcome(fields, out.Outcome)
	return response(fields)
}

// CancelFlow discards the active flow
func (h *Handler) CancelFlow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	conversationID := stringField(req, fieldConversationID)
	if conversationID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("conversation_id is required"))
	}

	out, err := h.conversationService.CancelFlow(ctx, &conversation.CancelFlowInput{ConversationID: conversationID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{"cancelled": out.Cancelled})
}

func addPrompt(fields map[string]any, prompt *conversation.Prompt) {
	if prompt == nil {
		return
	}
	fields["step"] = string(prompt.Step)
	fields["message"] = prompt.Message
	fields["options"] = list(prompt.Options)
	fields["expects"] = string(prompt.Expects)
	fields["text"] = format.Prompt(prompt.Message, prompt.Options)
}

func addOutcome(fields map[string]any, outcome *conversation.Outcome) {
	if outcome == nil {
		return
	}

	var result map[string]any
	switch {
	case outcome.Roll != nil:
		result = map[string]any{
			"expression": outcome.Roll.Result.Expression,
			"total":      outcome.Roll.Result.Total,
			"bonus":      outcome.Roll.Roll.Bonus,
			"trace":      list(outcome.Roll.Result.Trace),
			"text":       format.Roll(outcome.Roll.Result, outcome.Roll.Roll.Bonus),
		}
	case outcome.Resolution != nil:
		result = resolution(outcome.Resolution)
	case outcome.Travel != nil:
		result = travelled(outcome.Travel)
	case outcome.Bonus != nil:
		result = map[string]any{
			"bonus": *outcome.Bonus,
			"text":  format.Bonus(*outcome.Bonus),
		}
	default:
		result = map[string]any{}
	}
	result["flow"] = string(outcome.Flow)
	fields["outcome"] = result
}

func resolution(r *tables.Result) map[string]any {
	subRolls := make([]any, 0, len(r.SubRolls))
	for _, sub := range r.SubRolls {
		subRolls = append(subRolls, sub.String())
	}

	return map[string]any{
		"category":       r.Category,
		"requested_tier": r.RequestedTier,
		"tier":           r.Tier,
		"fell_back":      r.FellBack,
		"roll":           r.Roll,
		"bonus":          r.Bonus,
		"value":          r.Value,
		"gap":            r.Gap,
		"raw_text":       r.RawText,
		"result":         r.Text,
		"sub_rolls":      subRolls,
		"text":           format.Resolution(r),
	}
}

func travelled(out *travel.TravelOutput) map[string]any {
	return map[string]any{
		"from":    out.Transition.From,
		"to":      out.Transition.To,
		"stays":   out.Transition.Stays,
		"draw":    out.Transition.Draw,
		"current": out.Current,
		"text":    format.Transition(out.Transition),
	}
}

func rolls(in []dicesession.DiceRoll) []any {
	out := make([]any, 0, len(in))
	for _, r := range in {
		out = append(out, map[string]any{
			"roll_id":    r.RollID,
			"expression": r.Expression,
			"total":      r.Total,
			"bonus":      r.Bonus,
			"trace":      list(r.Trace),
			"rolled_at":  r.RolledAt.Unix(),
		})
	}
	return out
}

func warnings(in []tables.Warning) []any {
	out := make([]any, 0, len(in))
	for _, w := range in {
		out = append(out, w.String())
	}
	return out
}

func list(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func boolField(req *structpb.Struct, key string) bool {
	return req.GetFields()[key].GetBoolValue()
}

func response(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return out, nil
}
